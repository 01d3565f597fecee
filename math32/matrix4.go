// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import "errors"

// Matrix4 is a 4x4 matrix organized internally as column matrix.
type Matrix4 [16]float32

// Identity4 returns a new identity [Matrix4] matrix.
func Identity4() Matrix4 {
	m := Matrix4{}
	m.SetIdentity()
	return m
}

// NewMatrix4 returns a new [Matrix4] identity matrix (pointer).
func NewMatrix4() *Matrix4 {
	m := &Matrix4{}
	m.SetIdentity()
	return m
}

// Set sets all the elements of the matrix row by row starting at row1, column1,
// row1, column2, row1, column3 and so forth.
func (m *Matrix4) Set(n11, n12, n13, n14, n21, n22, n23, n24, n31, n32, n33, n34, n41, n42, n43, n44 float32) {
	m[0] = n11
	m[4] = n12
	m[8] = n13
	m[12] = n14
	m[1] = n21
	m[5] = n22
	m[9] = n23
	m[13] = n24
	m[2] = n31
	m[6] = n32
	m[10] = n33
	m[14] = n34
	m[3] = n41
	m[7] = n42
	m[11] = n43
	m[15] = n44
}

// SetIdentity sets this matrix as the identity matrix.
func (m *Matrix4) SetIdentity() {
	m.Set(
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	)
}

// SetZero sets this matrix as the zero matrix.
func (m *Matrix4) SetZero() {
	for i := range m {
		m[i] = 0
	}
}

// CopyPos copies the position elements of the src matrix into this one.
func (m *Matrix4) CopyPos(src *Matrix4) {
	m[12] = src[12]
	m[13] = src[13]
	m[14] = src[14]
}

// Pos returns the position component of the matrix.
func (m *Matrix4) Pos() Vector3 {
	return Vec3(m[12], m[13], m[14])
}

// SetPos sets the position component of the matrix from the given vector.
func (m *Matrix4) SetPos(v Vector3) {
	m[12] = v.X
	m[13] = v.Y
	m[14] = v.Z
}

// SetTranslation sets this matrix to a translation matrix from the given x, y and z values.
func (m *Matrix4) SetTranslation(x, y, z float32) {
	m.Set(
		1, 0, 0, x,
		0, 1, 0, y,
		0, 0, 1, z,
		0, 0, 0, 1,
	)
}

// SetScale sets this matrix to a scale transformation matrix using the scale factors x, y and z.
func (m *Matrix4) SetScale(x, y, z float32) {
	m.Set(
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	)
}

// SetRotationFromQuat sets the rotation component of this matrix from the
// given quaternion, leaving position and scale untouched in the other
// elements it does not write (call on an identity matrix for a pure rotation).
func (m *Matrix4) SetRotationFromQuat(q Quat) {
	x := q.X
	y := q.Y
	z := q.Z
	w := q.W
	x2 := x + x
	y2 := y + y
	z2 := z + z
	xx := x * x2
	xy := x * y2
	xz := x * z2
	yy := y * y2
	yz := y * z2
	zz := z * z2
	wx := w * x2
	wy := w * y2
	wz := w * z2

	m[0] = 1 - (yy + zz)
	m[4] = xy - wz
	m[8] = xz + wy
	m[1] = xy + wz
	m[5] = 1 - (xx + zz)
	m[9] = yz - wx
	m[2] = xz - wy
	m[6] = yz + wx
	m[10] = 1 - (xx + yy)
}

// Mul returns this matrix times the other matrix (this matrix is the one on the left).
func (m *Matrix4) Mul(other *Matrix4) *Matrix4 {
	nm := &Matrix4{}
	nm.MulMatrices(m, other)
	return nm
}

// SetMul sets this matrix to this matrix times the other.
func (m *Matrix4) SetMul(other *Matrix4) {
	m.MulMatrices(m, other)
}

// MulMatrices sets this matrix as the matrix multiplication of a by b
// (i.e., a*b; b is applied first).
func (m *Matrix4) MulMatrices(a, b *Matrix4) {
	a11 := a[0]
	a12 := a[4]
	a13 := a[8]
	a14 := a[12]
	a21 := a[1]
	a22 := a[5]
	a23 := a[9]
	a24 := a[13]
	a31 := a[2]
	a32 := a[6]
	a33 := a[10]
	a34 := a[14]
	a41 := a[3]
	a42 := a[7]
	a43 := a[11]
	a44 := a[15]

	b11 := b[0]
	b12 := b[4]
	b13 := b[8]
	b14 := b[12]
	b21 := b[1]
	b22 := b[5]
	b23 := b[9]
	b24 := b[13]
	b31 := b[2]
	b32 := b[6]
	b33 := b[10]
	b34 := b[14]
	b41 := b[3]
	b42 := b[7]
	b43 := b[11]
	b44 := b[15]

	m[0] = a11*b11 + a12*b21 + a13*b31 + a14*b41
	m[4] = a11*b12 + a12*b22 + a13*b32 + a14*b42
	m[8] = a11*b13 + a12*b23 + a13*b33 + a14*b43
	m[12] = a11*b14 + a12*b24 + a13*b34 + a14*b44

	m[1] = a21*b11 + a22*b21 + a23*b31 + a24*b41
	m[5] = a21*b12 + a22*b22 + a23*b32 + a24*b42
	m[9] = a21*b13 + a22*b23 + a23*b33 + a24*b43
	m[13] = a21*b14 + a22*b24 + a23*b34 + a24*b44

	m[2] = a31*b11 + a32*b21 + a33*b31 + a34*b41
	m[6] = a31*b12 + a32*b22 + a33*b32 + a34*b42
	m[10] = a31*b13 + a32*b23 + a33*b33 + a34*b43
	m[14] = a31*b14 + a32*b24 + a33*b34 + a34*b44

	m[3] = a41*b11 + a42*b21 + a43*b31 + a44*b41
	m[7] = a41*b12 + a42*b22 + a43*b32 + a44*b42
	m[11] = a41*b13 + a42*b23 + a43*b33 + a44*b43
	m[15] = a41*b14 + a42*b24 + a43*b34 + a44*b44
}

// MulScalar multiplies each element of this matrix by the given scalar
// and returns the result as a new matrix.
func (m *Matrix4) MulScalar(s float32) *Matrix4 {
	nm := *m
	for i := range nm {
		nm[i] *= s
	}
	return &nm
}

// Determinant returns the determinant of this matrix.
func (m *Matrix4) Determinant() float32 {
	n11 := m[0]
	n12 := m[4]
	n13 := m[8]
	n14 := m[12]
	n21 := m[1]
	n22 := m[5]
	n23 := m[9]
	n24 := m[13]
	n31 := m[2]
	n32 := m[6]
	n33 := m[10]
	n34 := m[14]
	n41 := m[3]
	n42 := m[7]
	n43 := m[11]
	n44 := m[15]

	return n41*(n14*n23*n32-n13*n24*n32-n14*n22*n33+n12*n24*n33+n13*n22*n34-n12*n23*n34) +
		n42*(n11*n23*n34-n11*n24*n33+n14*n21*n33-n13*n21*n34+n13*n24*n31-n14*n23*n31) +
		n43*(n11*n24*n32-n11*n22*n34-n14*n21*n32+n12*n21*n34+n14*n22*n31-n12*n24*n31) +
		n44*(-n13*n22*n31-n11*n23*n32+n11*n22*n33+n13*n21*n32-n12*n21*n33+n12*n23*n31)
}

// SetInverse sets this matrix to the inverse of the src matrix.
// If the src matrix cannot be inverted, it returns an error and
// sets this matrix to the identity matrix.
func (m *Matrix4) SetInverse(src *Matrix4) error {
	n11 := src[0]
	n12 := src[4]
	n13 := src[8]
	n14 := src[12]
	n21 := src[1]
	n22 := src[5]
	n23 := src[9]
	n24 := src[13]
	n31 := src[2]
	n32 := src[6]
	n33 := src[10]
	n34 := src[14]
	n41 := src[3]
	n42 := src[7]
	n43 := src[11]
	n44 := src[15]

	t11 := n23*n34*n42 - n24*n33*n42 + n24*n32*n43 - n22*n34*n43 - n23*n32*n44 + n22*n33*n44
	t12 := n14*n33*n42 - n13*n34*n42 - n14*n32*n43 + n12*n34*n43 + n13*n32*n44 - n12*n33*n44
	t13 := n13*n24*n42 - n14*n23*n42 + n14*n22*n43 - n12*n24*n43 - n13*n22*n44 + n12*n23*n44
	t14 := n14*n23*n32 - n13*n24*n32 - n14*n22*n33 + n12*n24*n33 + n13*n22*n34 - n12*n23*n34

	det := n11*t11 + n21*t12 + n31*t13 + n41*t14
	if det == 0 {
		m.SetIdentity()
		return errors.New("cannot invert matrix, determinant is 0")
	}

	m[0] = t11
	m[1] = n24*n33*n41 - n23*n34*n41 - n24*n31*n43 + n21*n34*n43 + n23*n31*n44 - n21*n33*n44
	m[2] = n22*n34*n41 - n24*n32*n41 + n24*n31*n42 - n21*n34*n42 - n22*n31*n44 + n21*n32*n44
	m[3] = n23*n32*n41 - n22*n33*n41 - n23*n31*n42 + n21*n33*n42 + n22*n31*n43 - n21*n32*n43
	m[4] = t12
	m[5] = n13*n34*n41 - n14*n33*n41 + n14*n31*n43 - n11*n34*n43 - n13*n31*n44 + n11*n33*n44
	m[6] = n14*n32*n41 - n12*n34*n41 - n14*n31*n42 + n11*n34*n42 + n12*n31*n44 - n11*n32*n44
	m[7] = n12*n33*n41 - n13*n32*n41 + n13*n31*n42 - n11*n33*n42 - n12*n31*n43 + n11*n32*n43
	m[8] = t13
	m[9] = n14*n23*n41 - n13*n24*n41 - n14*n21*n43 + n11*n24*n43 + n13*n21*n44 - n11*n23*n44
	m[10] = n12*n24*n41 - n14*n22*n41 + n14*n21*n42 - n11*n24*n42 - n12*n21*n44 + n11*n22*n44
	m[11] = n13*n22*n41 - n12*n23*n41 - n13*n21*n42 + n11*n23*n42 + n12*n21*n43 - n11*n22*n43
	m[12] = t14
	m[13] = n13*n24*n31 - n14*n23*n31 + n14*n21*n33 - n11*n24*n33 - n13*n21*n34 + n11*n23*n34
	m[14] = n14*n22*n31 - n12*n24*n31 - n14*n21*n32 + n11*n24*n32 + n12*n21*n34 - n11*n22*n34
	m[15] = n12*n23*n31 - n13*n22*n31 + n13*n21*n32 - n11*n23*n32 - n12*n21*n33 + n11*n22*n33

	detInv := 1 / det
	for i := range m {
		m[i] *= detInv
	}
	return nil
}

// Inverse returns the inverse of this matrix.
// If the matrix cannot be inverted, it returns the identity.
func (m *Matrix4) Inverse() *Matrix4 {
	nm := &Matrix4{}
	nm.SetInverse(m) //nolint:errcheck
	return nm
}

// Transpose returns the transpose of this matrix as a new matrix.
func (m *Matrix4) Transpose() *Matrix4 {
	nm := *m
	nm[1], nm[4] = m[4], m[1]
	nm[2], nm[8] = m[8], m[2]
	nm[6], nm[9] = m[9], m[6]
	nm[3], nm[12] = m[12], m[3]
	nm[7], nm[13] = m[13], m[7]
	nm[11], nm[14] = m[14], m[11]
	return &nm
}

// ScaleCols multiplies the matrix columns by the vector components.
// This can be used when multiplying this matrix by a diagonal matrix
// if we store the diagonal components as a vector.
func (m *Matrix4) ScaleCols(v Vector3) *Matrix4 {
	nm := *m
	nm.SetScaleCols(v)
	return &nm
}

// SetScaleCols multiplies the matrix columns by the vector components.
func (m *Matrix4) SetScaleCols(v Vector3) {
	m[0] *= v.X
	m[4] *= v.Y
	m[8] *= v.Z
	m[1] *= v.X
	m[5] *= v.Y
	m[9] *= v.Z
	m[2] *= v.X
	m[6] *= v.Y
	m[10] *= v.Z
	m[3] *= v.X
	m[7] *= v.Y
	m[11] *= v.Z
}

// GetMaxScaleOnAxis returns the maximum scale value of the
// three axes of this matrix.
func (m *Matrix4) GetMaxScaleOnAxis() float32 {
	scaleXSq := m[0]*m[0] + m[1]*m[1] + m[2]*m[2]
	scaleYSq := m[4]*m[4] + m[5]*m[5] + m[6]*m[6]
	scaleZSq := m[8]*m[8] + m[9]*m[9] + m[10]*m[10]
	return Sqrt(Max(scaleXSq, Max(scaleYSq, scaleZSq)))
}

// SetTransform sets this matrix to a transform matrix composed of the
// given position, rotation quaternion and scale.
func (m *Matrix4) SetTransform(pos Vector3, quat Quat, scale Vector3) {
	m.SetIdentity()
	m.SetRotationFromQuat(quat)
	m.SetScaleCols(scale)
	m.SetPos(pos)
}

// Decompose returns the position, rotation quaternion and scale of
// this transform matrix.
func (m *Matrix4) Decompose() (pos Vector3, quat Quat, scale Vector3) {
	sx := Vec3(m[0], m[1], m[2]).Length()
	sy := Vec3(m[4], m[5], m[6]).Length()
	sz := Vec3(m[8], m[9], m[10]).Length()

	// if determinant is negative, we need to invert one scale
	det := m.Determinant()
	if det < 0 {
		sx = -sx
	}

	pos = m.Pos()
	scale = Vec3(sx, sy, sz)

	// scale the rotation part
	invSX := 1 / sx
	invSY := 1 / sy
	invSZ := 1 / sz

	mat := *m
	mat[0] *= invSX
	mat[1] *= invSX
	mat[2] *= invSX
	mat[4] *= invSY
	mat[5] *= invSY
	mat[6] *= invSY
	mat[8] *= invSZ
	mat[9] *= invSZ
	mat[10] *= invSZ

	quat.SetFromRotationMatrix(&mat)
	return
}

// ExtractRotation returns the rotation component of this transform
// matrix as a quaternion, removing any scale.
func (m *Matrix4) ExtractRotation() Quat {
	_, quat, _ := m.Decompose()
	return quat
}

// ExtractScale returns the scale component of this transform matrix.
func (m *Matrix4) ExtractScale() Vector3 {
	_, _, scale := m.Decompose()
	return scale
}

// Basis returns the x, y and z axis basis vectors of this matrix.
func (m *Matrix4) Basis() (xAxis, yAxis, zAxis Vector3) {
	xAxis = Vec3(m[0], m[1], m[2])
	yAxis = Vec3(m[4], m[5], m[6])
	zAxis = Vec3(m[8], m[9], m[10])
	return
}

// AlmostEqual returns whether the matrix is almost equal to the other
// matrix, within the given tolerance on each element.
func (m *Matrix4) AlmostEqual(other *Matrix4, tol float32) bool {
	for i := range m {
		if Abs(m[i]-other[i]) > tol {
			return false
		}
	}
	return true
}
