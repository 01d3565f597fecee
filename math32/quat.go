// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import "fmt"

// Quat is a quaternion with X, Y, Z and W components.
type Quat struct {
	X float32
	Y float32
	Z float32
	W float32
}

// NewQuat returns a new quaternion from the specified components.
func NewQuat(x, y, z, w float32) Quat {
	return Quat{X: x, Y: y, Z: z, W: w}
}

// NewQuatAxisAngle returns a new quaternion from the given axis and
// angle rotation (radians).
func NewQuatAxisAngle(axis Vector3, angle float32) Quat {
	nq := Quat{}
	nq.SetFromAxisAngle(axis, angle)
	return nq
}

// NewQuatEuler returns a new quaternion from the given Euler angles.
func NewQuatEuler(euler Vector3) Quat {
	nq := Quat{}
	nq.SetFromEuler(euler)
	return nq
}

// QuatIdentity returns the identity quaternion.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// Set sets this quaternion's components.
func (q *Quat) Set(x, y, z, w float32) {
	q.X = x
	q.Y = y
	q.Z = z
	q.W = w
}

// SetIdentity sets this quaternion to the identity quaternion.
func (q *Quat) SetIdentity() {
	q.X = 0
	q.Y = 0
	q.Z = 0
	q.W = 1
}

// IsIdentity returns whether this is the identity quaternion.
func (q Quat) IsIdentity() bool {
	return q.X == 0 && q.Y == 0 && q.Z == 0 && q.W == 1
}

// IsNil returns true if all values are 0 (uninitialized).
func (q Quat) IsNil() bool {
	return q.X == 0 && q.Y == 0 && q.Z == 0 && q.W == 0
}

// String returns the string representation of the quaternion.
func (q Quat) String() string {
	return fmt.Sprintf("(%v, %v, %v, %v)", q.X, q.Y, q.Z, q.W)
}

// SetFromEuler sets this quaternion from the specified vector with
// Euler angles for each axis. It is assumed that the Euler angles
// are in XYZ order.
func (q *Quat) SetFromEuler(euler Vector3) {
	c1 := Cos(euler.X / 2)
	c2 := Cos(euler.Y / 2)
	c3 := Cos(euler.Z / 2)
	s1 := Sin(euler.X / 2)
	s2 := Sin(euler.Y / 2)
	s3 := Sin(euler.Z / 2)

	q.X = s1*c2*c3 - c1*s2*s3
	q.Y = c1*s2*c3 + s1*c2*s3
	q.Z = c1*c2*s3 - s1*s2*c3
	q.W = c1*c2*c3 + s1*s2*s3
}

// ToEuler returns a [Vector3] with components as the Euler angles
// from this quaternion, in XYZ order.
func (q Quat) ToEuler() Vector3 {
	m := Identity4()
	m.SetRotationFromQuat(q)
	rot := Vector3{}
	rot.Y = Asin(Clamp(m[8], -1, 1))
	if Abs(m[8]) < 0.99999 {
		rot.X = Atan2(-m[9], m[10])
		rot.Z = Atan2(-m[4], m[0])
	} else {
		rot.X = Atan2(m[6], m[5])
		rot.Z = 0
	}
	return rot
}

// SetFromAxisAngle sets this quaternion with the rotation
// specified by the given axis and angle (radians).
// The axis must be normalized.
func (q *Quat) SetFromAxisAngle(axis Vector3, angle float32) {
	halfAngle := angle / 2
	s := Sin(halfAngle)
	q.X = axis.X * s
	q.Y = axis.Y * s
	q.Z = axis.Z * s
	q.W = Cos(halfAngle)
}

// ToAxisAngle returns the axis and angle (radians) of this quaternion.
func (q Quat) ToAxisAngle() (Vector3, float32) {
	qn := q
	if qn.W > 1 {
		qn.Normalize()
	}
	angle := 2 * Acos(qn.W)
	s := Sqrt(1 - qn.W*qn.W)
	if s < 0.001 {
		return Vec3(1, 0, 0), angle
	}
	return Vec3(qn.X/s, qn.Y/s, qn.Z/s), angle
}

// SetFromRotationMatrix sets this quaternion from the specified rotation matrix.
// The matrix must contain only rotation (no scale).
func (q *Quat) SetFromRotationMatrix(m *Matrix4) {
	m11 := m[0]
	m12 := m[4]
	m13 := m[8]
	m21 := m[1]
	m22 := m[5]
	m23 := m[9]
	m31 := m[2]
	m32 := m[6]
	m33 := m[10]
	trace := m11 + m22 + m33

	switch {
	case trace > 0:
		s := 0.5 / Sqrt(trace+1.0)
		q.W = 0.25 / s
		q.X = (m32 - m23) * s
		q.Y = (m13 - m31) * s
		q.Z = (m21 - m12) * s
	case m11 > m22 && m11 > m33:
		s := 2.0 * Sqrt(1.0+m11-m22-m33)
		q.W = (m32 - m23) / s
		q.X = 0.25 * s
		q.Y = (m12 + m21) / s
		q.Z = (m13 + m31) / s
	case m22 > m33:
		s := 2.0 * Sqrt(1.0+m22-m11-m33)
		q.W = (m13 - m31) / s
		q.X = (m12 + m21) / s
		q.Y = 0.25 * s
		q.Z = (m23 + m32) / s
	default:
		s := 2.0 * Sqrt(1.0+m33-m11-m22)
		q.W = (m21 - m12) / s
		q.X = (m13 + m31) / s
		q.Y = (m23 + m32) / s
		q.Z = 0.25 * s
	}
}

// SetFromUnitVectors sets this quaternion to the rotation from vector
// vFrom to vTo. The vectors must be normalized.
func (q *Quat) SetFromUnitVectors(vFrom, vTo Vector3) {
	const eps = 0.000001
	r := vFrom.Dot(vTo) + 1
	if r < eps {
		r = 0
		if Abs(vFrom.X) > Abs(vFrom.Z) {
			q.Set(-vFrom.Y, vFrom.X, 0, r)
		} else {
			q.Set(0, -vFrom.Z, vFrom.Y, r)
		}
	} else {
		v1 := vFrom.Cross(vTo)
		q.Set(v1.X, v1.Y, v1.Z, r)
	}
	q.Normalize()
}

// Inverse returns the inverse of this quaternion.
func (q Quat) Inverse() Quat {
	nq := q
	nq.SetConjugate()
	nq.Normalize()
	return nq
}

// SetConjugate sets this quaternion to its conjugate.
func (q *Quat) SetConjugate() {
	q.X *= -1
	q.Y *= -1
	q.Z *= -1
}

// Dot returns the dot product of this quaternion with the other one.
func (q Quat) Dot(other Quat) float32 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// Length returns the length (magnitude) of this quaternion.
func (q Quat) Length() float32 {
	return Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// Normalize normalizes this quaternion to unit length.
func (q *Quat) Normalize() {
	l := q.Length()
	if l == 0 {
		q.SetIdentity()
		return
	}
	l = 1 / l
	q.X *= l
	q.Y *= l
	q.Z *= l
	q.W *= l
}

// Mul returns this quaternion multiplied by the other.
func (q Quat) Mul(other Quat) Quat {
	nq := q
	nq.SetMul(other)
	return nq
}

// SetMul sets this quaternion to the multiplication of itself by the other.
func (q *Quat) SetMul(other Quat) {
	qax := q.X
	qay := q.Y
	qaz := q.Z
	qaw := q.W
	qbx := other.X
	qby := other.Y
	qbz := other.Z
	qbw := other.W

	q.X = qax*qbw + qaw*qbx + qay*qbz - qaz*qby
	q.Y = qay*qbw + qaw*qby + qaz*qbx - qax*qbz
	q.Z = qaz*qbw + qaw*qbz + qax*qby - qay*qbx
	q.W = qaw*qbw - qax*qbx - qay*qby - qaz*qbz
}

// Slerp sets this quaternion to the spherical linear interpolation from
// itself to the other quaternion by the factor t.
func (q *Quat) Slerp(other Quat, t float32) {
	if t == 0 {
		return
	}
	if t == 1 {
		*q = other
		return
	}
	x := q.X
	y := q.Y
	z := q.Z
	w := q.W

	cosHalfTheta := w*other.W + x*other.X + y*other.Y + z*other.Z
	if cosHalfTheta < 0 {
		q.W = -other.W
		q.X = -other.X
		q.Y = -other.Y
		q.Z = -other.Z
		cosHalfTheta = -cosHalfTheta
	} else {
		*q = other
	}
	if cosHalfTheta >= 1.0 {
		q.W = w
		q.X = x
		q.Y = y
		q.Z = z
		return
	}

	sqrSinHalfTheta := 1.0 - cosHalfTheta*cosHalfTheta
	if sqrSinHalfTheta < 0.001 {
		s := 1 - t
		q.W = s*w + t*q.W
		q.X = s*x + t*q.X
		q.Y = s*y + t*q.Y
		q.Z = s*z + t*q.Z
		q.Normalize()
		return
	}

	sinHalfTheta := Sqrt(sqrSinHalfTheta)
	halfTheta := Atan2(sinHalfTheta, cosHalfTheta)
	ratioA := Sin((1-t)*halfTheta) / sinHalfTheta
	ratioB := Sin(t*halfTheta) / sinHalfTheta

	q.W = w*ratioA + q.W*ratioB
	q.X = x*ratioA + q.X*ratioB
	q.Y = y*ratioA + q.Y*ratioB
	q.Z = z*ratioA + q.Z*ratioB
}

// AlmostEqual returns whether the quaternion is almost equal to the
// other quaternion, within the given tolerance on each component.
func (q Quat) AlmostEqual(other Quat, tol float32) bool {
	return Abs(q.X-other.X) <= tol && Abs(q.Y-other.Y) <= tol &&
		Abs(q.Z-other.Z) <= tol && Abs(q.W-other.W) <= tol
}
