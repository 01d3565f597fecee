// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

// Dims is a list of vector dimension (component) names.
type Dims int32

const (
	// X is the horizontal axis.
	X Dims = iota

	// Y is the vertical axis.
	Y

	// Z is the depth axis.
	Z

	// W is the fourth homogeneous coordinate axis.
	W
)

// OtherDims returns the other two dimensions for the given one.
func OtherDims(d Dims) (Dims, Dims) {
	switch d {
	case X:
		return Y, Z
	case Y:
		return X, Z
	}
	return X, Y
}
