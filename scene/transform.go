// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import "github.com/latticeengine/lattice/math32"

// Transform is the local placement of a node relative to its parent:
// position, rotation and scale, plus optional pre and post rotations
// that are folded around the main rotation. The resulting local
// matrix is
//
//	M = T * Rpre * R * Rpost * S
//
// and is cached until one of the components changes.
//
// The component fields may be read freely. When writing them
// directly instead of through the Set methods, call [Transform.MarkDirty]
// so the cached matrix is rebuilt; the Set methods do this for you
// and also report whether the value actually changed.
type Transform struct {
	Position     math32.Vector3 `yaml:"position"`
	Rotation     math32.Quat    `yaml:"rotation"`
	PreRotation  math32.Quat    `yaml:"preRotation"`
	PostRotation math32.Quat    `yaml:"postRotation"`
	Scale        math32.Vector3 `yaml:"scale"`

	matrix math32.Matrix4
	cached bool
}

// IdentityTransform returns a transform with no translation or
// rotation and unit scale.
func IdentityTransform() Transform {
	return Transform{
		Rotation:     math32.QuatIdentity(),
		PreRotation:  math32.QuatIdentity(),
		PostRotation: math32.QuatIdentity(),
		Scale:        math32.Vec3(1, 1, 1),
	}
}

// SetPosition sets the translation component and reports whether it changed.
func (t *Transform) SetPosition(pos math32.Vector3) bool {
	if t.Position == pos {
		return false
	}
	t.Position = pos
	t.cached = false
	return true
}

// SetRotation sets the rotation component and reports whether it changed.
func (t *Transform) SetRotation(rot math32.Quat) bool {
	if t.Rotation == rot {
		return false
	}
	t.Rotation = rot
	t.cached = false
	return true
}

// SetScale sets the scale component and reports whether it changed.
func (t *Transform) SetScale(scale math32.Vector3) bool {
	if t.Scale == scale {
		return false
	}
	t.Scale = scale
	t.cached = false
	return true
}

// SetPreRotation sets the pre rotation and reports whether it changed.
func (t *Transform) SetPreRotation(rot math32.Quat) bool {
	if t.PreRotation == rot {
		return false
	}
	t.PreRotation = rot
	t.cached = false
	return true
}

// SetPostRotation sets the post rotation and reports whether it changed.
func (t *Transform) SetPostRotation(rot math32.Quat) bool {
	if t.PostRotation == rot {
		return false
	}
	t.PostRotation = rot
	t.cached = false
	return true
}

// Offset adds the given vector to the position.
func (t *Transform) Offset(delta math32.Vector3) {
	t.Position.SetAdd(delta)
	t.cached = false
}

// MarkDirty invalidates the cached matrix after direct field writes.
func (t *Transform) MarkDirty() {
	t.cached = false
}

// Matrix returns the local transform matrix, rebuilding the cache if
// any component changed since the last call.
func (t *Transform) Matrix() *math32.Matrix4 {
	if !t.cached {
		t.rebuild()
	}
	return &t.matrix
}

func (t *Transform) rebuild() {
	rot := t.PreRotation.Mul(t.Rotation).Mul(t.PostRotation)
	t.matrix.SetTransform(t.Position, rot, t.Scale)
	t.cached = true
}
