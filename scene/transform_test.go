// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene_test

import (
	"testing"

	"github.com/latticeengine/lattice/math32"
	"github.com/latticeengine/lattice/scene"
	"github.com/stretchr/testify/assert"
)

const tol = float32(1.0e-5)

func TestTransformIdentity(t *testing.T) {
	tr := scene.IdentityTransform()
	want := math32.Identity4()
	assert.True(t, tr.Matrix().AlmostEqual(&want, tol))
}

func TestTransformComposition(t *testing.T) {
	tr := scene.IdentityTransform()
	tr.SetPosition(math32.Vec3(1, 2, 3))
	tr.SetRotation(math32.NewQuatAxisAngle(math32.Vec3(0, 1, 0), math32.DegToRad(90)))
	tr.SetScale(math32.Vec3(2, 2, 2))

	// translation applies last, scale first
	p := math32.Vec3(1, 0, 0).MulMatrix4(tr.Matrix())
	assert.True(t, p.AlmostEqual(math32.Vec3(1, 2, 1), tol), "got %v", p)
}

func TestTransformPrePostRotation(t *testing.T) {
	pre := math32.NewQuatAxisAngle(math32.Vec3(0, 1, 0), math32.DegToRad(90))
	post := math32.NewQuatAxisAngle(math32.Vec3(0, 1, 0), math32.DegToRad(-90))

	tr := scene.IdentityTransform()
	tr.SetPreRotation(pre)
	tr.SetPostRotation(post)

	// opposite pre and post rotations cancel out
	want := math32.Identity4()
	assert.True(t, tr.Matrix().AlmostEqual(&want, tol))
}

func TestTransformSettersReportChange(t *testing.T) {
	tr := scene.IdentityTransform()
	assert.True(t, tr.SetPosition(math32.Vec3(1, 0, 0)))
	assert.False(t, tr.SetPosition(math32.Vec3(1, 0, 0)))
	assert.True(t, tr.SetScale(math32.Vec3(2, 1, 1)))
	assert.False(t, tr.SetRotation(math32.QuatIdentity()))
}

func TestTransformDirectWriteNeedsMarkDirty(t *testing.T) {
	tr := scene.IdentityTransform()
	tr.Matrix() // populate the cache

	tr.Position = math32.Vec3(5, 0, 0)
	assert.Equal(t, math32.Vector3{}, tr.Matrix().Pos())

	tr.MarkDirty()
	assert.Equal(t, math32.Vec3(5, 0, 0), tr.Matrix().Pos())
}
