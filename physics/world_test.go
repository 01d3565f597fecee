// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics_test

import (
	"testing"
	"time"

	"github.com/latticeengine/lattice/math32"
	"github.com/latticeengine/lattice/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGravityIntegration(t *testing.T) {
	w := physics.NewWorld()
	hb := w.AddBody(physics.Body{Type: physics.Dynamic, Rotation: math32.QuatIdentity()})

	w.Update(1)
	b := w.Body(hb)
	require.NotNil(t, b)
	assert.InDelta(t, -9.81, float64(b.LinearVelocity.Y), 1e-4)
	assert.InDelta(t, -9.81, float64(b.Position.Y), 1e-4)
}

func TestStaticBodiesDoNotMove(t *testing.T) {
	w := physics.NewWorld()
	hb := w.AddBody(physics.Body{Type: physics.Static})
	w.Update(1)
	assert.Equal(t, math32.Vector3{}, w.Body(hb).Position)
}

func TestStepTimeCoversLastStepOnly(t *testing.T) {
	w := physics.NewWorld()
	w.AddBody(physics.Body{Type: physics.Dynamic, Rotation: math32.QuatIdentity()})

	w.Performance.StepTime = time.Hour
	w.Update(0.016)
	assert.Less(t, w.Performance.StepTime, time.Hour)
}

func TestDisabledWorldSkipsUpdate(t *testing.T) {
	w := physics.NewWorld()
	hb := w.AddBody(physics.Body{Type: physics.Dynamic})
	w.Enabled = false
	w.Update(1)
	assert.Equal(t, math32.Vector3{}, w.Body(hb).Position)
	assert.Zero(t, w.Performance.StepTime)
}

func TestContactsAndIntersections(t *testing.T) {
	w := physics.NewWorld()
	w.Gravity = math32.Vector3{}

	b1 := w.AddBody(physics.Body{Type: physics.Static})
	b2 := w.AddBody(physics.Body{Type: physics.Static, Position: math32.Vec3(0.5, 0, 0)})
	b3 := w.AddBody(physics.Body{Type: physics.Static, Position: math32.Vec3(10, 0, 0)})

	half := math32.Vec3(0.5, 0.5, 0.5)
	c1 := w.AddCollider(physics.Collider{Shape: physics.Shape{HalfExtents: half}, Body: b1})
	w.AddCollider(physics.Collider{Shape: physics.Shape{HalfExtents: half}, Body: b2})
	w.AddCollider(physics.Collider{Shape: physics.Shape{HalfExtents: half}, Body: b3})

	w.Update(0.016)
	require.Len(t, w.Contacts(), 1)
	assert.Len(t, w.ContactsWith(c1), 1)
	assert.Empty(t, w.Intersections())

	// sensors report intersections instead of contacts
	sensor := w.AddCollider(physics.Collider{Shape: physics.Shape{HalfExtents: half}, Body: b1, IsSensor: true})
	w.Update(0.016)
	assert.NotEmpty(t, w.IntersectionsWith(sensor))
}

func TestRemoveBodyRemovesColliders(t *testing.T) {
	w := physics.NewWorld()
	hb := w.AddBody(physics.Body{Type: physics.Static})
	hc := w.AddCollider(physics.Collider{Body: hb})

	w.RemoveBody(hb)
	assert.Nil(t, w.Body(hb))
	assert.Nil(t, w.Collider(hc))
}
