// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package physics provides a coarse 3D physics world: rigid bodies
// with velocity integration and box colliders with broad-phase
// contact detection. It is the simulation backend that scene rigid
// body and collider nodes synchronize with; it is not a full
// constraint solver.
package physics

import (
	"time"

	"github.com/latticeengine/lattice/math32"
	"github.com/latticeengine/lattice/pool"
)

// BodyType determines how a body participates in simulation.
type BodyType int32

const (
	// Static bodies never move.
	Static BodyType = iota

	// Kinematic bodies move only when their position or velocity is
	// set from outside; gravity does not affect them.
	Kinematic

	// Dynamic bodies are fully simulated.
	Dynamic
)

// Body is a rigid body in the world.
type Body struct {
	Type            BodyType
	Position        math32.Vector3
	Rotation        math32.Quat
	LinearVelocity  math32.Vector3
	AngularVelocity math32.Vector3
	Mass            float32
	GravityScale    float32
	Sleeping        bool
}

// Shape is the collision shape of a collider. Only axis-aligned box
// shapes are supported, given by their half extents.
type Shape struct {
	HalfExtents math32.Vector3
}

// Collider attaches a collision shape to a body at a local offset.
// Sensor colliders report intersections instead of contacts.
type Collider struct {
	Shape    Shape
	Body     pool.Handle[Body]
	Offset   math32.Vector3
	IsSensor bool
}

// ContactPair reports that two solid colliders overlap.
type ContactPair struct {
	ColliderA pool.Handle[Collider]
	ColliderB pool.Handle[Collider]
}

// IntersectionPair reports that a pair involving at least one sensor
// collider overlaps.
type IntersectionPair struct {
	ColliderA pool.Handle[Collider]
	ColliderB pool.Handle[Collider]
}

// PerformanceStatistics records the time spent in the most recent step.
type PerformanceStatistics struct {
	StepTime time.Duration
}

// Reset zeroes the statistics.
func (s *PerformanceStatistics) Reset() {
	s.StepTime = 0
}

// World is a self-contained physics simulation. The zero value is not
// usable; create worlds with [NewWorld].
type World struct {
	// Enabled gates stepping: a disabled world ignores Update calls.
	Enabled bool

	// Gravity is applied to dynamic bodies each step.
	Gravity math32.Vector3

	// Performance holds the timings of the last step.
	Performance PerformanceStatistics

	bodies        *pool.Pool[Body]
	colliders     *pool.Pool[Collider]
	contacts      []ContactPair
	intersections []IntersectionPair
}

// NewWorld returns a new enabled world with standard gravity.
func NewWorld() *World {
	return &World{
		Enabled:   true,
		Gravity:   math32.Vec3(0, -9.81, 0),
		bodies:    pool.New[Body](),
		colliders: pool.New[Collider](),
	}
}

// AddBody adds a body to the world and returns its handle.
func (w *World) AddBody(body Body) pool.Handle[Body] {
	if body.GravityScale == 0 && body.Type == Dynamic {
		body.GravityScale = 1
	}
	return w.bodies.Spawn(body)
}

// RemoveBody removes the body and all colliders attached to it.
func (w *World) RemoveBody(handle pool.Handle[Body]) {
	w.colliders.Retain(func(c *Collider) bool { return c.Body != handle })
	w.bodies.TryFree(handle)
}

// Body returns the body at the given handle, or nil.
func (w *World) Body(handle pool.Handle[Body]) *Body {
	b, err := w.bodies.TryBorrow(handle)
	if err != nil {
		return nil
	}
	return b
}

// AddCollider adds a collider to the world and returns its handle.
func (w *World) AddCollider(collider Collider) pool.Handle[Collider] {
	return w.colliders.Spawn(collider)
}

// RemoveCollider removes the collider from the world.
func (w *World) RemoveCollider(handle pool.Handle[Collider]) {
	w.colliders.TryFree(handle)
}

// Collider returns the collider at the given handle, or nil.
func (w *World) Collider(handle pool.Handle[Collider]) *Collider {
	c, err := w.colliders.TryBorrow(handle)
	if err != nil {
		return nil
	}
	return c
}

// Update advances the simulation by dt seconds. A disabled world
// returns immediately. Performance holds the timings of the last step.
func (w *World) Update(dt float32) {
	if !w.Enabled {
		return
	}
	start := time.Now()
	w.integrate(dt)
	w.detectOverlaps()
	w.Performance.StepTime = time.Since(start)
}

func (w *World) integrate(dt float32) {
	w.bodies.Iter(func(b *Body) bool {
		if b.Type != Dynamic || b.Sleeping {
			return true
		}
		b.LinearVelocity.SetAdd(w.Gravity.MulScalar(b.GravityScale * dt))
		b.Position.SetAdd(b.LinearVelocity.MulScalar(dt))
		if av := b.AngularVelocity; av.LengthSquared() > 0 {
			spin := math32.NewQuatAxisAngle(av.Normal(), av.Length()*dt)
			b.Rotation = spin.Mul(b.Rotation)
			b.Rotation.Normalize()
		}
		return true
	})
}

func (w *World) detectOverlaps() {
	w.contacts = w.contacts[:0]
	w.intersections = w.intersections[:0]

	type entry struct {
		handle pool.Handle[Collider]
		sensor bool
		aabb   math32.Box3
	}
	var entries []entry
	w.colliders.Pairs(func(h pool.Handle[Collider], c *Collider) bool {
		entries = append(entries, entry{handle: h, sensor: c.IsSensor, aabb: w.colliderAABB(c)})
		return true
	})

	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			a, b := &entries[i], &entries[j]
			if !a.aabb.IntersectsBox(b.aabb) {
				continue
			}
			if a.sensor || b.sensor {
				w.intersections = append(w.intersections, IntersectionPair{ColliderA: a.handle, ColliderB: b.handle})
			} else {
				w.contacts = append(w.contacts, ContactPair{ColliderA: a.handle, ColliderB: b.handle})
			}
		}
	}
}

func (w *World) colliderAABB(c *Collider) math32.Box3 {
	center := c.Offset
	if b := w.Body(c.Body); b != nil {
		center = b.Position.Add(c.Offset)
	}
	box := math32.Box3{}
	box.SetFromCenterAndSize(center, c.Shape.HalfExtents.MulScalar(2))
	return box
}

// Contacts returns the contact pairs found by the last update.
// The returned slice is valid until the next update.
func (w *World) Contacts() []ContactPair {
	return w.contacts
}

// Intersections returns the sensor intersection pairs found by the
// last update. The returned slice is valid until the next update.
func (w *World) Intersections() []IntersectionPair {
	return w.intersections
}

// ContactsWith returns the contact pairs involving the given collider.
func (w *World) ContactsWith(handle pool.Handle[Collider]) []ContactPair {
	var out []ContactPair
	for _, p := range w.contacts {
		if p.ColliderA == handle || p.ColliderB == handle {
			out = append(out, p)
		}
	}
	return out
}

// IntersectionsWith returns the intersection pairs involving the
// given collider.
func (w *World) IntersectionsWith(handle pool.Handle[Collider]) []IntersectionPair {
	var out []IntersectionPair
	for _, p := range w.intersections {
		if p.ColliderA == handle || p.ColliderB == handle {
			out = append(out, p)
		}
	}
	return out
}
