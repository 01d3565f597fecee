// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dim2 is the 2D counterpart of the physics package: rigid
// bodies in the XY plane with scalar rotation, box colliders and
// broad-phase overlap detection.
package dim2

import (
	"time"

	"github.com/latticeengine/lattice/math32"
	"github.com/latticeengine/lattice/physics"
	"github.com/latticeengine/lattice/pool"
)

// Body is a rigid body in the 2D world. Rotation is an angle in
// radians around the Z axis.
type Body struct {
	Type            physics.BodyType
	Position        math32.Vector2
	Rotation        float32
	LinearVelocity  math32.Vector2
	AngularVelocity float32
	Mass            float32
	GravityScale    float32
	Sleeping        bool
}

// Collider attaches a box shape, given by half extents, to a body.
type Collider struct {
	HalfExtents math32.Vector2
	Body        pool.Handle[Body]
	Offset      math32.Vector2
	IsSensor    bool
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

// World is a self-contained 2D physics simulation.
// Create worlds with [NewWorld].
type World struct {
	// Enabled gates stepping: a disabled world ignores Update calls.
	Enabled bool

	// Gravity is applied to dynamic bodies each step.
	Gravity math32.Vector2

	// Performance holds the timings of the last step.
	Performance physics.PerformanceStatistics

	bodies        *pool.Pool[Body]
	colliders     *pool.Pool[Collider]
	contacts      []ContactPair
	intersections []IntersectionPair
}

// NewWorld returns a new enabled 2D world with standard gravity.
func NewWorld() *World {
	return &World{
		Enabled:   true,
		Gravity:   math32.Vec2(0, -9.81),
		bodies:    pool.New[Body](),
		colliders: pool.New[Collider](),
	}
}

// AddBody adds a body to the world and returns its handle.
func (w *World) AddBody(body Body) pool.Handle[Body] {
	if body.GravityScale == 0 && body.Type == physics.Dynamic {
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
// returns immediately.
func (w *World) Update(dt float32) {
	if !w.Enabled {
		return
	}
	start := time.Now()
	w.bodies.Iter(func(b *Body) bool {
		if b.Type != physics.Dynamic || b.Sleeping {
			return true
		}
		b.LinearVelocity.SetAdd(w.Gravity.MulScalar(b.GravityScale * dt))
		b.Position.SetAdd(b.LinearVelocity.MulScalar(dt))
		b.Rotation += b.AngularVelocity * dt
		return true
	})
	w.detectOverlaps()
	w.Performance.StepTime = time.Since(start)
}

func (w *World) detectOverlaps() {
	w.contacts = w.contacts[:0]
	w.intersections = w.intersections[:0]

	type entry struct {
		handle   pool.Handle[Collider]
		sensor   bool
		min, max math32.Vector2
	}
	var entries []entry
	w.colliders.Pairs(func(h pool.Handle[Collider], c *Collider) bool {
		center := c.Offset
		if b := w.Body(c.Body); b != nil {
			center = b.Position.Add(c.Offset)
		}
		entries = append(entries, entry{
			handle: h,
			sensor: c.IsSensor,
			min:    center.Sub(c.HalfExtents),
			max:    center.Add(c.HalfExtents),
		})
		return true
	})

	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			a, b := &entries[i], &entries[j]
			if a.max.X < b.min.X || a.min.X > b.max.X ||
				a.max.Y < b.min.Y || a.min.Y > b.max.Y {
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

// Contacts returns the contact pairs found by the last update.
func (w *World) Contacts() []ContactPair {
	return w.contacts
}

// Intersections returns the sensor intersection pairs found by the
// last update.
func (w *World) Intersections() []IntersectionPair {
	return w.intersections
}
