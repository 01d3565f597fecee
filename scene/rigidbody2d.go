// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"

	"github.com/latticeengine/lattice/math32"
	"github.com/latticeengine/lattice/physics"
	"github.com/latticeengine/lattice/physics/dim2"
	"github.com/latticeengine/lattice/pool"
)

// RigidBody2D binds a node to a body in the 2D physics world. The
// node moves in the XY plane; its Z position is preserved.
type RigidBody2D struct {
	Base `yaml:",inline"`

	BodyType       physics.BodyType `yaml:"bodyType"`
	Mass           float32          `yaml:"mass"`
	GravityScale   float32          `yaml:"gravityScale"`
	LinearVelocity math32.Vector2   `yaml:"linearVelocity"`

	body pool.Handle[dim2.Body]
}

// NewRigidBody2D returns a new dynamic 2D rigid body node.
func NewRigidBody2D(name string) *RigidBody2D {
	return &RigidBody2D{
		Base:         NewBase(name),
		BodyType:     physics.Dynamic,
		Mass:         1,
		GravityScale: 1,
	}
}

// NativeBody returns the handle of the body in the 2D physics world,
// or the invalid handle if it has not been created yet.
func (r *RigidBody2D) NativeBody() pool.Handle[dim2.Body] {
	return r.body
}

// SyncNative creates the native body on first sync and pushes the
// node's parameters to it afterwards.
func (r *RigidBody2D) SyncNative(ctx *SyncContext) {
	world := ctx.Physics2D
	body := world.Body(r.body)
	if body == nil {
		pos := r.GlobalPosition()
		r.body = world.AddBody(dim2.Body{
			Type:           r.BodyType,
			Position:       math32.Vec2(pos.X, pos.Y),
			LinearVelocity: r.LinearVelocity,
			Mass:           r.Mass,
			GravityScale:   r.GravityScale,
		})
		return
	}
	body.Type = r.BodyType
	body.Mass = r.Mass
	body.GravityScale = r.GravityScale
	if r.BodyType != physics.Dynamic {
		body.LinearVelocity = r.LinearVelocity
	}
}

// OnGlobalTransformChanged teleports non-dynamic bodies to follow
// the node.
func (r *RigidBody2D) OnGlobalTransformChanged(g *Graph, m *math32.Matrix4) {
	if r.BodyType == physics.Dynamic {
		return
	}
	if body := g.Physics2D.Body(r.body); body != nil {
		pos := m.Pos()
		body.Position = math32.Vec2(pos.X, pos.Y)
	}
}

// Update pulls the simulated placement of dynamic bodies back into
// the node's local transform.
func (r *RigidBody2D) Update(ctx *UpdateContext) {
	if r.BodyType != physics.Dynamic {
		return
	}
	body := ctx.Graph.Physics2D.Body(r.body)
	if body == nil {
		return
	}
	r.LinearVelocity = body.LinearVelocity

	parentGlobal := math32.Identity4()
	if parent := ctx.Graph.TryNode(r.Parent); parent != nil {
		parentGlobal = *parent.AsBase().GlobalTransform()
	}
	world := math32.Vec3(body.Position.X, body.Position.Y, r.GlobalPosition().Z)
	r.SetLocalPosition(world.MulMatrix4(parentGlobal.Inverse()))
}

// OnRemovedFromGraph destroys the native body and its colliders.
func (r *RigidBody2D) OnRemovedFromGraph(g *Graph) {
	g.Physics2D.RemoveBody(r.body)
	r.body = pool.Handle[dim2.Body]{}
}

// Collider2D attaches a box collision shape to its parent
// [RigidBody2D].
type Collider2D struct {
	Base `yaml:",inline"`

	HalfExtents math32.Vector2 `yaml:"halfExtents"`
	IsSensor    bool           `yaml:"isSensor"`

	collider pool.Handle[dim2.Collider]
}

// NewCollider2D returns a new half-unit 2D box collider.
func NewCollider2D(name string) *Collider2D {
	return &Collider2D{
		Base:        NewBase(name),
		HalfExtents: math32.Vec2(0.5, 0.5),
	}
}

// Validate checks that the collider is a direct child of a 2D rigid
// body.
func (c *Collider2D) Validate(g *Graph) error {
	if _, ok := g.TryNode(c.Parent).(*RigidBody2D); !ok {
		return fmt.Errorf("collider %q must be a direct child of a 2d rigid body", c.Name)
	}
	return nil
}

// SyncNative creates the native collider once its parent body exists
// and pushes shape parameters to it afterwards.
func (c *Collider2D) SyncNative(ctx *SyncContext) {
	parent, ok := ctx.Graph.TryNode(c.Parent).(*RigidBody2D)
	if !ok {
		return
	}
	world := ctx.Physics2D
	if world.Body(parent.body) == nil {
		return
	}
	col := world.Collider(c.collider)
	if col == nil {
		c.collider = world.AddCollider(dim2.Collider{
			HalfExtents: c.HalfExtents,
			Body:        parent.body,
			Offset:      math32.Vec2(c.Local.Position.X, c.Local.Position.Y),
			IsSensor:    c.IsSensor,
		})
		return
	}
	col.HalfExtents = c.HalfExtents
	col.Offset = math32.Vec2(c.Local.Position.X, c.Local.Position.Y)
	col.IsSensor = c.IsSensor
}

// OnUnlink destroys the native collider; it is recreated if the node
// is linked under another body.
func (c *Collider2D) OnUnlink(g *Graph) {
	g.Physics2D.RemoveCollider(c.collider)
	c.collider = pool.Handle[dim2.Collider]{}
}

// OnRemovedFromGraph destroys the native collider.
func (c *Collider2D) OnRemovedFromGraph(g *Graph) {
	g.Physics2D.RemoveCollider(c.collider)
	c.collider = pool.Handle[dim2.Collider]{}
}
