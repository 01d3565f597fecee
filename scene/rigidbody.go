// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"

	"github.com/latticeengine/lattice/math32"
	"github.com/latticeengine/lattice/physics"
	"github.com/latticeengine/lattice/pool"
)

// RigidBody binds a node to a body in the 3D physics world. The body
// is created lazily during native sync and destroyed when the node
// leaves the graph. For dynamic bodies the simulation owns placement:
// each update the node's local transform is set from the body. For
// static and kinematic bodies the node owns placement and pushes it
// to the body whenever the global transform changes.
type RigidBody struct {
	Base `yaml:",inline"`

	BodyType        physics.BodyType `yaml:"bodyType"`
	Mass            float32          `yaml:"mass"`
	GravityScale    float32          `yaml:"gravityScale"`
	LinearVelocity  math32.Vector3   `yaml:"linearVelocity"`
	AngularVelocity math32.Vector3   `yaml:"angularVelocity"`

	body pool.Handle[physics.Body]
}

// NewRigidBody returns a new dynamic rigid body node.
func NewRigidBody(name string) *RigidBody {
	return &RigidBody{
		Base:         NewBase(name),
		BodyType:     physics.Dynamic,
		Mass:         1,
		GravityScale: 1,
	}
}

// NativeBody returns the handle of the body in the physics world, or
// the invalid handle if it has not been created yet.
func (r *RigidBody) NativeBody() pool.Handle[physics.Body] {
	return r.body
}

// SyncNative creates the native body on first sync and pushes the
// node's parameters to it afterwards.
func (r *RigidBody) SyncNative(ctx *SyncContext) {
	world := ctx.Physics
	body := world.Body(r.body)
	if body == nil {
		r.body = world.AddBody(physics.Body{
			Type:            r.BodyType,
			Position:        r.GlobalPosition(),
			Rotation:        r.GlobalRotation(),
			LinearVelocity:  r.LinearVelocity,
			AngularVelocity: r.AngularVelocity,
			Mass:            r.Mass,
			GravityScale:    r.GravityScale,
		})
		return
	}
	body.Type = r.BodyType
	body.Mass = r.Mass
	body.GravityScale = r.GravityScale
	if r.BodyType != physics.Dynamic {
		body.LinearVelocity = r.LinearVelocity
		body.AngularVelocity = r.AngularVelocity
	}
}

// OnGlobalTransformChanged teleports non-dynamic bodies to follow
// the node.
func (r *RigidBody) OnGlobalTransformChanged(g *Graph, m *math32.Matrix4) {
	if r.BodyType == physics.Dynamic {
		return
	}
	if body := g.Physics.Body(r.body); body != nil {
		pos, rot, _ := m.Decompose()
		body.Position = pos
		body.Rotation = rot
	}
}

// Update pulls the simulated placement of dynamic bodies back into
// the node's local transform.
func (r *RigidBody) Update(ctx *UpdateContext) {
	if r.BodyType != physics.Dynamic {
		return
	}
	body := ctx.Graph.Physics.Body(r.body)
	if body == nil {
		return
	}
	r.LinearVelocity = body.LinearVelocity
	r.AngularVelocity = body.AngularVelocity

	parentGlobal := math32.Identity4()
	if parent := ctx.Graph.TryNode(r.Parent); parent != nil {
		parentGlobal = *parent.AsBase().GlobalTransform()
	}
	inv := parentGlobal.Inverse()
	r.SetLocalPosition(body.Position.MulMatrix4(inv))
	r.SetLocalRotation(inv.ExtractRotation().Mul(body.Rotation))
}

// OnRemovedFromGraph destroys the native body and its colliders.
func (r *RigidBody) OnRemovedFromGraph(g *Graph) {
	g.Physics.RemoveBody(r.body)
	r.body = pool.Handle[physics.Body]{}
}

// Collider attaches a box collision shape to its parent [RigidBody].
// The node's local position is the shape offset relative to the body.
type Collider struct {
	Base `yaml:",inline"`

	HalfExtents math32.Vector3 `yaml:"halfExtents"`
	IsSensor    bool           `yaml:"isSensor"`

	collider pool.Handle[physics.Collider]
}

// NewCollider returns a new half-unit box collider.
func NewCollider(name string) *Collider {
	return &Collider{
		Base:        NewBase(name),
		HalfExtents: math32.Vec3(0.5, 0.5, 0.5),
	}
}

// NativeCollider returns the handle of the collider in the physics
// world, or the invalid handle if it has not been created yet.
func (c *Collider) NativeCollider() pool.Handle[physics.Collider] {
	return c.collider
}

// Validate checks that the collider is a direct child of a rigid body.
func (c *Collider) Validate(g *Graph) error {
	if _, ok := g.TryNode(c.Parent).(*RigidBody); !ok {
		return fmt.Errorf("collider %q must be a direct child of a rigid body", c.Name)
	}
	return nil
}

// SyncNative creates the native collider once its parent body exists
// and pushes shape parameters to it afterwards.
func (c *Collider) SyncNative(ctx *SyncContext) {
	parent, ok := ctx.Graph.TryNode(c.Parent).(*RigidBody)
	if !ok {
		return
	}
	world := ctx.Physics
	if world.Body(parent.body) == nil {
		return
	}
	col := world.Collider(c.collider)
	if col == nil {
		c.collider = world.AddCollider(physics.Collider{
			Shape:    physics.Shape{HalfExtents: c.HalfExtents},
			Body:     parent.body,
			Offset:   c.Local.Position,
			IsSensor: c.IsSensor,
		})
		return
	}
	col.Shape.HalfExtents = c.HalfExtents
	col.Offset = c.Local.Position
	col.IsSensor = c.IsSensor
}

// OnUnlink destroys the native collider; it is recreated if the node
// is linked under another body.
func (c *Collider) OnUnlink(g *Graph) {
	g.Physics.RemoveCollider(c.collider)
	c.collider = pool.Handle[physics.Collider]{}
}

// OnRemovedFromGraph destroys the native collider.
func (c *Collider) OnRemovedFromGraph(g *Graph) {
	g.Physics.RemoveCollider(c.collider)
	c.collider = pool.Handle[physics.Collider]{}
}

// LocalBounds returns the collider shape box.
func (c *Collider) LocalBounds() math32.Box3 {
	b := math32.Box3{}
	b.SetFromCenterAndSize(math32.Vector3{}, c.HalfExtents.MulScalar(2))
	return b
}
