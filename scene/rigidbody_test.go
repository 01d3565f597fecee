// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene_test

import (
	"testing"

	"github.com/latticeengine/lattice/math32"
	"github.com/latticeengine/lattice/physics"
	"github.com/latticeengine/lattice/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addBodyWithCollider(g *scene.Graph, name string, pos math32.Vector3) (*scene.RigidBody, *scene.Collider) {
	body := scene.NewRigidBody(name)
	body.Local.Position = pos
	bh := g.AddNode(body)
	col := scene.NewCollider(name + "-collider")
	ch := g.AddNode(col)
	g.LinkNodes(ch, bh)
	return body, col
}

func TestDynamicBodyFallsUnderGravity(t *testing.T) {
	g := scene.NewGraph()
	body, _ := addBodyWithCollider(g, "crate", math32.Vec3(0, 10, 0))

	for i := 0; i < 10; i++ {
		g.Update(0.1)
	}

	assert.Less(t, body.GlobalPosition().Y, float32(10))
	assert.Less(t, body.LinearVelocity.Y, float32(0))
}

func TestNativeStateCreatedOnSync(t *testing.T) {
	g := scene.NewGraph()
	body, col := addBodyWithCollider(g, "crate", math32.Vector3{})

	assert.True(t, body.NativeBody().IsNone())
	g.Update(0.016)
	require.True(t, body.NativeBody().IsSome())

	// the collider waits one sync for its body, then gets created
	g.Update(0.016)
	require.True(t, col.NativeCollider().IsSome())

	native := g.Physics.Collider(col.NativeCollider())
	require.NotNil(t, native)
	assert.Equal(t, body.NativeBody(), native.Body)
}

func TestStaticBodyFollowsNode(t *testing.T) {
	g := scene.NewGraph()
	floor := scene.NewRigidBody("floor")
	floor.BodyType = physics.Static
	fh := g.AddNode(floor)
	g.Update(0.016)

	g.Node(fh).AsBase().SetLocalPosition(math32.Vec3(0, -2, 0))
	g.Update(0.016)

	native := g.Physics.Body(floor.NativeBody())
	require.NotNil(t, native)
	assert.InDelta(t, float64(-2), float64(native.Position.Y), 1.0e-5)
}

func TestOverlappingCollidersReportContact(t *testing.T) {
	g := scene.NewGraph()
	a := scene.NewRigidBody("a")
	a.BodyType = physics.Static
	g.AddNode(a)
	ca := scene.NewCollider("a-col")
	cah := g.AddNode(ca)
	g.LinkNodes(cah, a.Handle())

	b := scene.NewRigidBody("b")
	b.BodyType = physics.Static
	b.Local.Position = math32.Vec3(0.4, 0, 0)
	g.AddNode(b)
	cb := scene.NewCollider("b-col")
	cbh := g.AddNode(cb)
	g.LinkNodes(cbh, b.Handle())

	g.Update(0.016)
	g.Update(0.016)
	g.Update(0.016)

	assert.NotEmpty(t, g.Physics.ContactsWith(ca.NativeCollider()))
}

func TestRemovingBodyNodeDestroysNativeState(t *testing.T) {
	g := scene.NewGraph()
	body, col := addBodyWithCollider(g, "crate", math32.Vector3{})
	g.Update(0.016)
	g.Update(0.016)
	bodyHandle := body.NativeBody()
	colliderHandle := col.NativeCollider()
	require.True(t, bodyHandle.IsSome())
	require.True(t, colliderHandle.IsSome())

	g.RemoveNode(body.Handle())
	assert.Nil(t, g.Physics.Body(bodyHandle))
	assert.Nil(t, g.Physics.Collider(colliderHandle))
}
