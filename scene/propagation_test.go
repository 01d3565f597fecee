// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene_test

import (
	"testing"

	"github.com/latticeengine/lattice/math32"
	"github.com/latticeengine/lattice/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trackingNode records propagation hook calls.
type trackingNode struct {
	scene.Base `yaml:",inline"`

	localChanged   int
	globalChanged  int
	lastHookGlobal math32.Matrix4
	storedAtHook   math32.Matrix4
}

func (n *trackingNode) OnLocalTransformChanged() {
	n.localChanged++
}

func (n *trackingNode) OnGlobalTransformChanged(g *scene.Graph, m *math32.Matrix4) {
	n.globalChanged++
	n.lastHookGlobal = *m
	n.storedAtHook = *n.GlobalTransform()
}

func newTrackingNode(name string) *trackingNode {
	return &trackingNode{Base: scene.NewBase(name)}
}

func TestGlobalTransformIsParentChainProduct(t *testing.T) {
	g := scene.NewGraph()
	parent := g.AddNode(scene.NewPivot("parent"))
	child := g.AddNode(scene.NewPivot("child"))
	g.LinkNodes(child, parent)

	g.Node(parent).AsBase().SetLocalPosition(math32.Vec3(1, 2, 3))
	cb := g.Node(child).AsBase()
	cb.SetLocalPosition(math32.Vec3(10, 0, 0))
	cb.SetLocalRotation(math32.NewQuatAxisAngle(math32.Vec3(0, 1, 0), math32.DegToRad(90)))

	g.Update(0.016)

	pb := g.Node(parent).AsBase()
	want := pb.GlobalTransform().Mul(cb.Local.Matrix())
	assert.True(t, cb.GlobalTransform().AlmostEqual(want, tol))
	assert.True(t, cb.GlobalPosition().AlmostEqual(math32.Vec3(11, 2, 3), tol))
}

func TestDeepChainPropagation(t *testing.T) {
	g := scene.NewGraph()
	var handles []scene.Handle
	prev := g.Root()
	for i := 0; i < 5; i++ {
		h := g.AddNode(scene.NewPivot("link"))
		g.LinkNodes(h, prev)
		g.Node(h).AsBase().SetLocalPosition(math32.Vec3(1, 0, 0))
		handles = append(handles, h)
		prev = h
	}
	g.Update(0.016)

	last := g.Node(handles[4]).AsBase()
	assert.True(t, last.GlobalPosition().AlmostEqual(math32.Vec3(5, 0, 0), tol))

	// moving the middle of the chain shifts only the tail
	g.Node(handles[2]).AsBase().SetLocalPosition(math32.Vec3(1, 1, 0))
	g.Update(0.016)
	assert.True(t, last.GlobalPosition().AlmostEqual(math32.Vec3(5, 1, 0), tol))
}

func TestHookSeesNewGlobalBeforeStore(t *testing.T) {
	g := scene.NewGraph()
	n := newTrackingNode("tracked")
	h := g.AddNode(n)
	g.Update(0.016)

	n.SetLocalPosition(math32.Vec3(7, 0, 0))
	g.Update(0.016)

	assert.Equal(t, math32.Vec3(7, 0, 0), n.lastHookGlobal.Pos())
	// at hook time the stored transform was still the old one
	assert.Equal(t, math32.Vector3{}, n.storedAtHook.Pos())
	assert.Equal(t, math32.Vec3(7, 0, 0), g.Node(h).AsBase().GlobalPosition())
}

func TestDrainCollapsesToTopmostRoot(t *testing.T) {
	g := scene.NewGraph()
	parent := newTrackingNode("parent")
	child := newTrackingNode("child")
	ph := g.AddNode(parent)
	ch := g.AddNode(child)
	g.LinkNodes(ch, ph)
	g.Update(0.016)

	parentGlobals := parent.globalChanged
	childGlobals := child.globalChanged

	// dirtying child then parent must recompute the child only once,
	// as part of the parent's subtree pass
	child.SetLocalPosition(math32.Vec3(0, 1, 0))
	parent.SetLocalPosition(math32.Vec3(1, 0, 0))
	g.Update(0.016)

	assert.Equal(t, parentGlobals+1, parent.globalChanged)
	assert.Equal(t, childGlobals+1, child.globalChanged)
	assert.True(t, child.GlobalPosition().AlmostEqual(math32.Vec3(1, 1, 0), tol))
}

func TestDrainIsIdempotent(t *testing.T) {
	g := scene.NewGraph()
	n := newTrackingNode("n")
	g.AddNode(n)

	n.SetLocalPosition(math32.Vec3(1, 0, 0))
	g.Update(0.016)
	localCalls := n.localChanged
	globalCalls := n.globalChanged

	// an update with an empty queue recomputes nothing
	g.Update(0.016)
	assert.Equal(t, localCalls, n.localChanged)
	assert.Equal(t, globalCalls, n.globalChanged)
}

func TestLocalTransformHookFiresDuringDrain(t *testing.T) {
	g := scene.NewGraph()
	n := newTrackingNode("n")
	g.AddNode(n)
	g.Update(0.016)
	base := n.localChanged

	n.SetLocalPosition(math32.Vec3(1, 0, 0))
	n.SetLocalPosition(math32.Vec3(2, 0, 0))
	assert.Equal(t, base, n.localChanged, "hook must not fire before the drain")

	g.Update(0.016)
	// duplicate messages for the same node collapse to one
	assert.Equal(t, base+1, n.localChanged)
}

func TestVisibilityPropagation(t *testing.T) {
	g := scene.NewGraph()
	a := g.AddNode(scene.NewPivot("a"))
	b := g.AddNode(scene.NewPivot("b"))
	c := g.AddNode(scene.NewPivot("c"))
	g.LinkNodes(b, a)
	g.LinkNodes(c, b)
	g.Update(0.016)

	require.True(t, g.Node(c).AsBase().IsGloballyVisible())

	g.Node(a).AsBase().SetVisibility(false)
	g.Update(0.016)
	assert.False(t, g.Node(b).AsBase().IsGloballyVisible())
	assert.False(t, g.Node(c).AsBase().IsGloballyVisible())
	// the local flags of descendants are untouched
	assert.True(t, g.Node(b).AsBase().Visible)

	// a locally hidden child stays hidden when the ancestor reappears
	g.Node(c).AsBase().SetVisibility(false)
	g.Node(a).AsBase().SetVisibility(true)
	g.Update(0.016)
	assert.True(t, g.Node(b).AsBase().IsGloballyVisible())
	assert.False(t, g.Node(c).AsBase().IsGloballyVisible())
}

func TestEnabledPropagation(t *testing.T) {
	g := scene.NewGraph()
	a := g.AddNode(scene.NewPivot("a"))
	b := g.AddNode(scene.NewPivot("b"))
	g.LinkNodes(b, a)
	g.Update(0.016)

	g.Node(a).AsBase().SetEnabled(false)
	g.Update(0.016)
	assert.False(t, g.Node(b).AsBase().IsGloballyEnabled())
	assert.True(t, g.Node(b).AsBase().Enabled)

	g.Node(a).AsBase().SetEnabled(true)
	g.Update(0.016)
	assert.True(t, g.Node(b).AsBase().IsGloballyEnabled())
}

func TestOrphanSubtreeUsesIdentityParent(t *testing.T) {
	g := scene.NewGraph()
	p := g.AddNode(scene.NewPivot("p"))
	c := g.AddNode(scene.NewPivot("c"))
	g.LinkNodes(c, p)
	g.Node(p).AsBase().SetLocalPosition(math32.Vec3(5, 0, 0))
	g.Update(0.016)

	g.IsolateNode(p)
	g.Node(p).AsBase().SetLocalPosition(math32.Vec3(6, 0, 0))
	g.Update(0.016)

	// isolated subtrees still update, against an identity parent
	assert.True(t, g.Node(p).AsBase().GlobalPosition().AlmostEqual(math32.Vec3(6, 0, 0), tol))
	assert.True(t, g.Node(c).AsBase().GlobalPosition().AlmostEqual(math32.Vec3(6, 0, 0), tol))
}
