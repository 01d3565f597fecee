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

func TestNewGraphHasRoot(t *testing.T) {
	g := scene.NewGraph()
	root := g.Root()
	require.True(t, root.IsSome())
	assert.Equal(t, scene.RootName, g.Node(root).AsBase().Name)
	assert.True(t, g.Node(root).AsBase().Parent.IsNone())
}

func TestAddNodeLinksToRoot(t *testing.T) {
	g := scene.NewGraph()
	h := g.AddNode(scene.NewPivot("a"))

	b := g.Node(h).AsBase()
	assert.Equal(t, g.Root(), b.Parent)
	assert.Contains(t, g.Node(g.Root()).AsBase().Children, h)
	assert.Equal(t, h, b.Handle())
	assert.False(t, b.ID.IsZero())
	assert.Equal(t, h, g.NodeByID(b.ID))
}

func TestAddNodeRelinksPrebuiltChildren(t *testing.T) {
	g := scene.NewGraph()
	child := g.AddNode(scene.NewPivot("child"))

	parent := scene.NewPivot("parent")
	parent.Children = []scene.Handle{child}
	ph := g.AddNode(parent)

	assert.Equal(t, ph, g.Node(child).AsBase().Parent)
	assert.Equal(t, []scene.Handle{child}, g.Node(ph).AsBase().Children)
	assert.NotContains(t, g.Node(g.Root()).AsBase().Children, child)
}

func TestLinkAndIsolateConsistency(t *testing.T) {
	g := scene.NewGraph()
	p1 := g.AddNode(scene.NewPivot("p1"))
	p2 := g.AddNode(scene.NewPivot("p2"))
	c := g.AddNode(scene.NewPivot("c"))

	g.LinkNodes(c, p1)
	assert.Equal(t, p1, g.Node(c).AsBase().Parent)
	assert.Contains(t, g.Node(p1).AsBase().Children, c)

	// relinking moves the child between children lists
	g.LinkNodes(c, p2)
	assert.Equal(t, p2, g.Node(c).AsBase().Parent)
	assert.NotContains(t, g.Node(p1).AsBase().Children, c)
	assert.Contains(t, g.Node(p2).AsBase().Children, c)

	g.IsolateNode(c)
	assert.True(t, g.Node(c).AsBase().Parent.IsNone())
	assert.NotContains(t, g.Node(p2).AsBase().Children, c)
	assert.True(t, g.IsValid(c))
}

func TestLinkNodesRejectsSelfLink(t *testing.T) {
	g := scene.NewGraph()
	h := g.AddNode(scene.NewPivot("a"))

	assert.Panics(t, func() { g.LinkNodes(h, h) })
}

func TestUnlinkNodeResetsPosition(t *testing.T) {
	g := scene.NewGraph()
	p := g.AddNode(scene.NewPivot("p"))
	c := g.AddNode(scene.NewPivot("c"))
	g.LinkNodes(c, p)
	g.Node(c).AsBase().SetLocalPosition(math32.Vec3(5, 5, 5))

	g.UnlinkNode(c)
	b := g.Node(c).AsBase()
	assert.Equal(t, g.Root(), b.Parent)
	assert.Equal(t, math32.Vector3{}, b.Local.Position)
}

func TestRemoveNodeInvalidatesSubtree(t *testing.T) {
	g := scene.NewGraph()
	a := g.AddNode(scene.NewPivot("a"))
	b := g.AddNode(scene.NewPivot("b"))
	c := g.AddNode(scene.NewPivot("c"))
	g.LinkNodes(b, a)
	g.LinkNodes(c, b)

	idB := g.Node(b).AsBase().ID

	g.RemoveNode(a)
	assert.False(t, g.IsValid(a))
	assert.False(t, g.IsValid(b))
	assert.False(t, g.IsValid(c))
	assert.NotContains(t, g.Node(g.Root()).AsBase().Children, a)

	// instance id map must not leak removed nodes
	assert.True(t, g.NodeByID(idB).IsNone())
}

func TestRemoveNodeReusesSlotWithNewGeneration(t *testing.T) {
	g := scene.NewGraph()
	a := g.AddNode(scene.NewPivot("a"))
	g.RemoveNode(a)

	b := g.AddNode(scene.NewPivot("b"))
	assert.Equal(t, a.Index, b.Index)
	assert.Greater(t, b.Generation, a.Generation)
	assert.False(t, g.IsValid(a))
	assert.True(t, g.IsValid(b))
}

func TestGraphEvents(t *testing.T) {
	g := scene.NewGraph()
	var added, removed []scene.Handle
	g.OnEvent(func(ev scene.GraphEvent) {
		switch ev.Kind {
		case scene.NodeAdded:
			added = append(added, ev.Node)
		case scene.NodeRemoved:
			removed = append(removed, ev.Node)
		}
	})

	a := g.AddNode(scene.NewPivot("a"))
	b := g.AddNode(scene.NewPivot("b"))
	g.LinkNodes(b, a)
	g.RemoveNode(a)

	assert.Equal(t, []scene.Handle{a, b}, added)
	// parents are freed before children
	assert.Equal(t, []scene.Handle{a, b}, removed)
}

func TestLifetimeExpiryRemovesNode(t *testing.T) {
	g := scene.NewGraph()
	h := g.AddNode(scene.NewPivot("mortal"))
	g.Node(h).AsBase().SetLifetime(0.5)

	g.Update(0.4)
	assert.True(t, g.IsValid(h))

	g.Update(0.2)
	assert.False(t, g.IsValid(h))
}

func TestDeleteDeadNodesSwitch(t *testing.T) {
	g := scene.NewGraph()
	h := g.AddNode(scene.NewPivot("mortal"))
	g.Node(h).AsBase().SetLifetime(0.1)

	sw := scene.DefaultUpdateSwitches()
	sw.DeleteDeadNodes = false
	g.UpdateWith(1, sw)
	assert.True(t, g.IsValid(h))
	assert.Equal(t, float32(0.1), *g.Node(h).AsBase().Lifetime)

	g.Update(1)
	assert.False(t, g.IsValid(h))
}

func TestDisabledNodeSkipsUpdate(t *testing.T) {
	g := scene.NewGraph()
	holder := g.AddNode(scene.NewPivot("holder"))
	h := g.AddNode(scene.NewParticleSystem("ps"))
	g.LinkNodes(h, holder)

	// disabling an ancestor suspends the whole subtree
	g.Node(holder).AsBase().SetEnabled(false)
	g.Update(1)
	assert.Equal(t, 0, g.Node(h).(*scene.ParticleSystem).Alive())

	g.Node(holder).AsBase().SetEnabled(true)
	g.Update(1)
	assert.Equal(t, 10, g.Node(h).(*scene.ParticleSystem).Alive())
}

func TestDisabledNodeKeepsLifetime(t *testing.T) {
	g := scene.NewGraph()
	h := g.AddNode(scene.NewPivot("mortal"))
	g.Node(h).AsBase().SetLifetime(0.5)
	g.Node(h).AsBase().SetEnabled(false)

	g.Update(1)
	require.True(t, g.IsValid(h))
	assert.Equal(t, float32(0.5), *g.Node(h).AsBase().Lifetime)
}

func TestPausedSwitchSuspendsUpdate(t *testing.T) {
	g := scene.NewGraph()
	h := g.AddNode(scene.NewParticleSystem("ps"))

	sw := scene.DefaultUpdateSwitches()
	sw.Paused = true
	g.UpdateWith(1, sw)
	assert.True(t, g.Sound.IsPaused())
	assert.Equal(t, 0, g.Node(h).(*scene.ParticleSystem).Alive())

	g.Update(1)
	assert.False(t, g.Sound.IsPaused())
	assert.Equal(t, 10, g.Node(h).(*scene.ParticleSystem).Alive())
}

func TestUpdateReportsPhysicsTimings(t *testing.T) {
	g := scene.NewGraph()
	g.AddNode(scene.NewRigidBody("body"))
	g.Update(0.016)

	assert.Equal(t, g.Physics.Performance.StepTime, g.Performance.PhysicsTime)
	assert.Equal(t, g.Physics2D.Performance.StepTime, g.Performance.Physics2DTime)
}

func TestNodeOverridesRestrictUpdates(t *testing.T) {
	g := scene.NewGraph()
	a := g.AddNode(scene.NewParticleSystem("a"))
	b := g.AddNode(scene.NewParticleSystem("b"))

	sw := scene.DefaultUpdateSwitches()
	sw.NodeOverrides = map[scene.Handle]bool{a: true}
	g.UpdateWith(1, sw)

	assert.Equal(t, 10, g.Node(a).(*scene.ParticleSystem).Alive())
	assert.Equal(t, 0, g.Node(b).(*scene.ParticleSystem).Alive())
}

func TestFindByName(t *testing.T) {
	g := scene.NewGraph()
	a := g.AddNode(scene.NewPivot("a"))
	b := g.AddNode(scene.NewPivot("deep"))
	g.LinkNodes(b, a)

	assert.Equal(t, b, g.FindByName(g.Root(), "deep"))
	assert.True(t, g.FindByName(g.Root(), "missing").IsNone())

	up := g.FindUp(b, func(n scene.Node) bool { return n.AsBase().Name == "a" })
	assert.Equal(t, a, up)
}

type turretNode struct {
	scene.Base `yaml:",inline"`

	Target scene.Handle `yaml:"target"`
}

func TestFindReferencesTo(t *testing.T) {
	g := scene.NewGraph()
	target := g.AddNode(scene.NewPivot("target"))
	plain := g.AddNode(scene.NewPivot("plain"))

	turret := &turretNode{Base: scene.NewBase("turret"), Target: target}
	th := g.AddNode(turret)

	refs := g.FindReferencesTo(target)
	assert.Equal(t, []scene.Handle{th}, refs)

	// structural parent/children links do not count as references
	assert.Empty(t, g.FindReferencesTo(plain))
}

func TestValidateReportsMisplacedCollider(t *testing.T) {
	g := scene.NewGraph()
	g.AddNode(scene.NewCollider("floating"))
	assert.Error(t, g.Validate())

	g2 := scene.NewGraph()
	body := g2.AddNode(scene.NewRigidBody("body"))
	col := g2.AddNode(scene.NewCollider("box"))
	g2.LinkNodes(col, body)
	assert.NoError(t, g2.Validate())
}

func TestAABBOfDescendants(t *testing.T) {
	g := scene.NewGraph()
	m := scene.NewMesh("m")
	h := g.AddNode(m)
	g.Node(h).AsBase().SetLocalPosition(math32.Vec3(10, 0, 0))
	g.Update(0.016)

	aabb, ok := g.AABBOfDescendants(g.Root())
	require.True(t, ok)
	assert.True(t, aabb.Center().AlmostEqual(math32.Vec3(10, 0, 0), tol))

	empty := scene.NewGraph()
	_, ok = empty.AABBOfDescendants(empty.Root())
	assert.False(t, ok)
}

func TestFindNodeOfType(t *testing.T) {
	g := scene.NewGraph()
	g.AddNode(scene.NewPivot("a"))
	cam := scene.NewCamera("cam")
	ch := g.AddNode(cam)

	found, node := scene.FindNodeOfType[*scene.Camera](g, g.Root())
	assert.Equal(t, ch, found)
	assert.Same(t, cam, node)

	missing, _ := scene.FindNodeOfType[*scene.Light](g, g.Root())
	assert.True(t, missing.IsNone())
}

func TestFindScriptOfType(t *testing.T) {
	g := scene.NewGraph()
	n := scene.NewPivot("scripted")
	sc := &countingScript{}
	n.SetScript(sc)
	h := g.AddNode(n)

	found, script := scene.FindScriptOfType[*countingScript](g, g.Root())
	assert.Equal(t, h, found)
	assert.Same(t, sc, script)
}

func TestUpdateHierarchicalData(t *testing.T) {
	g := scene.NewGraph()
	parent := g.AddNode(scene.NewPivot("parent"))
	child := g.AddNode(scene.NewPivot("child"))
	g.LinkNodes(child, parent)

	// bypass the message path entirely, then force the bulk recompute
	g.Node(parent).AsBase().Local.Position = math32.Vec3(0, 3, 0)
	g.Node(parent).AsBase().Local.MarkDirty()
	g.UpdateHierarchicalData()

	assert.Equal(t, math32.Vec3(0, 3, 0), g.Node(child).AsBase().GlobalPosition())
}
