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

func buildSubtree(g *scene.Graph) (parent, root, child, grandchild scene.Handle) {
	parent = g.AddNode(scene.NewPivot("parent"))
	root = g.AddNode(scene.NewPivot("sub-root"))
	child = g.AddNode(scene.NewPivot("child"))
	grandchild = g.AddNode(scene.NewPivot("grandchild"))
	g.LinkNodes(root, parent)
	g.LinkNodes(child, root)
	g.LinkNodes(grandchild, child)
	return
}

func TestTakeReserveSubGraph(t *testing.T) {
	g := scene.NewGraph()
	parent, root, child, grandchild := buildSubtree(g)

	sub := g.TakeReserveSubGraph(root)
	assert.Equal(t, parent, sub.Parent)
	assert.Len(t, sub.Descendants, 2)

	// taken slots are reserved: not alive, not reusable
	assert.False(t, g.IsValid(root))
	assert.False(t, g.IsValid(child))
	assert.False(t, g.IsValid(grandchild))
	fresh := g.AddNode(scene.NewPivot("fresh"))
	assert.NotEqual(t, root.Index, fresh.Index)
	assert.NotEqual(t, child.Index, fresh.Index)
	assert.NotEqual(t, grandchild.Index, fresh.Index)

	// the detached root is no longer a child of its old parent
	assert.NotContains(t, g.Node(parent).AsBase().Children, root)
}

func TestPutSubGraphBackPreservesHandles(t *testing.T) {
	g := scene.NewGraph()
	parent, root, child, grandchild := buildSubtree(g)
	g.Node(child).AsBase().SetLocalPosition(math32.Vec3(3, 0, 0))
	g.Update(0.016)

	sub := g.TakeReserveSubGraph(root)
	restored := g.PutSubGraphBack(sub)

	// handles are bit-identical after the round trip
	assert.Equal(t, root, restored)
	require.True(t, g.IsValid(root))
	require.True(t, g.IsValid(child))
	require.True(t, g.IsValid(grandchild))

	b := g.Node(root).AsBase()
	assert.Equal(t, parent, b.Parent)
	assert.Contains(t, g.Node(parent).AsBase().Children, root)
	assert.Equal(t, []scene.Handle{child}, b.Children)
	assert.Equal(t, math32.Vec3(3, 0, 0), g.Node(child).AsBase().Local.Position)
}

func TestPutSubGraphBackFallsBackToRoot(t *testing.T) {
	g := scene.NewGraph()
	_, root, _, _ := buildSubtree(g)

	sub := g.TakeReserveSubGraph(root)
	g.RemoveNode(sub.Parent)

	restored := g.PutSubGraphBack(sub)
	assert.Equal(t, g.Root(), g.Node(restored).AsBase().Parent)
}

func TestForgetSubGraph(t *testing.T) {
	g := scene.NewGraph()
	_, root, child, grandchild := buildSubtree(g)
	childID := g.Node(child).AsBase().ID

	sub := g.TakeReserveSubGraph(root)
	g.ForgetSubGraph(sub)

	// slots are free again and generations bump on reuse
	assert.False(t, g.IsValid(root))
	assert.False(t, g.IsValid(child))
	assert.False(t, g.IsValid(grandchild))
	assert.True(t, g.NodeByID(childID).IsNone())

	fresh := g.AddNode(scene.NewPivot("fresh"))
	assert.True(t, g.IsValid(fresh))
}
