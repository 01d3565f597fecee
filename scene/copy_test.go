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

func TestCopyNodeDuplicatesSubtree(t *testing.T) {
	g := scene.NewGraph()
	parent := g.AddNode(scene.NewPivot("parent"))
	src := g.AddNode(scene.NewPivot("src"))
	child := g.AddNode(scene.NewPivot("child"))
	g.LinkNodes(src, parent)
	g.LinkNodes(child, src)
	g.Node(src).AsBase().SetLocalPosition(math32.Vec3(5, 0, 0))

	dup := g.CopyNode(src)
	require.True(t, g.IsValid(dup))
	assert.NotEqual(t, src, dup)

	db := g.Node(dup).AsBase()
	assert.Equal(t, "src", db.Name)
	assert.Equal(t, parent, db.Parent)
	assert.Equal(t, math32.Vec3(5, 0, 0), db.Local.Position)
	require.Len(t, db.Children, 1)
	assert.Equal(t, "child", g.Node(db.Children[0]).AsBase().Name)

	// the original subtree is untouched
	assert.Equal(t, []scene.Handle{child}, g.Node(src).AsBase().Children)
}

func TestCopyNodeAssignsFreshIDs(t *testing.T) {
	g := scene.NewGraph()
	src := g.AddNode(scene.NewPivot("src"))
	dup := g.CopyNode(src)

	srcID := g.Node(src).AsBase().ID
	dupID := g.Node(dup).AsBase().ID
	assert.NotEqual(t, srcID, dupID)
	assert.Equal(t, src, g.NodeByID(srcID))
	assert.Equal(t, dup, g.NodeByID(dupID))
}

func TestCopyNodeRemapsInternalHandles(t *testing.T) {
	g := scene.NewGraph()
	root := g.AddNode(scene.NewPivot("rig"))
	target := g.AddNode(scene.NewPivot("muzzle"))
	g.LinkNodes(target, root)
	turret := &turretNode{Base: scene.NewBase("turret"), Target: target}
	th := g.AddNode(turret)
	g.LinkNodes(th, root)

	dup := g.CopyNode(root)
	db := g.Node(dup).AsBase()
	require.Len(t, db.Children, 2)

	var dupTurret *turretNode
	var dupTarget scene.Handle
	for _, c := range db.Children {
		switch n := g.Node(c).(type) {
		case *turretNode:
			dupTurret = n
		default:
			dupTarget = c
		}
	}
	require.NotNil(t, dupTurret)

	// the copied turret aims at the copied muzzle, not the original
	assert.Equal(t, dupTarget, dupTurret.Target)
	assert.Equal(t, target, turret.Target)
}

func TestCopyNodeLeavesOutsideHandlesAlone(t *testing.T) {
	g := scene.NewGraph()
	outside := g.AddNode(scene.NewPivot("outside"))
	turret := &turretNode{Base: scene.NewBase("turret"), Target: outside}
	th := g.AddNode(turret)

	dup := g.CopyNode(th)
	assert.Equal(t, outside, g.Node(dup).(*turretNode).Target)
}
