// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import "github.com/latticeengine/lattice/pool"

// SubGraphNode pairs a node taken out of the pool with the ticket
// that reserves its slot.
type SubGraphNode struct {
	Ticket pool.Ticket[Node]
	Node   Node
}

// SubGraph is a whole subtree lifted out of the graph with its slots
// reserved, so it can be put back later with every handle into it
// still valid. Typical use is moving a hierarchy between graphs or
// holding it aside during a destructive edit.
type SubGraph struct {
	// Root is the taken subtree root.
	Root SubGraphNode

	// Descendants are all other subtree nodes, in the order they
	// were taken.
	Descendants []SubGraphNode

	// Parent is the handle the root was linked under, remembered so
	// the subtree can be restored in place.
	Parent Handle
}

// TakeReserveSubGraph takes the subtree rooted at the given node out
// of the graph, leaving all its slots reserved.
func (g *Graph) TakeReserveSubGraph(root Handle) SubGraph {
	var descendants []SubGraphNode
	stack := append([]Handle(nil), g.Node(root).AsBase().Children...)
	for len(stack) > 0 {
		handle := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stack = append(stack, g.Node(handle).AsBase().Children...)

		ticket, node := g.pool.TakeReserve(handle)
		descendants = append(descendants, SubGraphNode{Ticket: ticket, Node: node})
	}

	parent := g.Node(root).AsBase().Parent
	g.IsolateNode(root)
	ticket, node := g.pool.TakeReserve(root)

	return SubGraph{
		Root:        SubGraphNode{Ticket: ticket, Node: node},
		Descendants: descendants,
		Parent:      parent,
	}
}

// PutSubGraphBack returns a taken subtree to the graph and links its
// root back under the remembered parent, or under the graph root if
// that parent is gone. It returns the root handle, which is
// bit-identical to the handle the root had before it was taken.
func (g *Graph) PutSubGraphBack(sub SubGraph) Handle {
	for _, d := range sub.Descendants {
		g.pool.PutBack(d.Ticket, d.Node)
	}
	root := g.pool.PutBack(sub.Root.Ticket, sub.Root.Node)

	parent := sub.Parent
	if !g.IsValid(parent) {
		parent = g.root
	}
	g.LinkNodes(root, parent)
	return root
}

// ForgetSubGraph releases the slots of a taken subtree, invalidating
// every handle into it. Native resources of the taken nodes are
// released as if they were removed.
func (g *Graph) ForgetSubGraph(sub SubGraph) {
	g.forgetSubGraphNode(sub.Root)
	for _, d := range sub.Descendants {
		g.forgetSubGraphNode(d)
	}
}

func (g *Graph) forgetSubGraphNode(sn SubGraphNode) {
	b := sn.Node.AsBase()
	delete(g.instanceIDMap, b.ID)
	sn.Node.OnRemovedFromGraph(g)
	b.sender = nil
	b.scriptSender = nil
	g.pool.Forget(sn.Ticket)
	g.broadcast(GraphEvent{Kind: NodeRemoved, Node: b.selfHandle})
}
