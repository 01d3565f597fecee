// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import "github.com/latticeengine/lattice/math32"

// processNodeMessages drains the dirty message queue and recomputes
// the hierarchical properties the messages name. Since updating a
// node updates its whole subtree, messages are collapsed to the
// topmost dirty node per property: every node in a processed subtree
// is marked visited for that property, later messages for those
// nodes are dropped, and previously collected roots that turn out to
// be descendants are pruned. The surviving roots then each get one
// recursive recomputation pass per dirty property.
//
// Draining an empty queue is a no-op, so the drain is idempotent.
func (g *Graph) processNodeMessages() {
	if g.queue.empty() {
		return
	}

	capacity := g.pool.Capacity()
	if uint32(len(g.visitedScratch)) < capacity {
		g.visitedScratch = make([]NodeMessageKind, capacity)
	}
	visited := g.visitedScratch
	for i := range visited {
		visited[i] = 0
	}

	roots := make(map[Handle]NodeMessageKind)
	var stack []Handle

	for {
		msg, ok := g.queue.pop()
		if !ok {
			break
		}
		remaining := msg.Kind &^ visited[msg.Node.Index]
		if remaining == 0 {
			continue
		}
		node := g.TryNode(msg.Node)
		if node == nil {
			continue
		}
		if remaining&TransformChanged != 0 {
			node.OnLocalTransformChanged()
		}
		roots[msg.Node] |= remaining

		// mark the whole subtree visited and prune descendants that
		// were collected as roots earlier
		visited[msg.Node.Index] |= remaining
		stack = append(stack[:0], node.AsBase().Children...)
		for len(stack) > 0 {
			h := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			child := g.TryNode(h)
			if child == nil {
				continue
			}
			visited[h.Index] |= remaining
			if mask, ok := roots[h]; ok {
				mask &^= remaining
				if mask == 0 {
					delete(roots, h)
				} else {
					roots[h] = mask
				}
			}
			stack = append(stack, child.AsBase().Children...)
		}
	}

	for handle, mask := range roots {
		if mask&TransformChanged != 0 {
			g.updateGlobalTransformRecursively(handle)
		}
		if mask&VisibilityChanged != 0 {
			g.updateVisibilityRecursively(handle)
		}
		if mask&EnabledChanged != 0 {
			g.updateEnabledRecursively(handle)
		}
	}
}

// UpdateHierarchicalData recomputes global transform, visibility and
// enabled state for the whole graph in one pass, regardless of what
// is actually dirty. This is the bulk path for operations that touch
// everything at once, such as loading; it is O(graph size), so the
// per-tick path is the message drain, not this.
func (g *Graph) UpdateHierarchicalData() {
	g.updateGlobalTransformRecursively(g.root)
	g.updateVisibilityRecursively(g.root)
	g.updateEnabledRecursively(g.root)
}

// updateGlobalTransformRecursively recomputes global transforms for
// the subtree rooted at the given node. A missing parent contributes
// the identity, so orphaned subtrees never fail here.
func (g *Graph) updateGlobalTransformRecursively(handle Handle) {
	node := g.TryNode(handle)
	if node == nil {
		return
	}
	b := node.AsBase()

	parentGlobal := math32.Identity4()
	if parent := g.TryNode(b.Parent); parent != nil {
		parentGlobal = parent.AsBase().globalTransform
	}
	newGlobal := parentGlobal.Mul(b.Local.Matrix())

	// the hook sees the new transform before it is stored
	node.OnGlobalTransformChanged(g, newGlobal)
	b.globalTransform = *newGlobal

	for _, child := range b.Children {
		g.updateGlobalTransformRecursively(child)
	}
}

// updateVisibilityRecursively recomputes effective visibility for
// the subtree rooted at the given node. A missing parent counts as
// visible.
func (g *Graph) updateVisibilityRecursively(handle Handle) {
	node := g.TryNode(handle)
	if node == nil {
		return
	}
	b := node.AsBase()

	parentVisible := true
	if parent := g.TryNode(b.Parent); parent != nil {
		parentVisible = parent.AsBase().globalVisible
	}
	b.globalVisible = parentVisible && b.Visible

	for _, child := range b.Children {
		g.updateVisibilityRecursively(child)
	}
}

// updateEnabledRecursively recomputes the effective enabled state for
// the subtree rooted at the given node. A missing parent counts as
// enabled.
func (g *Graph) updateEnabledRecursively(handle Handle) {
	node := g.TryNode(handle)
	if node == nil {
		return
	}
	b := node.AsBase()

	parentEnabled := true
	if parent := g.TryNode(b.Parent); parent != nil {
		parentEnabled = parent.AsBase().globalEnabled
	}
	b.globalEnabled = parentEnabled && b.Enabled

	for _, child := range b.Children {
		g.updateEnabledRecursively(child)
	}
}
