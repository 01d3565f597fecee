// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

// NodeMessageKind is a bit mask of hierarchical properties that
// became dirty on a node.
type NodeMessageKind uint8

const (
	// TransformChanged means the node's local transform changed and
	// global transforms of its subtree must be recomputed.
	TransformChanged NodeMessageKind = 1 << iota

	// VisibilityChanged means the node's local visibility flag
	// changed and global visibility of its subtree must be recomputed.
	VisibilityChanged

	// EnabledChanged means the node's local enabled flag changed and
	// the effective enabled state of its subtree must be recomputed.
	EnabledChanged
)

// NodeMessage tells the graph that a hierarchical property of a node
// became dirty. Messages are drained once per update; posting is
// cheap and duplicates are collapsed during the drain.
type NodeMessage struct {
	Node Handle
	Kind NodeMessageKind
}

// messageQueue is an unbounded FIFO of node messages. The graph and
// all its nodes run on one goroutine, so a plain slice suffices.
type messageQueue struct {
	items []NodeMessage
}

func (q *messageQueue) push(m NodeMessage) {
	q.items = append(q.items, m)
}

func (q *messageQueue) pop() (NodeMessage, bool) {
	if len(q.items) == 0 {
		return NodeMessage{}, false
	}
	m := q.items[0]
	q.items = q.items[1:]
	return m, true
}

func (q *messageQueue) empty() bool {
	return len(q.items) == 0
}
