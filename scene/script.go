// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

// Script is per-node behavior attached with [Base.SetScript].
// Initialization and destruction are driven through the graph's
// script queue so they happen at a well-defined point of the update,
// not in the middle of whatever mutation attached the script.
type Script interface {
	// OnInit is called once after the script's node entered a graph.
	OnInit(ctx *ScriptContext) error

	// OnUpdate is called every frame while the node is alive and
	// globally enabled.
	OnUpdate(ctx *ScriptContext) error

	// OnDeinit is called once when the script is detached or its
	// node removed.
	OnDeinit(ctx *ScriptContext) error
}

// ScriptContext is passed to every script callback.
type ScriptContext struct {
	// Dt is the frame time step in seconds. It is zero in OnInit
	// and OnDeinit.
	Dt float32

	// Handle is the handle of the script's node.
	Handle Handle

	// Node is the script's node. It is nil in OnDeinit when the node
	// has already been removed from the graph.
	Node Node

	// Graph is the graph the node belongs to.
	Graph *Graph
}

type scriptMessageKind uint8

const (
	initializeScript scriptMessageKind = iota
	destroyScript
)

type scriptMessage struct {
	kind   scriptMessageKind
	handle Handle
	script Script
}

type scriptQueue struct {
	items []scriptMessage
}

func (q *scriptQueue) push(m scriptMessage) {
	q.items = append(q.items, m)
}

func (q *scriptQueue) pop() (scriptMessage, bool) {
	if len(q.items) == 0 {
		return scriptMessage{}, false
	}
	m := q.items[0]
	q.items = q.items[1:]
	return m, true
}
