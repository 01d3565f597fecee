// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scene implements a scene graph: a tree of nodes stored in
// a generational arena, with message-driven propagation of global
// transform, visibility and enabled state, physics and sound
// synchronization, and whole-graph persistence.
package scene

import (
	"github.com/google/uuid"
	"github.com/latticeengine/lattice/math32"
	"github.com/latticeengine/lattice/pool"
	"gopkg.in/yaml.v3"
)

// Handle is the address of a node in a graph.
type Handle = pool.Handle[Node]

// NodeID is the stable instance identifier of a node. Unlike a
// [Handle], which is only meaningful inside one pool, the id follows
// the node through save and load.
type NodeID uuid.UUID

// NewNodeID returns a new random node id.
func NewNodeID() NodeID {
	return NodeID(uuid.New())
}

// IsZero returns whether this is the zero (unassigned) id.
func (id NodeID) IsZero() bool {
	return id == NodeID{}
}

// String returns the canonical UUID form of the id.
func (id NodeID) String() string {
	return uuid.UUID(id).String()
}

// MarshalYAML encodes the id in canonical UUID form.
func (id NodeID) MarshalYAML() (any, error) {
	return id.String(), nil
}

// UnmarshalYAML decodes the id from canonical UUID form.
func (id *NodeID) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*id = NodeID(u)
	return nil
}

// UpdateContext is passed to [Node.Update] once per frame. The node
// being updated is temporarily outside the pool, so it may freely
// mutate the graph, including removing itself.
type UpdateContext struct {
	// Dt is the frame time step in seconds.
	Dt float32

	// Handle is the handle of the node being updated.
	Handle Handle

	// Graph is the graph the node belongs to.
	Graph *Graph
}

// SyncContext gives [Node.SyncNative] access to the native backends
// the node may own state in.
type SyncContext struct {
	Physics   *PhysicsWorld
	Physics2D *Physics2DWorld
	Sound     *SoundContext
	Graph     *Graph
}

// Node is a scene graph node. Concrete node kinds embed [Base], which
// provides the full interface with default behavior; kinds override
// only the methods they care about.
type Node interface {
	// AsBase returns the common node state.
	AsBase() *Base

	// Update advances per-frame node logic.
	Update(ctx *UpdateContext)

	// OnLocalTransformChanged is called while dirty messages are
	// drained, before global transforms are recomputed.
	OnLocalTransformChanged()

	// OnGlobalTransformChanged is called with the freshly computed
	// global transform just before it is stored on the node.
	OnGlobalTransformChanged(g *Graph, m *math32.Matrix4)

	// OnUnlink is called when the node is detached from its parent.
	OnUnlink(g *Graph)

	// OnRemovedFromGraph is called after the node has been removed
	// from the graph, so it can release native resources.
	OnRemovedFromGraph(g *Graph)

	// SyncNative pushes node state into the native backends.
	SyncNative(ctx *SyncContext)

	// Validate checks the node's placement in the graph and returns
	// an error describing any misconfiguration.
	Validate(g *Graph) error

	// LocalBounds returns the node's bounding box in local space,
	// which may be empty.
	LocalBounds() math32.Box3
}
