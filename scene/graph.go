// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"errors"
	"log/slog"
	"time"

	"github.com/latticeengine/lattice/math32"
	"github.com/latticeengine/lattice/physics"
	"github.com/latticeengine/lattice/physics/dim2"
	"github.com/latticeengine/lattice/pool"
	"github.com/latticeengine/lattice/sound"
)

// Native backends a graph owns.
type (
	// PhysicsWorld is the 3D physics backend.
	PhysicsWorld = physics.World

	// Physics2DWorld is the 2D physics backend.
	Physics2DWorld = dim2.World

	// SoundContext is the audio backend.
	SoundContext = sound.Context
)

// RootName is the name of the implicit root pivot of every graph.
const RootName = "__ROOT__"

// GraphEventKind tells what happened to a node.
type GraphEventKind int32

const (
	// NodeAdded means a node entered the graph.
	NodeAdded GraphEventKind = iota

	// NodeRemoved means a node left the graph.
	NodeRemoved
)

// GraphEvent is delivered to subscribers when the set of nodes in
// the graph changes.
type GraphEvent struct {
	Kind GraphEventKind
	Node Handle
}

// UpdateSwitches selects which stages [Graph.UpdateWith] runs.
type UpdateSwitches struct {
	// Paused suspends the whole update.
	Paused bool

	// Physics enables stepping the 3D physics world.
	Physics bool

	// Physics2D enables stepping the 2D physics world.
	Physics2D bool

	// DeleteDeadNodes enables removal of nodes whose lifetime expired.
	DeleteDeadNodes bool

	// NodeOverrides, when non-nil, restricts per-node updates to the
	// listed nodes. Propagation and physics still cover everything.
	NodeOverrides map[Handle]bool
}

// DefaultUpdateSwitches returns switches with every stage enabled.
func DefaultUpdateSwitches() UpdateSwitches {
	return UpdateSwitches{
		Physics:         true,
		Physics2D:       true,
		DeleteDeadNodes: true,
	}
}

// PerformanceStatistics reports where the last update spent its time.
type PerformanceStatistics struct {
	// HierarchicalPropertiesTime is the time spent draining dirty
	// messages and recomputing global transform, visibility and
	// enabled state.
	HierarchicalPropertiesTime time.Duration

	// SyncTime is the time spent pushing node state into the native
	// backends.
	SyncTime time.Duration

	// PhysicsTime is the time spent stepping the 3D physics world.
	PhysicsTime time.Duration

	// Physics2DTime is the time spent stepping the 2D physics world.
	Physics2DTime time.Duration
}

// Graph is a scene graph: a tree of nodes stored in a generational
// pool, rooted at an implicit pivot. The zero value is not usable;
// create graphs with [NewGraph].
//
// A graph and all its nodes belong to one goroutine.
type Graph struct {
	// Physics is the 3D physics world of this graph.
	Physics *PhysicsWorld

	// Physics2D is the 2D physics world of this graph.
	Physics2D *Physics2DWorld

	// Sound is the audio context of this graph. Its pause flag
	// mirrors the Paused update switch.
	Sound *SoundContext

	// Performance reports timings of the last update.
	Performance PerformanceStatistics

	pool          *pool.Pool[Node]
	root          Handle
	queue         messageQueue
	scripts       scriptQueue
	instanceIDMap map[NodeID]Handle
	subscribers   []func(GraphEvent)

	visitedScratch []NodeMessageKind
}

// NewGraph returns a graph containing only the root pivot.
func NewGraph() *Graph {
	g := &Graph{
		Physics:       physics.NewWorld(),
		Physics2D:     dim2.NewWorld(),
		Sound:         sound.NewContext(),
		pool:          pool.New[Node](),
		instanceIDMap: make(map[NodeID]Handle),
	}
	g.root = g.AddNode(NewPivot(RootName))
	return g
}

// Root returns the handle of the root pivot.
func (g *Graph) Root() Handle { return g.root }

// Pool exposes the underlying node pool for advanced access such as
// multi-borrowing.
func (g *Graph) Pool() *pool.Pool[Node] { return g.pool }

// IsValid returns whether the handle points at a live node.
func (g *Graph) IsValid(handle Handle) bool { return g.pool.IsValid(handle) }

// Node returns the node at the given handle, panicking if the handle
// is dangling.
func (g *Graph) Node(handle Handle) Node { return *g.pool.Borrow(handle) }

// TryNode returns the node at the given handle, or nil if the handle
// does not point at a live node.
func (g *Graph) TryNode(handle Handle) Node {
	n, err := g.pool.TryBorrow(handle)
	if err != nil {
		return nil
	}
	return *n
}

// NodeByID returns the node with the given instance id, or the
// invalid handle if no such node exists.
func (g *Graph) NodeByID(id NodeID) Handle {
	return g.instanceIDMap[id]
}

// Pairs calls fn for every node with its handle. Iteration stops
// early if fn returns false.
func (g *Graph) Pairs(fn func(handle Handle, node Node) bool) {
	g.pool.Pairs(func(h Handle, n *Node) bool {
		return fn(h, *n)
	})
}

// OnEvent registers a subscriber that is called synchronously for
// every node added to or removed from the graph.
func (g *Graph) OnEvent(fn func(GraphEvent)) {
	g.subscribers = append(g.subscribers, fn)
}

func (g *Graph) broadcast(ev GraphEvent) {
	for _, fn := range g.subscribers {
		fn(ev)
	}
}

// AddNode adds the node to the graph as a child of the root and
// returns its handle. Children the node already carries (from
// building a detached hierarchy) are linked under it. The first node
// ever added becomes the root itself.
func (g *Graph) AddNode(node Node) Handle {
	b := node.AsBase()
	children := b.Children
	b.Children = nil

	handle := g.pool.Spawn(node)
	b.selfHandle = handle
	b.sender = &g.queue
	b.scriptSender = &g.scripts

	if g.root.IsSome() {
		g.LinkNodes(handle, g.root)
	} else {
		g.root = handle
		b.Parent = Handle{}
	}
	for _, child := range children {
		g.LinkNodes(child, handle)
	}

	if b.ID.IsZero() {
		b.ID = NewNodeID()
	}
	g.instanceIDMap[b.ID] = handle

	b.notify(TransformChanged | VisibilityChanged | EnabledChanged)
	if b.script != nil {
		g.scripts.push(scriptMessage{kind: initializeScript, handle: handle, script: b.script})
	}
	g.broadcast(GraphEvent{Kind: NodeAdded, Node: handle})
	return handle
}

// RemoveNode removes the node and its whole subtree from the graph,
// invalidating every handle into it. Native resources are released,
// instance ids unregistered and a removal event broadcast for every
// node, parents before children.
func (g *Graph) RemoveNode(handle Handle) {
	g.IsolateNode(handle)

	stack := []Handle{handle}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node, ok := g.pool.TryFree(h)
		if !ok {
			continue
		}
		b := node.AsBase()
		stack = append(stack, b.Children...)

		delete(g.instanceIDMap, b.ID)
		if b.script != nil {
			deinitScript(b.script, &ScriptContext{Handle: h, Graph: g})
			b.script = nil
		}
		node.OnRemovedFromGraph(g)
		b.sender = nil
		b.scriptSender = nil
		b.selfHandle = Handle{}

		g.broadcast(GraphEvent{Kind: NodeRemoved, Node: h})
	}

	if handle == g.root {
		g.root = Handle{}
	}
}

// LinkNodes makes child a child of parent, detaching it from its
// current parent first.
func (g *Graph) LinkNodes(child, parent Handle) {
	if child == parent {
		panic("scene: cannot link a node to itself")
	}
	g.IsolateNode(child)

	cb := g.Node(child).AsBase()
	cb.Parent = parent
	pb := g.Node(parent).AsBase()
	pb.Children = append(pb.Children, child)

	cb.notify(TransformChanged)
}

// UnlinkNode detaches the node from its parent and re-links it to
// the root with its local position reset to zero.
func (g *Graph) UnlinkNode(handle Handle) {
	g.IsolateNode(handle)
	g.LinkNodes(handle, g.root)
	g.Node(handle).AsBase().Local.SetPosition(math32.Vector3{})
}

// IsolateNode detaches the node from its parent, leaving it and its
// subtree in the graph without a parent. The node's OnUnlink hook
// runs with the node temporarily taken out of the pool, so it may
// mutate the graph.
func (g *Graph) IsolateNode(handle Handle) {
	node := g.TryNode(handle)
	if node == nil {
		return
	}
	b := node.AsBase()

	if parent := g.TryNode(b.Parent); parent != nil {
		pb := parent.AsBase()
		for i, c := range pb.Children {
			if c == handle {
				pb.Children = append(pb.Children[:i], pb.Children[i+1:]...)
				break
			}
		}
	}
	b.Parent = Handle{}

	ticket, taken := g.pool.TakeReserve(handle)
	taken.OnUnlink(g)
	g.pool.PutBack(ticket, taken)
}

// Update advances the whole scene by dt seconds with the default
// switches.
func (g *Graph) Update(dt float32) {
	g.UpdateWith(dt, DefaultUpdateSwitches())
}

// UpdateWith advances the whole scene by dt seconds: dirty messages
// are drained and hierarchical properties recomputed, node state is
// synchronized to the native backends, the physics worlds are
// stepped, and every node (or only the override set) gets its
// per-frame update, including lifetime bookkeeping and script calls.
// While paused, only the sound context's pause flag is maintained.
func (g *Graph) UpdateWith(dt float32, switches UpdateSwitches) {
	g.Sound.Pause(switches.Paused)
	if switches.Paused {
		return
	}

	start := time.Now()
	g.processNodeMessages()
	g.Performance.HierarchicalPropertiesTime = time.Since(start)

	start = time.Now()
	syncCtx := &SyncContext{
		Physics:   g.Physics,
		Physics2D: g.Physics2D,
		Sound:     g.Sound,
		Graph:     g,
	}
	g.pool.Pairs(func(h Handle, n *Node) bool {
		(*n).SyncNative(syncCtx)
		return true
	})
	g.Performance.SyncTime = time.Since(start)

	if switches.Physics {
		g.Physics.Update(dt)
	}
	if switches.Physics2D {
		g.Physics2D.Update(dt)
	}
	g.Performance.PhysicsTime = g.Physics.Performance.StepTime
	g.Performance.Physics2DTime = g.Physics2D.Performance.StepTime

	// scripts added since the last frame initialize before their
	// first update; scripts swapped in during node updates initialize
	// right after
	g.processScriptMessages()
	g.updateNodes(dt, switches)
	g.processScriptMessages()

	// node updates may have posted new dirty messages; fold the
	// propagation cost into the same statistic
	start = time.Now()
	g.processNodeMessages()
	g.Performance.HierarchicalPropertiesTime += time.Since(start)
}

// updateNodes runs the per-node stage. Each node is taken out of the
// pool for the duration of its own update, so it may mutate the
// graph freely, including removing other nodes or itself.
func (g *Graph) updateNodes(dt float32, switches UpdateSwitches) {
	for i := uint32(0); i < g.pool.Capacity(); i++ {
		handle := g.pool.HandleFromIndex(i)
		if handle.IsNone() {
			continue
		}
		if switches.NodeOverrides != nil && !switches.NodeOverrides[handle] {
			continue
		}
		ticket, node, ok := g.pool.TryTakeReserve(handle)
		if !ok {
			continue
		}
		b := node.AsBase()

		// globally disabled nodes neither update nor age
		dead := false
		if b.globalEnabled {
			node.Update(&UpdateContext{Dt: dt, Handle: handle, Graph: g})
			if b.script != nil {
				err := b.script.OnUpdate(&ScriptContext{Dt: dt, Handle: handle, Node: node, Graph: g})
				if err != nil {
					slog.Error("script update failed", "node", b.Name, "err", err)
				}
			}
			if switches.DeleteDeadNodes && b.Lifetime != nil {
				*b.Lifetime -= dt
				dead = *b.Lifetime <= 0
			}
		}
		g.pool.PutBack(ticket, node)

		if dead {
			g.RemoveNode(handle)
		}
	}
}

func (g *Graph) processScriptMessages() {
	for {
		msg, ok := g.scripts.pop()
		if !ok {
			return
		}
		ctx := &ScriptContext{Handle: msg.handle, Node: g.TryNode(msg.handle), Graph: g}
		switch msg.kind {
		case initializeScript:
			if err := msg.script.OnInit(ctx); err != nil {
				slog.Error("script init failed", "node", msg.handle, "err", err)
			}
		case destroyScript:
			deinitScript(msg.script, ctx)
		}
	}
}

func deinitScript(s Script, ctx *ScriptContext) {
	if err := s.OnDeinit(ctx); err != nil {
		slog.Error("script deinit failed", "node", ctx.Handle, "err", err)
	}
}

// Validate checks every node's placement constraints and returns the
// joined errors, or nil if the graph is well formed.
func (g *Graph) Validate() error {
	var errs []error
	g.pool.Pairs(func(h Handle, n *Node) bool {
		if err := (*n).Validate(g); err != nil {
			errs = append(errs, err)
		}
		return true
	})
	return errors.Join(errs...)
}
