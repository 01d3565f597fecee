// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"github.com/latticeengine/lattice/math32"
)

// Base is the state shared by all node kinds. Concrete kinds embed
// it and get the whole [Node] interface with default behavior.
//
// Parent and Children are managed by the graph; use [Graph.LinkNodes]
// and friends to restructure the tree.
type Base struct {
	// Name is the node name. Names need not be unique.
	Name string `yaml:"name"`

	// Local is the node's transform relative to its parent.
	Local Transform `yaml:"local"`

	// Visible is the node's own visibility flag. The effective
	// visibility also requires every ancestor to be visible.
	Visible bool `yaml:"visible"`

	// Enabled is the node's own enabled flag. A node is effectively
	// enabled only if every ancestor is enabled too.
	Enabled bool `yaml:"enabled"`

	// Lifetime, when set, is the remaining time to live in seconds.
	// The graph decrements it each update and removes the node when
	// it reaches zero.
	Lifetime *float32 `yaml:"lifetime,omitempty"`

	// ID is the stable instance id of the node.
	ID NodeID `yaml:"id"`

	// Parent is the handle of the parent node.
	Parent Handle `yaml:"parent"`

	// Children are the handles of the child nodes.
	Children []Handle `yaml:"children,omitempty"`

	globalTransform math32.Matrix4
	globalVisible   bool
	globalEnabled   bool

	selfHandle   Handle
	sender       *messageQueue
	scriptSender *scriptQueue
	script       Script
}

// NewBase returns a base with the given name, an identity transform
// and visibility and enabled flags set.
func NewBase(name string) Base {
	return Base{
		Name:            name,
		Local:           IdentityTransform(),
		Visible:         true,
		Enabled:         true,
		globalTransform: math32.Identity4(),
		globalVisible:   true,
		globalEnabled:   true,
	}
}

// AsBase returns the base itself, satisfying [Node].
func (b *Base) AsBase() *Base { return b }

// Update does nothing by default.
func (b *Base) Update(ctx *UpdateContext) {}

// OnLocalTransformChanged does nothing by default.
func (b *Base) OnLocalTransformChanged() {}

// OnGlobalTransformChanged does nothing by default.
func (b *Base) OnGlobalTransformChanged(g *Graph, m *math32.Matrix4) {}

// OnUnlink does nothing by default.
func (b *Base) OnUnlink(g *Graph) {}

// OnRemovedFromGraph does nothing by default.
func (b *Base) OnRemovedFromGraph(g *Graph) {}

// SyncNative does nothing by default.
func (b *Base) SyncNative(ctx *SyncContext) {}

// Validate reports no problems by default.
func (b *Base) Validate(g *Graph) error { return nil }

// LocalBounds returns an empty box by default.
func (b *Base) LocalBounds() math32.Box3 { return math32.B3Empty() }

// Handle returns the node's own handle, or the invalid handle if the
// node is not in a graph.
func (b *Base) Handle() Handle { return b.selfHandle }

// notify posts a dirty message for this node. It is a no-op when the
// node is not attached to a graph.
func (b *Base) notify(kind NodeMessageKind) {
	if b.sender != nil {
		b.sender.push(NodeMessage{Node: b.selfHandle, Kind: kind})
	}
}

// SetName sets the node name.
func (b *Base) SetName(name string) {
	b.Name = name
}

// SetLocalPosition sets the local position and marks the subtree for
// global transform recomputation.
func (b *Base) SetLocalPosition(pos math32.Vector3) {
	if b.Local.SetPosition(pos) {
		b.notify(TransformChanged)
	}
}

// SetLocalRotation sets the local rotation and marks the subtree for
// global transform recomputation.
func (b *Base) SetLocalRotation(rot math32.Quat) {
	if b.Local.SetRotation(rot) {
		b.notify(TransformChanged)
	}
}

// SetLocalScale sets the local scale and marks the subtree for
// global transform recomputation.
func (b *Base) SetLocalScale(scale math32.Vector3) {
	if b.Local.SetScale(scale) {
		b.notify(TransformChanged)
	}
}

// MarkTransformDirty reposts a transform message after direct writes
// to the Local transform fields.
func (b *Base) MarkTransformDirty() {
	b.Local.MarkDirty()
	b.notify(TransformChanged)
}

// SetVisibility sets the node's own visibility flag.
func (b *Base) SetVisibility(visible bool) {
	if b.Visible != visible {
		b.Visible = visible
		b.notify(VisibilityChanged)
	}
}

// SetEnabled sets the node's own enabled flag.
func (b *Base) SetEnabled(enabled bool) {
	if b.Enabled != enabled {
		b.Enabled = enabled
		b.notify(EnabledChanged)
	}
}

// IsGloballyVisible returns whether this node and all its ancestors
// are visible.
func (b *Base) IsGloballyVisible() bool { return b.globalVisible }

// IsGloballyEnabled returns whether this node and all its ancestors
// are enabled.
func (b *Base) IsGloballyEnabled() bool { return b.globalEnabled }

// GlobalTransform returns the node's world transform as computed by
// the last propagation pass.
func (b *Base) GlobalTransform() *math32.Matrix4 {
	return &b.globalTransform
}

// GlobalPosition returns the node's world position.
func (b *Base) GlobalPosition() math32.Vector3 {
	return b.globalTransform.Pos()
}

// GlobalRotation returns the node's world rotation.
func (b *Base) GlobalRotation() math32.Quat {
	return b.globalTransform.ExtractRotation()
}

// GlobalScale returns the node's world scale.
func (b *Base) GlobalScale() math32.Vector3 {
	return b.globalTransform.ExtractScale()
}

// SetLifetime gives the node a remaining time to live in seconds.
func (b *Base) SetLifetime(seconds float32) {
	b.Lifetime = &seconds
}

// ClearLifetime makes the node live forever again.
func (b *Base) ClearLifetime() {
	b.Lifetime = nil
}

// Script returns the script attached to the node, or nil.
func (b *Base) Script() Script { return b.script }

// SetScript attaches a script to the node. If the node is in a graph,
// the old script (if any) is scheduled for deinitialization and the
// new one for initialization during the next update.
func (b *Base) SetScript(s Script) {
	if b.scriptSender != nil {
		if b.script != nil {
			b.scriptSender.push(scriptMessage{kind: destroyScript, handle: b.selfHandle, script: b.script})
		}
		if s != nil {
			b.scriptSender.push(scriptMessage{kind: initializeScript, handle: b.selfHandle, script: s})
		}
	}
	b.script = s
}
