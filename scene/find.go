// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"reflect"

	"github.com/latticeengine/lattice/math32"
)

// Find returns the first node in the subtree rooted at the given
// node for which pred returns true, searching depth first. It
// returns the invalid handle if nothing matches.
func (g *Graph) Find(root Handle, pred func(node Node) bool) Handle {
	node := g.TryNode(root)
	if node == nil {
		return Handle{}
	}
	if pred(node) {
		return root
	}
	for _, child := range node.AsBase().Children {
		if found := g.Find(child, pred); found.IsSome() {
			return found
		}
	}
	return Handle{}
}

// FindByName returns the first node in the subtree rooted at the
// given node with the given name, or the invalid handle.
func (g *Graph) FindByName(root Handle, name string) Handle {
	return g.Find(root, func(node Node) bool {
		return node.AsBase().Name == name
	})
}

// FindUp returns the first node on the path from the given node to
// the root for which pred returns true, or the invalid handle.
func (g *Graph) FindUp(from Handle, pred func(node Node) bool) Handle {
	for handle := from; ; {
		node := g.TryNode(handle)
		if node == nil {
			return Handle{}
		}
		if pred(node) {
			return handle
		}
		handle = node.AsBase().Parent
	}
}

// FindNodeOfType returns the first node of concrete type T in the
// subtree rooted at the given node, or the invalid handle and nil.
func FindNodeOfType[T Node](g *Graph, root Handle) (Handle, T) {
	var match T
	found := g.Find(root, func(node Node) bool {
		n, ok := node.(T)
		if ok {
			match = n
		}
		return ok
	})
	return found, match
}

// FindScriptOfType returns the first node in the subtree whose
// attached script has concrete type T, with the script itself.
func FindScriptOfType[T Script](g *Graph, root Handle) (Handle, T) {
	var match T
	found := g.Find(root, func(node Node) bool {
		s, ok := node.AsBase().script.(T)
		if ok {
			match = s
		}
		return ok
	})
	return found, match
}

var handleType = reflect.TypeOf(Handle{})

// FindReferencesTo returns the handles of all nodes that store a
// reference to the target node somewhere in their fields. Fields of
// type [Handle] are discovered by reflection, including inside
// nested structs, slices, arrays and maps.
func (g *Graph) FindReferencesTo(target Handle) []Handle {
	var out []Handle
	g.pool.Pairs(func(h Handle, n *Node) bool {
		if h == target {
			return true
		}
		if refersTo(reflect.ValueOf(*n), target) {
			out = append(out, h)
		}
		return true
	})
	return out
}

var baseType = reflect.TypeOf(Base{})

func refersTo(v reflect.Value, target Handle) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return false
		}
		return refersTo(v.Elem(), target)
	case reflect.Struct:
		if v.Type() == handleType {
			return handleValueEquals(v, target)
		}
		if v.Type() == baseType {
			// Parent and Children are tree structure, not references
			return false
		}
		for i := 0; i < v.NumField(); i++ {
			if refersTo(v.Field(i), target) {
				return true
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if refersTo(v.Index(i), target) {
				return true
			}
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if refersTo(iter.Value(), target) {
				return true
			}
		}
	}
	return false
}

// handleValueEquals compares a reflected Handle value without
// calling Interface, so it works for unexported fields too.
func handleValueEquals(v reflect.Value, target Handle) bool {
	return uint32(v.Field(0).Uint()) == target.Index &&
		uint32(v.Field(1).Uint()) == target.Generation
}

// AABBOfDescendants returns the union of the world-space bounding
// boxes of the given node and all its descendants. Nodes with empty
// local bounds contribute nothing. The second result is false when
// no node in the subtree has bounds.
func (g *Graph) AABBOfDescendants(root Handle) (math32.Box3, bool) {
	aabb := math32.B3Empty()
	g.accumulateAABB(root, &aabb)
	if aabb.IsEmpty() {
		return aabb, false
	}
	return aabb, true
}

func (g *Graph) accumulateAABB(handle Handle, aabb *math32.Box3) {
	node := g.TryNode(handle)
	if node == nil {
		return
	}
	b := node.AsBase()
	if local := node.LocalBounds(); !local.IsEmpty() {
		world := local.MulMatrix4(&b.globalTransform)
		aabb.ExpandByBox(world)
	}
	for _, child := range b.Children {
		g.accumulateAABB(child, aabb)
	}
}
