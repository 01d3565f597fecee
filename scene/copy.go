// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"log/slog"
	"reflect"

	"github.com/jinzhu/copier"
)

// CopyNode deep-copies the subtree rooted at the given node and
// links the copy under the same parent. Every copied node gets a
// fresh instance id, and handle fields that pointed inside the
// copied subtree are remapped to the corresponding copies. Scripts
// and native physics state are not copied; copies start clean.
// It returns the handle of the copied root.
func (g *Graph) CopyNode(source Handle) Handle {
	parent := g.Node(source).AsBase().Parent

	oldToNew := make(map[Handle]Handle)
	newRoot := g.copySubtree(source, oldToNew)

	if g.IsValid(parent) {
		g.LinkNodes(newRoot, parent)
	}

	for _, newHandle := range oldToNew {
		node := g.Node(newHandle)
		remapHandles(reflect.ValueOf(node), oldToNew)
	}
	return newRoot
}

func (g *Graph) copySubtree(source Handle, oldToNew map[Handle]Handle) Handle {
	node := g.Node(source)
	dup := cloneNode(node)

	db := dup.AsBase()
	db.Parent = Handle{}
	db.Children = nil
	db.ID = NodeID{} // AddNode assigns a fresh one

	newHandle := g.AddNode(dup)
	oldToNew[source] = newHandle

	for _, child := range node.AsBase().Children {
		childCopy := g.copySubtree(child, oldToNew)
		g.LinkNodes(childCopy, newHandle)
	}
	return newHandle
}

// cloneNode returns a deep copy of the node's exported state. The
// unexported graph bookkeeping (global caches, self handle, native
// handles) intentionally starts at zero in the clone and is rebuilt
// by the graph.
func cloneNode(src Node) Node {
	dst := reflect.New(reflect.TypeOf(src).Elem()).Interface().(Node)
	err := copier.CopyWithOption(dst, src, copier.Option{DeepCopy: true})
	if err != nil {
		slog.Error("node copy failed", "node", src.AsBase().Name, "err", err)
	}
	return dst
}

// remapHandles rewrites exported Handle fields that point into the
// copied subtree so they point at the copies instead. Tree structure
// in [Base] is already correct and is left alone.
func remapHandles(v reflect.Value, oldToNew map[Handle]Handle) {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if !v.IsNil() {
			remapHandles(v.Elem(), oldToNew)
		}
	case reflect.Struct:
		if v.Type() == handleType {
			if !v.CanSet() {
				return
			}
			old := Handle{
				Index:      uint32(v.Field(0).Uint()),
				Generation: uint32(v.Field(1).Uint()),
			}
			if mapped, ok := oldToNew[old]; ok {
				v.Set(reflect.ValueOf(mapped))
			}
			return
		}
		if v.Type() == baseType {
			return
		}
		for i := 0; i < v.NumField(); i++ {
			if v.Field(i).CanSet() {
				remapHandles(v.Field(i), oldToNew)
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			remapHandles(v.Index(i), oldToNew)
		}
	}
}
