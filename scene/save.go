// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"io"
	"reflect"
	"sort"

	"github.com/latticeengine/lattice/physics"
	"github.com/latticeengine/lattice/physics/dim2"
	"github.com/latticeengine/lattice/pool"
	"github.com/latticeengine/lattice/sound"
	"gopkg.in/yaml.v3"
)

// nodeFactories maps node type names to constructors for loading.
var nodeFactories = map[string]func() Node{}

// RegisterNodeType makes a node kind loadable. All built-in kinds
// are pre-registered; call this for custom kinds before loading
// scenes that contain them. The name is the concrete type name as
// written in scene files.
func RegisterNodeType(name string, factory func() Node) {
	nodeFactories[name] = factory
}

func init() {
	RegisterNodeType("Pivot", func() Node { return &Pivot{} })
	RegisterNodeType("Camera", func() Node { return &Camera{} })
	RegisterNodeType("Light", func() Node { return &Light{} })
	RegisterNodeType("Mesh", func() Node { return &Mesh{} })
	RegisterNodeType("ParticleSystem", func() Node { return &ParticleSystem{} })
	RegisterNodeType("Listener", func() Node { return &Listener{} })
	RegisterNodeType("RigidBody", func() Node { return &RigidBody{} })
	RegisterNodeType("Collider", func() Node { return &Collider{} })
	RegisterNodeType("RigidBody2D", func() Node { return &RigidBody2D{} })
	RegisterNodeType("Collider2D", func() Node { return &Collider2D{} })
}

type savedNode struct {
	Type       string    `yaml:"type"`
	Index      uint32    `yaml:"index"`
	Generation uint32    `yaml:"generation"`
	State      yaml.Node `yaml:"state"`
}

type savedSlot struct {
	Index      uint32 `yaml:"index"`
	Generation uint32 `yaml:"generation"`
}

type savedSound struct {
	Paused     bool    `yaml:"paused"`
	MasterGain float32 `yaml:"masterGain"`
}

type savedGraph struct {
	Root   Handle      `yaml:"root"`
	Sound  savedSound  `yaml:"sound"`
	Nodes  []savedNode `yaml:"nodes"`
	Vacant []savedSlot `yaml:"vacant,omitempty"`
}

// Save writes the whole graph as YAML. Handles are saved with their
// exact slot and generation, and vacant slot generations are kept
// too, so all handles held outside the graph stay meaningful after
// loading. Scripts and native physics state are not saved.
func (g *Graph) Save(w io.Writer) error {
	doc := savedGraph{
		Root: g.root,
		Sound: savedSound{
			Paused:     g.Sound.IsPaused(),
			MasterGain: g.Sound.MasterGain(),
		},
	}

	var saveErr error
	g.pool.Pairs(func(h Handle, n *Node) bool {
		var state yaml.Node
		if err := state.Encode(*n); err != nil {
			saveErr = fmt.Errorf("scene: encoding node %v: %w", h, err)
			return false
		}
		doc.Nodes = append(doc.Nodes, savedNode{
			Type:       reflect.TypeOf(*n).Elem().Name(),
			Index:      h.Index,
			Generation: h.Generation,
			State:      state,
		})
		return true
	})
	if saveErr != nil {
		return saveErr
	}

	g.pool.VacantPairs(func(index, generation uint32) bool {
		if generation != pool.InvalidGeneration {
			doc.Vacant = append(doc.Vacant, savedSlot{Index: index, Generation: generation})
		}
		return true
	})
	sort.Slice(doc.Vacant, func(i, j int) bool {
		return doc.Vacant[i].Index < doc.Vacant[j].Index
	})

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	return nil
}

// LoadGraph reads a graph saved with [Graph.Save]. Handles into the
// loaded graph are bit-identical to the handles at save time. Global
// transform, visibility and enabled state are recomputed before the
// graph is returned.
func LoadGraph(r io.Reader) (*Graph, error) {
	g := newEmptyGraph()
	if err := g.LoadFrom(r); err != nil {
		return nil, err
	}
	return g, nil
}

func newEmptyGraph() *Graph {
	return &Graph{
		Physics:       physics.NewWorld(),
		Physics2D:     dim2.NewWorld(),
		Sound:         sound.NewContext(),
		pool:          pool.New[Node](),
		instanceIDMap: make(map[NodeID]Handle),
	}
}

// LoadFrom replaces the contents of an empty graph with a saved one.
// It panics if the graph already contains nodes: loading over live
// nodes would silently invalidate every outstanding handle.
func (g *Graph) LoadFrom(r io.Reader) error {
	if g.pool.Capacity() != 0 {
		panic("scene: graph pool must be empty on load")
	}

	var doc savedGraph
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("scene: %w", err)
	}

	for i := range doc.Nodes {
		sn := &doc.Nodes[i]
		factory, ok := nodeFactories[sn.Type]
		if !ok {
			return fmt.Errorf("scene: unknown node type %q", sn.Type)
		}
		node := factory()
		if err := sn.State.Decode(node); err != nil {
			return fmt.Errorf("scene: decoding node %d: %w", sn.Index, err)
		}
		handle := pool.NewHandle[Node](sn.Index, sn.Generation)
		if err := g.pool.RestoreRecord(handle, node); err != nil {
			return fmt.Errorf("scene: %w", err)
		}
	}
	for _, slot := range doc.Vacant {
		if err := g.pool.RestoreVacantRecord(slot.Index, slot.Generation); err != nil {
			return fmt.Errorf("scene: %w", err)
		}
	}
	g.pool.FinishRestore()
	g.root = doc.Root
	g.Sound.Pause(doc.Sound.Paused)
	g.Sound.SetMasterGain(doc.Sound.MasterGain)

	g.pool.Pairs(func(h Handle, n *Node) bool {
		b := (*n).AsBase()
		b.selfHandle = h
		b.sender = &g.queue
		b.scriptSender = &g.scripts
		b.globalVisible = true
		b.globalEnabled = true
		g.instanceIDMap[b.ID] = h
		return true
	})
	g.UpdateHierarchicalData()
	return nil
}
