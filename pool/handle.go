// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pool

import "fmt"

// InvalidGeneration marks a handle that has never pointed at a live
// object. Generations of live objects start at 1.
const InvalidGeneration uint32 = 0

// Handle is a typed index into a [Pool]. It stores the slot index
// together with the generation the slot had when the object was
// spawned, so a handle left over from a freed object can never reach
// an unrelated object that later reuses the slot.
//
// The zero value is the canonical invalid handle.
type Handle[T any] struct {
	Index      uint32 `json:"index" yaml:"index"`
	Generation uint32 `json:"generation" yaml:"generation"`
}

// NewHandle returns a handle with the given index and generation.
// Most code receives handles from [Pool.Spawn] instead.
func NewHandle[T any](index, generation uint32) Handle[T] {
	return Handle[T]{Index: index, Generation: generation}
}

// IsNone returns whether this is the invalid (zero) handle.
func (h Handle[T]) IsNone() bool {
	return h.Generation == InvalidGeneration
}

// IsSome returns whether this handle has a live generation. It does
// not check whether the object still exists; use [Pool.IsValid].
func (h Handle[T]) IsSome() bool {
	return h.Generation != InvalidGeneration
}

// String returns the handle in [index:generation] form.
func (h Handle[T]) String() string {
	return fmt.Sprintf("[%d:%d]", h.Index, h.Generation)
}
