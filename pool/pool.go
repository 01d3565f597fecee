// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pool provides a generational arena: objects live in
// contiguous slots addressed by [Handle] values that combine a slot
// index with a generation counter. Freeing a slot and spawning a new
// object into it bumps the generation, so stale handles are detected
// instead of silently aliasing the new object.
//
// The pool is not safe for concurrent use.
package pool

import (
	"errors"
	"fmt"
)

// Errors returned by the fallible pool accessors.
var (
	// ErrInvalidHandle means the handle's generation does not match
	// the slot, i.e. the object it pointed at has been freed.
	ErrInvalidHandle = errors.New("invalid handle")

	// ErrEmptySlot means the slot holds no payload: it is vacant or
	// reserved through a [Ticket].
	ErrEmptySlot = errors.New("empty slot")

	// ErrOccupiedSlot means a spawn-at-index found the slot occupied.
	ErrOccupiedSlot = errors.New("occupied slot")
)

type record[T any] struct {
	generation uint32
	payload    *T
}

// Pool is a generational arena of T values.
// The zero value is an empty pool ready for use.
type Pool[T any] struct {
	records   []record[T]
	freeStack []uint32
}

// New returns a new empty pool.
func New[T any]() *Pool[T] {
	return &Pool[T]{}
}

// NewWithCapacity returns a new empty pool with preallocated
// space for n objects.
func NewWithCapacity[T any](n int) *Pool[T] {
	return &Pool[T]{
		records:   make([]record[T], 0, n),
		freeStack: make([]uint32, 0, n),
	}
}

// Spawn moves the given object into the pool and returns its handle.
func (p *Pool[T]) Spawn(obj T) Handle[T] {
	return p.SpawnWith(func(Handle[T]) T { return obj })
}

// SpawnWith constructs the object with the given closure, which
// receives the handle the object will occupy. This is the way to
// create objects that must know their own handle.
func (p *Pool[T]) SpawnWith(build func(Handle[T]) T) Handle[T] {
	if n := len(p.freeStack); n > 0 {
		idx := p.freeStack[n-1]
		p.freeStack = p.freeStack[:n-1]
		rec := &p.records[idx]
		if rec.payload != nil {
			panic(fmt.Sprintf("pool: free stack contained occupied slot %d", idx))
		}
		rec.generation++
		handle := NewHandle[T](idx, rec.generation)
		obj := build(handle)
		rec.payload = &obj
		return handle
	}
	idx := uint32(len(p.records))
	handle := NewHandle[T](idx, 1)
	obj := build(handle)
	p.records = append(p.records, record[T]{generation: 1, payload: &obj})
	return handle
}

// SpawnAt places the object at the given slot index, growing the pool
// if needed. It returns the resulting handle, or [ErrOccupiedSlot] if
// the slot already holds or reserves an object.
func (p *Pool[T]) SpawnAt(index uint32, obj T) (Handle[T], error) {
	for uint32(len(p.records)) <= index {
		p.records = append(p.records, record[T]{})
		p.freeStack = append(p.freeStack, uint32(len(p.records)-1))
	}
	rec := &p.records[index]
	if rec.payload != nil {
		return Handle[T]{}, fmt.Errorf("%w: index %d", ErrOccupiedSlot, index)
	}
	pos := -1
	for i, free := range p.freeStack {
		if free == index {
			pos = i
			break
		}
	}
	if pos < 0 {
		// slot exists but is reserved by a ticket
		return Handle[T]{}, fmt.Errorf("%w: index %d is reserved", ErrOccupiedSlot, index)
	}
	p.freeStack = append(p.freeStack[:pos], p.freeStack[pos+1:]...)
	rec.generation++
	rec.payload = &obj
	return NewHandle[T](index, rec.generation), nil
}

// Free removes the object at the given handle from the pool and
// returns it. Free panics if the handle is invalid; use [Pool.TryFree]
// for a non-panicking variant.
func (p *Pool[T]) Free(handle Handle[T]) T {
	obj, ok := p.TryFree(handle)
	if !ok {
		panic(fmt.Sprintf("pool: attempt to free object using dangling handle %v", handle))
	}
	return obj
}

// TryFree removes the object at the given handle and returns it,
// or false if the handle does not point at a live object.
func (p *Pool[T]) TryFree(handle Handle[T]) (T, bool) {
	rec := p.recordOf(handle)
	if rec == nil || rec.payload == nil {
		var zero T
		return zero, false
	}
	obj := *rec.payload
	rec.payload = nil
	p.freeStack = append(p.freeStack, handle.Index)
	return obj, true
}

// Borrow returns the object at the given handle, panicking if the
// handle is dangling or the slot is reserved.
func (p *Pool[T]) Borrow(handle Handle[T]) *T {
	obj, err := p.TryBorrow(handle)
	if err != nil {
		panic(fmt.Sprintf("pool: attempt to borrow object using handle %v: %v", handle, err))
	}
	return obj
}

// TryBorrow returns the object at the given handle, or an error if
// the handle's generation is stale ([ErrInvalidHandle]) or the slot
// currently holds no payload ([ErrEmptySlot]).
func (p *Pool[T]) TryBorrow(handle Handle[T]) (*T, error) {
	rec := p.recordOf(handle)
	if rec == nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHandle, handle)
	}
	if rec.payload == nil {
		return nil, fmt.Errorf("%w: %v", ErrEmptySlot, handle)
	}
	return rec.payload, nil
}

// IsValid returns whether the handle points at a live object.
func (p *Pool[T]) IsValid(handle Handle[T]) bool {
	rec := p.recordOf(handle)
	return rec != nil && rec.payload != nil
}

// recordOf returns the record for the handle, or nil when the index
// is out of bounds or the generation does not match.
func (p *Pool[T]) recordOf(handle Handle[T]) *record[T] {
	if handle.Index >= uint32(len(p.records)) {
		return nil
	}
	rec := &p.records[handle.Index]
	if rec.generation != handle.Generation {
		return nil
	}
	return rec
}

// Capacity returns the total number of slots, live or vacant.
// Capacity never shrinks.
func (p *Pool[T]) Capacity() uint32 {
	return uint32(len(p.records))
}

// Alive returns the number of live objects in the pool.
// Reserved slots do not count as alive.
func (p *Pool[T]) Alive() int {
	n := 0
	for i := range p.records {
		if p.records[i].payload != nil {
			n++
		}
	}
	return n
}

// HandleFromIndex returns the handle of the live object at the given
// slot index, or the invalid handle if the slot holds no object.
func (p *Pool[T]) HandleFromIndex(index uint32) Handle[T] {
	if index >= uint32(len(p.records)) {
		return Handle[T]{}
	}
	rec := &p.records[index]
	if rec.payload == nil {
		return Handle[T]{}
	}
	return NewHandle[T](index, rec.generation)
}

// At returns the live object at the given slot index, or nil.
func (p *Pool[T]) At(index uint32) *T {
	if index >= uint32(len(p.records)) {
		return nil
	}
	return p.records[index].payload
}

// Clear removes all objects and all slots from the pool.
func (p *Pool[T]) Clear() {
	p.records = p.records[:0]
	p.freeStack = p.freeStack[:0]
}

// Iter calls fn for every live object. Iteration stops early if fn
// returns false.
func (p *Pool[T]) Iter(fn func(obj *T) bool) {
	for i := range p.records {
		if p.records[i].payload != nil {
			if !fn(p.records[i].payload) {
				return
			}
		}
	}
}

// Pairs calls fn for every live object together with its handle.
// Iteration stops early if fn returns false.
func (p *Pool[T]) Pairs(fn func(handle Handle[T], obj *T) bool) {
	for i := range p.records {
		rec := &p.records[i]
		if rec.payload != nil {
			if !fn(NewHandle[T](uint32(i), rec.generation), rec.payload) {
				return
			}
		}
	}
}

// Retain keeps only the objects for which pred returns true,
// freeing the rest.
func (p *Pool[T]) Retain(pred func(obj *T) bool) {
	for i := range p.records {
		rec := &p.records[i]
		if rec.payload != nil && !pred(rec.payload) {
			rec.payload = nil
			p.freeStack = append(p.freeStack, uint32(i))
		}
	}
}
