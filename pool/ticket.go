// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pool

import "fmt"

// Ticket is proof of ownership of a slot whose payload has been
// temporarily moved out of the pool with [Pool.TakeReserve]. While a
// ticket is outstanding the slot stays reserved: it is skipped by
// iteration, reports as not alive, and cannot be reused by Spawn.
// The payload must eventually be returned with [Pool.PutBack] or the
// slot released with [Pool.Forget].
type Ticket[T any] struct {
	index uint32
}

// Index returns the slot index this ticket reserves.
func (t Ticket[T]) Index() uint32 {
	return t.index
}

// TakeReserve moves the object out of the pool, leaving its slot
// reserved, and returns a ticket together with the object. Putting
// the object back with [Pool.PutBack] yields a handle bit-identical
// to the original, so outside handles stay valid across the round
// trip. TakeReserve panics if the handle is dangling or the slot is
// already taken; use [Pool.TryTakeReserve] for a fallible variant.
func (p *Pool[T]) TakeReserve(handle Handle[T]) (Ticket[T], T) {
	ticket, obj, ok := p.TryTakeReserve(handle)
	if !ok {
		panic(fmt.Sprintf("pool: attempt to take reserve object using dangling handle %v", handle))
	}
	return ticket, obj
}

// TryTakeReserve is like [Pool.TakeReserve] but returns false instead
// of panicking when the handle does not point at a live object.
func (p *Pool[T]) TryTakeReserve(handle Handle[T]) (Ticket[T], T, bool) {
	rec := p.recordOf(handle)
	if rec == nil || rec.payload == nil {
		var zero T
		return Ticket[T]{}, zero, false
	}
	obj := *rec.payload
	rec.payload = nil
	return Ticket[T]{index: handle.Index}, obj, true
}

// PutBack returns an object taken with [Pool.TakeReserve] to its
// reserved slot and returns its handle, which is identical to the
// handle the object had before it was taken.
func (p *Pool[T]) PutBack(ticket Ticket[T], obj T) Handle[T] {
	rec := &p.records[ticket.index]
	if rec.payload != nil {
		panic(fmt.Sprintf("pool: attempt to put back object into occupied slot %d", ticket.index))
	}
	rec.payload = &obj
	return NewHandle[T](ticket.index, rec.generation)
}

// Forget consumes a ticket and releases its slot back to the pool,
// invalidating every handle that pointed at the taken object. Use it
// when a taken object will not be put back.
func (p *Pool[T]) Forget(ticket Ticket[T]) {
	p.freeStack = append(p.freeStack, ticket.index)
}
