// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pool

import "fmt"

// The restore API rebuilds a pool from serialized form with exact
// slot indices and generations, so handles saved alongside the pool
// stay valid after loading. The expected sequence is any number of
// RestoreRecord and RestoreVacantRecord calls on an empty pool,
// then one FinishRestore.

// RestoreRecord places an object at the exact slot and generation of
// the given handle, growing the pool as needed.
func (p *Pool[T]) RestoreRecord(handle Handle[T], obj T) error {
	if handle.Generation == InvalidGeneration {
		return fmt.Errorf("%w: %v", ErrInvalidHandle, handle)
	}
	p.growTo(handle.Index)
	rec := &p.records[handle.Index]
	if rec.payload != nil {
		return fmt.Errorf("%w: index %d", ErrOccupiedSlot, handle.Index)
	}
	rec.generation = handle.Generation
	rec.payload = &obj
	return nil
}

// RestoreVacantRecord restores the generation of a vacant slot, so
// stale handles from before saving stay stale after loading.
func (p *Pool[T]) RestoreVacantRecord(index, generation uint32) error {
	p.growTo(index)
	rec := &p.records[index]
	if rec.payload != nil {
		return fmt.Errorf("%w: index %d", ErrOccupiedSlot, index)
	}
	rec.generation = generation
	return nil
}

// FinishRestore rebuilds the free stack from the vacant slots.
// Call it once after the last restore call.
func (p *Pool[T]) FinishRestore() {
	p.freeStack = p.freeStack[:0]
	for i := range p.records {
		if p.records[i].payload == nil {
			p.freeStack = append(p.freeStack, uint32(i))
		}
	}
}

// VacantPairs calls fn for every slot that holds no object, with the
// slot's index and generation. Iteration stops early if fn returns
// false.
func (p *Pool[T]) VacantPairs(fn func(index, generation uint32) bool) {
	for i := range p.records {
		if p.records[i].payload == nil {
			if !fn(uint32(i), p.records[i].generation) {
				return
			}
		}
	}
}

func (p *Pool[T]) growTo(index uint32) {
	for uint32(len(p.records)) <= index {
		p.records = append(p.records, record[T]{})
	}
}
