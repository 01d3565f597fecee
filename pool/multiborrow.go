// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pool

import (
	"errors"
	"fmt"
)

// ErrAliasedBorrow means a [MultiBorrowContext] was asked for an
// exclusive borrow of a slot that is already borrowed, or a shared
// borrow of a slot that is exclusively borrowed.
var ErrAliasedBorrow = errors.New("aliased borrow")

const (
	borrowFree      = 0
	borrowExclusive = -1
)

// MultiBorrowContext hands out several borrows from one pool at a
// time, enforcing at runtime that exclusive borrows never alias:
// a slot can be borrowed shared any number of times, or exclusively
// once, but not both. Overlap is reported as an error, not a panic.
//
// The context is valid until the pool is structurally modified
// (spawn, free, take). It is not safe for concurrent use.
type MultiBorrowContext[T any] struct {
	pool  *Pool[T]
	state map[uint32]int
}

// MultiBorrow returns a borrow context for this pool.
func (p *Pool[T]) MultiBorrow() *MultiBorrowContext[T] {
	return &MultiBorrowContext[T]{pool: p, state: make(map[uint32]int)}
}

// Get returns a shared borrow of the object at the given handle.
// It fails with [ErrAliasedBorrow] if the slot is exclusively
// borrowed, or with the pool's usual errors for dead handles.
func (c *MultiBorrowContext[T]) Get(handle Handle[T]) (*T, error) {
	obj, err := c.pool.TryBorrow(handle)
	if err != nil {
		return nil, err
	}
	if c.state[handle.Index] == borrowExclusive {
		return nil, fmt.Errorf("%w: slot %d is exclusively borrowed", ErrAliasedBorrow, handle.Index)
	}
	c.state[handle.Index]++
	return obj, nil
}

// GetMut returns an exclusive borrow of the object at the given
// handle. It fails with [ErrAliasedBorrow] if the slot is borrowed
// in any way, or with the pool's usual errors for dead handles.
func (c *MultiBorrowContext[T]) GetMut(handle Handle[T]) (*T, error) {
	obj, err := c.pool.TryBorrow(handle)
	if err != nil {
		return nil, err
	}
	if c.state[handle.Index] != borrowFree {
		return nil, fmt.Errorf("%w: slot %d is already borrowed", ErrAliasedBorrow, handle.Index)
	}
	c.state[handle.Index] = borrowExclusive
	return obj, nil
}

// Release returns a borrow obtained from [MultiBorrowContext.Get] or
// [MultiBorrowContext.GetMut], making the slot available again.
func (c *MultiBorrowContext[T]) Release(handle Handle[T]) {
	switch s := c.state[handle.Index]; {
	case s == borrowExclusive:
		delete(c.state, handle.Index)
	case s > 0:
		if s == 1 {
			delete(c.state, handle.Index)
		} else {
			c.state[handle.Index] = s - 1
		}
	}
}

// BorrowTwoMut borrows two distinct objects at once.
// It panics if the handles address the same slot.
func (p *Pool[T]) BorrowTwoMut(a, b Handle[T]) (*T, *T) {
	if a.Index == b.Index {
		panic(fmt.Sprintf("pool: attempt to borrow the same slot %d twice", a.Index))
	}
	return p.Borrow(a), p.Borrow(b)
}

// BorrowThreeMut borrows three distinct objects at once.
// It panics if any two handles address the same slot.
func (p *Pool[T]) BorrowThreeMut(a, b, c Handle[T]) (*T, *T, *T) {
	if a.Index == b.Index || a.Index == c.Index || b.Index == c.Index {
		panic("pool: attempt to borrow the same slot twice")
	}
	return p.Borrow(a), p.Borrow(b), p.Borrow(c)
}

// BorrowFourMut borrows four distinct objects at once.
// It panics if any two handles address the same slot.
func (p *Pool[T]) BorrowFourMut(a, b, c, d Handle[T]) (*T, *T, *T, *T) {
	if a.Index == b.Index || a.Index == c.Index || a.Index == d.Index ||
		b.Index == c.Index || b.Index == d.Index || c.Index == d.Index {
		panic("pool: attempt to borrow the same slot twice")
	}
	return p.Borrow(a), p.Borrow(b), p.Borrow(c), p.Borrow(d)
}
