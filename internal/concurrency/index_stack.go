// File: internal/concurrency/index_stack.go
// Package concurrency provides a lock-free free list for the slab pool.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Treiber-style MPMC stack over slot indices. LIFO: the most recently
// pushed index is popped first, keeping hot slots cache-resident.

package concurrency

import "sync/atomic"

const cacheLinePad = 64

// IndexNone is the sentinel terminating the intrusive chain.
const IndexNone = ^uint32(0)

// MaxIndex is the largest slot index the stack can hold.
const MaxIndex = IndexNone - 1

// IndexStack is a lock-free LIFO stack of slot indices in [0, n).
//
// The head word packs a 32-bit generation tag with the top index; the
// tag is bumped on every successful CAS so a pop cannot be fooled by an
// intervening pop/push cycle reinstalling the same top (ABA).
//
// An index must not be pushed while it is already on the stack; the
// caller's slot-state machine enforces that.
type IndexStack struct {
	head atomic.Uint64
	_    [cacheLinePad]byte
	size atomic.Int64
	_    [cacheLinePad]byte
	next []atomic.Uint32
}

// NewIndexStack builds a stack preloaded with all indices 0..n-1,
// index 0 on top.
func NewIndexStack(n int) *IndexStack {
	s := &IndexStack{next: make([]atomic.Uint32, n)}
	for i := 0; i < n; i++ {
		if i == n-1 {
			s.next[i].Store(IndexNone)
		} else {
			s.next[i].Store(uint32(i + 1))
		}
	}
	if n == 0 {
		s.head.Store(pack(0, IndexNone))
	} else {
		s.head.Store(pack(0, 0))
	}
	s.size.Store(int64(n))
	return s
}

// Pop removes and returns the top index; ok==false when empty.
func (s *IndexStack) Pop() (idx uint32, ok bool) {
	for {
		old := s.head.Load()
		tag, top := unpack(old)
		if top == IndexNone {
			return 0, false
		}
		next := s.next[top].Load()
		if s.head.CompareAndSwap(old, pack(tag+1, next)) {
			s.size.Add(-1)
			return top, true
		}
	}
}

// Push makes idx the new top. idx must be < len(next) and not currently
// on the stack.
func (s *IndexStack) Push(idx uint32) {
	for {
		old := s.head.Load()
		tag, top := unpack(old)
		s.next[idx].Store(top)
		if s.head.CompareAndSwap(old, pack(tag+1, idx)) {
			s.size.Add(1)
			return
		}
	}
}

// Len returns the number of indices on the stack. The value is exact
// only when no concurrent Push/Pop is in flight.
func (s *IndexStack) Len() int {
	return int(s.size.Load())
}

func pack(tag uint32, idx uint32) uint64 {
	return uint64(tag)<<32 | uint64(idx)
}

func unpack(w uint64) (tag uint32, idx uint32) {
	return uint32(w >> 32), uint32(w)
}
