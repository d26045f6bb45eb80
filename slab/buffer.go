// File: slab/buffer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Owned buffer handle over a checked-out slot. The handle turns "forgot
// to checkin" and "checked in twice" from silent corruption into
// deterministic errors local to the handle.

package slab

import (
	"sync/atomic"

	"github.com/momentics/hioload-slab/api"
)

// Buffer wraps one checked-out slot; its only legal disposition is
// Release, which performs the checkin.
type Buffer struct {
	data     []byte
	pool     *Pool
	view     bool
	released atomic.Bool
}

var _ api.Buffer = (*Buffer)(nil)

// CheckoutBuffer is Checkout returning an owned handle instead of a raw
// slice.
func (p *Pool) CheckoutBuffer() (*Buffer, error) {
	data, err := p.Checkout()
	if err != nil {
		return nil, err
	}
	return &Buffer{data: data, pool: p}, nil
}

// Bytes returns the current view of the slot data.
func (b *Buffer) Bytes() []byte { return b.data }

// Slice produces a zero-copy sub-view. Views share the slot and cannot
// be released; release the original handle.
func (b *Buffer) Slice(from, to int) api.Buffer {
	if from < 0 || to > len(b.data) || from > to {
		panic("slice bounds out of range")
	}
	return &Buffer{data: b.data[from:to], pool: b.pool, view: true}
}

// Release returns the slot to the pool. Safe to call at most once per
// checked-out handle; a second call reports ErrDoubleFree without
// touching pool state.
func (b *Buffer) Release() error {
	if b.view {
		return api.NewError(api.ErrCodeUsage, api.ErrForeignBuffer,
			"release of a sub-view")
	}
	if !b.released.CompareAndSwap(false, true) {
		return api.NewError(api.ErrCodeUsage, api.ErrDoubleFree,
			"buffer already released")
	}
	return b.pool.Checkin(b.data)
}

// Copy returns a deep copy of the view as a standalone []byte.
func (b *Buffer) Copy() []byte {
	dst := make([]byte, len(b.data))
	copy(dst, b.data)
	return dst
}
