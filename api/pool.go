// File: api/pool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Defines the abstract slab-pool contract: fixed-capacity, fixed-size,
// zero-copy buffer checkout/checkin over a preallocated arena.

package api

// SlabPool manages a bounded set of equally-sized memory regions carved
// from one contiguous arena. Ownership of a region is exclusive: a slot
// handed out by Checkout belongs to the caller until the same slice is
// passed back to Checkin.
//
// All methods are safe for concurrent use.
type SlabPool interface {
	// Checkout removes one free slot from the pool and returns it as a
	// full-capacity slice. Non-blocking: when no slot is free it returns
	// ErrExhausted immediately.
	Checkout() ([]byte, error)

	// Checkin returns a slice previously obtained from Checkout on this
	// pool. The slice is validated: it must point into the arena, start
	// on a slot boundary, and refer to a slot currently checked out.
	Checkin(buf []byte) error

	// Capacity reports the fixed number of slots.
	Capacity() int

	// BufferSize reports the fixed size of each slot in bytes.
	BufferSize() int

	// Stats exposes resource/accounting metrics for observability.
	Stats() SlabPoolStats

	// Close releases the arena. Fails with ErrOutstandingBuffers while
	// any slot remains checked out.
	Close() error
}

// SlabPoolStats aggregates slot accounting for a pool.
type SlabPoolStats struct {
	Capacity        int
	BufferSize      int
	Free            int
	Outstanding     int
	TotalCheckouts  uint64
	TotalCheckins   uint64
	FailedCheckouts uint64
}
