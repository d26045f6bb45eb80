// Package api
// Author: momentics
//
// Zero-copy buffer handle for slab-pool slots.
//
// A Buffer wraps one checked-out slot; its only legal disposition is
// Release, which returns the slot to the owning pool.

package api

// Buffer describes an owned, resliceable view of a checked-out slot.
type Buffer interface {
	// Bytes returns the current view of the slot data.
	Bytes() []byte

	// Slice produces a read/write sub-view in O(1) without copying.
	// Sub-views cannot be released; release the original handle.
	Slice(from, to int) Buffer

	// Release returns the slot to its pool. After Release the buffer
	// and every sub-view of it must not be used. A second Release
	// reports ErrDoubleFree.
	Release() error

	// Copy returns a deep copy of the view as a standalone []byte.
	Copy() []byte
}
