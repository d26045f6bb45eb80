// File: slab/arena.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Cross-platform arena descriptor. Platform-specific allocation and
// release live in arena_linux.go and arena_stub.go.

package slab

// arena owns the single contiguous allocation backing a pool.
// After creation the region is never relocated or resized; release
// invalidates it exactly once.
type arena struct {
	raw    []byte // full mapping, may be rounded up to a hugepage boundary
	data   []byte // exactly capacity*bufferSize bytes, zero-initialized
	mapped bool   // true when raw is an mmap region
	locked bool   // true when raw is mlock'ed
}

// arenaConfig carries the allocation knobs set via pool options.
type arenaConfig struct {
	hugepages  bool
	lockMemory bool
}
