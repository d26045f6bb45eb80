// Package slab
// Author: momentics <momentics@gmail.com>
//
// Fixed-capacity, fixed-size zero-copy buffer pool over one contiguous arena.
// Producers and consumers exchange ownership of preallocated slots instead of
// copying data: Checkout transfers a slot to the caller, Checkin returns it.
// The free list is lock-free; checkin validates bounds, alignment and
// ownership so protocol violations surface immediately instead of corrupting
// memory. See pool.go, arena_linux.go, wait.go for implementation details.
package slab
