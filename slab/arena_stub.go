//go:build !linux
// +build !linux

// File: slab/arena_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Portable arena allocation from the Go heap. make() returns zeroed
// memory, matching the zero-initialization contract.

package slab

// newArena allocates a region of exactly size bytes on the Go heap.
func newArena(size int, _ arenaConfig) (*arena, error) {
	raw := make([]byte, size)
	return &arena{raw: raw, data: raw[:size:size]}, nil
}

// release drops the region. The arena must not be used afterwards.
func (a *arena) release() error {
	a.raw, a.data = nil, nil
	return nil
}
