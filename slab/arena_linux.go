//go:build linux
// +build linux

// File: slab/arena_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux arena allocation: anonymous mmap, with a MAP_HUGETLB attempt for
// large regions (2 MiB pages) and optional mlock. Anonymous mappings are
// zero-filled by the kernel, which satisfies the zero-initialization
// contract without touching the pages.

package slab

import (
	"github.com/momentics/hioload-slab/api"
	"golang.org/x/sys/unix"
)

const hugePageSize = 2 << 20

// newArena maps a region of exactly size bytes.
func newArena(size int, cfg arenaConfig) (*arena, error) {
	const prot = unix.PROT_READ | unix.PROT_WRITE

	if cfg.hugepages && size >= hugePageSize {
		length := ((size + hugePageSize - 1) / hugePageSize) * hugePageSize
		raw, err := unix.Mmap(-1, 0, length, prot,
			unix.MAP_ANON|unix.MAP_PRIVATE|unix.MAP_HUGETLB)
		if err == nil {
			a := &arena{raw: raw, data: raw[:size:size], mapped: true}
			a.lock(cfg)
			return a, nil
		}
		// No hugepages configured on the host; fall through to 4K pages.
	}

	raw, err := unix.Mmap(-1, 0, size, prot, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, api.NewError(api.ErrCodeAllocationFailure, api.ErrAllocationFailure,
			"mmap failed").WithContext("size", size).WithContext("errno", err)
	}
	a := &arena{raw: raw, data: raw[:size:size], mapped: true}
	a.lock(cfg)
	return a, nil
}

// lock pins the mapping into RAM when requested. Failure is non-fatal:
// RLIMIT_MEMLOCK is commonly too small and the pool works unpinned.
func (a *arena) lock(cfg arenaConfig) {
	if !cfg.lockMemory {
		return
	}
	if err := unix.Mlock(a.raw); err == nil {
		a.locked = true
	}
}

// release unmaps the region. The arena must not be used afterwards.
func (a *arena) release() error {
	if a.raw == nil {
		return nil
	}
	raw := a.raw
	a.raw, a.data = nil, nil
	if a.locked {
		_ = unix.Munlock(raw)
		a.locked = false
	}
	if a.mapped {
		return unix.Munmap(raw)
	}
	return nil
}
