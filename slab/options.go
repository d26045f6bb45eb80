// File: slab/options.go
// Package slab defines functional options for pool construction.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package slab

// Option customizes pool initialization.
type Option func(*config)

type config struct {
	zeroOnCheckin bool
	arena         arenaConfig
}

func defaultConfig() config {
	return config{
		arena: arenaConfig{hugepages: true},
	}
}

// WithZeroOnCheckin clears a slot's contents when it is returned to the
// pool. Off by default: the pool never inspects or mutates buffer data,
// and callers handling sensitive payloads opt in explicitly.
func WithZeroOnCheckin() Option {
	return func(c *config) { c.zeroOnCheckin = true }
}

// WithLockMemory pins the arena into RAM (mlock) so slots never hit
// swap. Best-effort; no-op on platforms without mlock.
func WithLockMemory() Option {
	return func(c *config) { c.arena.lockMemory = true }
}

// WithoutHugepages skips the 2 MiB hugepage mapping attempt for large
// arenas and maps regular pages directly.
func WithoutHugepages() Option {
	return func(c *config) { c.arena.hugepages = false }
}
