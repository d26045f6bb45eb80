// File: slab/manager.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Manager keyed by buffer size with transparent lazy pool creation.
// All public API is size-agnostic; each size gets its own fixed arena.

package slab

import (
	"sync"

	"github.com/momentics/hioload-slab/api"
)

// Manager provides one fixed pool per buffer size.
type Manager struct {
	mu       sync.RWMutex
	pools    map[int]*Pool
	capacity int // slots per pool
	opts     []Option
}

// NewManager creates a manager whose pools each hold perPoolCapacity
// slots, constructed with the given options.
func NewManager(perPoolCapacity int, opts ...Option) *Manager {
	return &Manager{
		pools:    make(map[int]*Pool),
		capacity: perPoolCapacity,
		opts:     opts,
	}
}

// GetPool obtains or creates the pool for bufferSize.
func (m *Manager) GetPool(bufferSize int) (*Pool, error) {
	m.mu.RLock()
	p, ok := m.pools[bufferSize]
	m.mu.RUnlock()
	if ok {
		return p, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.pools[bufferSize]; ok {
		return p, nil
	}
	p, err := New(m.capacity, bufferSize, m.opts...)
	if err != nil {
		return nil, err
	}
	m.pools[bufferSize] = p
	return p, nil
}

// Stats aggregates per-pool stats keyed by buffer size.
func (m *Manager) Stats() map[int]api.SlabPoolStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[int]api.SlabPoolStats, len(m.pools))
	for size, p := range m.pools {
		out[size] = p.Stats()
	}
	return out
}

// Close closes every pool. The first error is reported; remaining
// pools are still attempted.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var first error
	for size, p := range m.pools {
		if err := p.Close(); err != nil {
			if first == nil {
				first = err
			}
			continue
		}
		delete(m.pools, size)
	}
	return first
}

const defaultPoolCapacity = 1024

var (
	defaultOnce sync.Once
	defaultMgr  *Manager
)

// DefaultManager returns a process-wide Manager so components reuse the
// same arenas instead of fragmenting allocations.
func DefaultManager() *Manager {
	defaultOnce.Do(func() {
		defaultMgr = NewManager(defaultPoolCapacity)
	})
	return defaultMgr
}
