// File: slab/pool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pool handle: arena + lock-free free list + per-slot ownership words.
//
// Slot index i occupies arena bytes [i*bufferSize, (i+1)*bufferSize).
// A slot is in exactly one of two states at any instant: free (on the
// index stack, state word == slotFree) or checked out (state word ==
// slotOwned, held by exactly one caller). Checkin validates the returned
// slice against the arena before flipping the state word, so double
// frees and foreign pointers are reported instead of corrupting the pool.

package slab

import (
	"math"
	"math/bits"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/eapache/queue"
	"github.com/momentics/hioload-slab/api"
	"github.com/momentics/hioload-slab/internal/concurrency"
)

const (
	slotFree uint32 = iota
	slotOwned
)

// Pool is a fixed-capacity pool of equally-sized buffers carved from one
// contiguous arena. The zero value is not usable; construct via New.
type Pool struct {
	capacity int
	bufSize  int

	ar    *arena
	free  *concurrency.IndexStack
	state []atomic.Uint32

	outstanding     atomic.Int64
	totalCheckouts  atomic.Uint64
	totalCheckins   atomic.Uint64
	failedCheckouts atomic.Uint64

	closed   atomic.Bool
	closeMu  sync.Mutex
	closedCh chan struct{}

	waitMu      sync.Mutex
	waiters     *queue.Queue // of *waiter, oldest first
	waiterCount atomic.Int64

	zeroOnCheckin bool
}

var (
	_ api.SlabPool         = (*Pool)(nil)
	_ api.GracefulShutdown = (*Pool)(nil)
)

// New creates a pool of capacity slots of bufferSize bytes each. The
// arena of capacity*bufferSize bytes is allocated here, zero-initialized,
// and never resized or relocated afterwards. Either the pool is fully
// constructed or nothing stays allocated.
func New(capacity, bufferSize int, opts ...Option) (*Pool, error) {
	if capacity <= 0 || bufferSize <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, api.ErrInvalidArgument,
			"capacity and buffer size must be positive").
			WithContext("capacity", capacity).
			WithContext("bufferSize", bufferSize)
	}
	if uint64(capacity) > uint64(concurrency.MaxIndex) {
		return nil, api.NewError(api.ErrCodeInvalidArgument, api.ErrInvalidArgument,
			"capacity exceeds slot index range").WithContext("capacity", capacity)
	}
	hi, lo := bits.Mul64(uint64(capacity), uint64(bufferSize))
	if hi != 0 || lo > uint64(math.MaxInt) {
		return nil, api.NewError(api.ErrCodeInvalidArgument, api.ErrInvalidArgument,
			"arena size overflows").
			WithContext("capacity", capacity).
			WithContext("bufferSize", bufferSize)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	ar, err := newArena(int(lo), cfg.arena)
	if err != nil {
		return nil, err
	}

	return &Pool{
		capacity:      capacity,
		bufSize:       bufferSize,
		ar:            ar,
		free:          concurrency.NewIndexStack(capacity),
		state:         make([]atomic.Uint32, capacity),
		closedCh:      make(chan struct{}),
		waiters:       queue.New(),
		zeroOnCheckin: cfg.zeroOnCheckin,
	}, nil
}

// Checkout removes one slot from the free list and returns it as a
// slice of exactly BufferSize bytes. The slice is capped at the slot
// boundary, so append beyond BufferSize reallocates instead of clobbering
// the neighbor slot. Returns ErrExhausted when no slot is free and
// ErrPoolClosed after Close.
func (p *Pool) Checkout() ([]byte, error) {
	if p.closed.Load() {
		return nil, api.ErrPoolClosed
	}
	idx, ok := p.free.Pop()
	if !ok {
		p.failedCheckouts.Add(1)
		return nil, api.ErrExhausted
	}
	p.state[idx].Store(slotOwned)
	p.outstanding.Add(1)
	if p.closed.Load() {
		// Lost the race with Close: put the slot back untouched.
		p.state[idx].Store(slotFree)
		p.outstanding.Add(-1)
		p.free.Push(idx)
		return nil, api.ErrPoolClosed
	}
	p.totalCheckouts.Add(1)
	return p.slot(idx), nil
}

// Checkin returns a slice previously obtained from Checkout on this
// pool. The slice must point at a slot boundary inside the arena and
// the slot must currently be checked out; anything else is a usage
// error reported without mutating pool state.
func (p *Pool) Checkin(buf []byte) error {
	idx, err := p.slotIndex(buf)
	if err != nil {
		return err
	}
	if !p.state[idx].CompareAndSwap(slotOwned, slotFree) {
		return api.NewError(api.ErrCodeUsage, api.ErrDoubleFree,
			"checkin of a free slot").WithContext("slot", int(idx))
	}
	if p.zeroOnCheckin {
		clear(p.slot(idx))
	}
	p.totalCheckins.Add(1)
	p.outstanding.Add(-1)
	p.free.Push(idx)
	if p.waiterCount.Load() > 0 {
		p.wakeOne()
	}
	return nil
}

// Capacity reports the fixed number of slots.
func (p *Pool) Capacity() int { return p.capacity }

// BufferSize reports the fixed slot size in bytes.
func (p *Pool) BufferSize() int { return p.bufSize }

// Available reports how many slots are currently free.
func (p *Pool) Available() int {
	return p.capacity - int(p.outstanding.Load())
}

// Stats exposes slot accounting for observability.
func (p *Pool) Stats() api.SlabPoolStats {
	out := p.outstanding.Load()
	return api.SlabPoolStats{
		Capacity:        p.capacity,
		BufferSize:      p.bufSize,
		Free:            p.capacity - int(out),
		Outstanding:     int(out),
		TotalCheckouts:  p.totalCheckouts.Load(),
		TotalCheckins:   p.totalCheckins.Load(),
		FailedCheckouts: p.failedCheckouts.Load(),
	}
}

// Close releases the arena. Fails with ErrOutstandingBuffers while any
// slot remains checked out; the pool stays fully usable after a failed
// Close. Idempotent once it succeeds.
//
// A Checkout racing a failing Close may transiently observe the pool as
// closed; memory safety is never at risk.
func (p *Pool) Close() error {
	p.closeMu.Lock()
	defer p.closeMu.Unlock()
	if p.closed.Load() {
		return nil
	}
	// Publish the flag first so in-flight checkouts roll back, then
	// confirm nothing is outstanding.
	p.closed.Store(true)
	if n := p.outstanding.Load(); n != 0 {
		p.closed.Store(false)
		return api.NewError(api.ErrCodeUsage, api.ErrOutstandingBuffers,
			"close with checked-out buffers").WithContext("outstanding", n)
	}
	close(p.closedCh)
	return p.ar.release()
}

// Shutdown implements api.GracefulShutdown.
func (p *Pool) Shutdown() error { return p.Close() }

// slot returns the full-capacity view of slot idx.
func (p *Pool) slot(idx uint32) []byte {
	off := int(idx) * p.bufSize
	return p.ar.data[off : off+p.bufSize : off+p.bufSize]
}

// slotIndex maps a checked-in slice back to its slot index, rejecting
// memory the pool does not own and pointers off the slot grid.
func (p *Pool) slotIndex(buf []byte) (uint32, error) {
	if len(buf) == 0 {
		return 0, api.NewError(api.ErrCodeUsage, api.ErrForeignBuffer,
			"checkin of empty slice")
	}
	data := p.ar.data
	if len(data) == 0 {
		// Arena already released; nothing can legally come back.
		return 0, api.NewError(api.ErrCodeUsage, api.ErrForeignBuffer,
			"checkin on closed pool")
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(data)))
	ptr := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	if ptr < base || ptr >= base+uintptr(len(data)) {
		return 0, api.NewError(api.ErrCodeUsage, api.ErrForeignBuffer,
			"address outside arena")
	}
	off := ptr - base
	if off%uintptr(p.bufSize) != 0 {
		return 0, api.NewError(api.ErrCodeUsage, api.ErrForeignBuffer,
			"address not on a slot boundary").WithContext("offset", int(off))
	}
	return uint32(off / uintptr(p.bufSize)), nil
}
