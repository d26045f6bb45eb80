// Package slab — zero-alloc batching of checked-out slots.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Batch checkout amortizes pool round-trips for vectored I/O
// (readv/writev-style paths hand the whole batch to the kernel).
// A Batch is NOT thread-safe; one goroutine owns it at a time.

package slab

// Batch is a minimal collection of checked-out slots.
type Batch struct {
	bufs [][]byte
}

// NewBatch creates a batch with the given capacity hint.
func NewBatch(capacity int) *Batch {
	return &Batch{bufs: make([][]byte, 0, capacity)}
}

// Append adds a checked-out slot to the batch.
func (b *Batch) Append(buf []byte) {
	b.bufs = append(b.bufs, buf)
}

// Len returns the number of slots in the batch.
func (b *Batch) Len() int { return len(b.bufs) }

// Get retrieves the slot at idx.
func (b *Batch) Get(idx int) []byte { return b.bufs[idx] }

// Underlying returns the backing slice, suitable for vectored syscalls.
func (b *Batch) Underlying() [][]byte { return b.bufs }

// Reset clears the batch retaining its backing storage.
func (b *Batch) Reset() { b.bufs = b.bufs[:0] }

// CheckoutBatch checks out up to n slots, best effort. Returns
// ErrExhausted only when not a single slot was free; a short batch is
// not an error.
func (p *Pool) CheckoutBatch(n int) (*Batch, error) {
	b := NewBatch(n)
	for i := 0; i < n; i++ {
		buf, err := p.Checkout()
		if err != nil {
			if b.Len() > 0 {
				return b, nil
			}
			return nil, err
		}
		b.Append(buf)
	}
	return b, nil
}

// CheckinBatch returns every slot in the batch to the pool and resets
// it. All slots are attempted even after a failure; the first error is
// reported.
func (p *Pool) CheckinBatch(b *Batch) error {
	var first error
	for _, buf := range b.bufs {
		if err := p.Checkin(buf); err != nil && first == nil {
			first = err
		}
	}
	b.Reset()
	return first
}
