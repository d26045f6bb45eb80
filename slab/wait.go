// File: slab/wait.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Blocking checkout, a distinct operation from the non-blocking
// Checkout. Waiters park in a FIFO queue; every checkin wakes the
// oldest live waiter, which retries the lock-free checkout path.

package slab

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/momentics/hioload-slab/api"
)

// waiter parks one blocked CheckoutWait call. The claimed flag is the
// rendezvous: exactly one of {wakeup, cancellation, self-service} wins.
type waiter struct {
	ch      chan struct{}
	claimed atomic.Bool
}

// CheckoutWait behaves like Checkout but blocks while the pool is
// exhausted, until a slot is freed, ctx is done, or the pool closes.
func (p *Pool) CheckoutWait(ctx context.Context) ([]byte, error) {
	for {
		buf, err := p.Checkout()
		if err == nil || !errors.Is(err, api.ErrExhausted) {
			return buf, err
		}

		w := &waiter{ch: make(chan struct{}, 1)}
		p.waitMu.Lock()
		p.waiters.Add(w)
		p.waitMu.Unlock()
		p.waiterCount.Add(1)

		// Retry after registering: a concurrent checkin either observed
		// the waiter count or published its slot before this attempt.
		buf, err = p.Checkout()
		if err == nil || !errors.Is(err, api.ErrExhausted) {
			p.abandonWaiter(w)
			return buf, err
		}

		select {
		case <-w.ch:
			p.waiterCount.Add(-1)
			// Slot published; loop and race for it.
		case <-ctx.Done():
			p.abandonWaiter(w)
			return nil, ctx.Err()
		case <-p.closedCh:
			p.abandonWaiter(w)
			return nil, api.ErrPoolClosed
		}
	}
}

// abandonWaiter retires w without consuming a wakeup. If a checkin
// already signaled w, the wakeup is passed on so no other waiter
// sleeps through an available slot.
func (p *Pool) abandonWaiter(w *waiter) {
	p.waiterCount.Add(-1)
	if !w.claimed.CompareAndSwap(false, true) {
		p.wakeOne()
	}
}

// wakeOne signals the oldest unclaimed waiter, discarding entries
// already claimed by cancellation.
func (p *Pool) wakeOne() {
	p.waitMu.Lock()
	for p.waiters.Length() > 0 {
		w := p.waiters.Remove().(*waiter)
		if w.claimed.CompareAndSwap(false, true) {
			w.ch <- struct{}{}
			break
		}
	}
	p.waitMu.Unlock()
}
