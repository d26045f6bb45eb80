// File: slab/pool_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package slab_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/momentics/hioload-slab/api"
	"github.com/momentics/hioload-slab/slab"
)

func mustPool(t *testing.T, capacity, size int, opts ...slab.Option) *slab.Pool {
	t.Helper()
	p, err := slab.New(capacity, size, opts...)
	if err != nil {
		t.Fatalf("New(%d, %d): %v", capacity, size, err)
	}
	return p
}

func TestNew_RejectsZeroDimensions(t *testing.T) {
	cases := []struct{ capacity, size int }{
		{0, 64},
		{4, 0},
		{-1, 64},
		{4, -8},
	}
	for _, c := range cases {
		if _, err := slab.New(c.capacity, c.size); !errors.Is(err, api.ErrInvalidArgument) {
			t.Errorf("New(%d, %d): expected ErrInvalidArgument, got %v", c.capacity, c.size, err)
		}
	}
}

func TestNew_RejectsOverflow(t *testing.T) {
	if _, err := slab.New(math.MaxInt, 2); !errors.Is(err, api.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument on overflow, got %v", err)
	}
	if _, err := slab.New(math.MaxInt/2, math.MaxInt/2); !errors.Is(err, api.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument on overflow, got %v", err)
	}
}

func TestCheckout_SlotGeometry(t *testing.T) {
	p := mustPool(t, 4, 64)
	defer func() { _ = p.Close() }()

	seen := make(map[*byte]bool)
	for i := 0; i < 4; i++ {
		buf, err := p.Checkout()
		if err != nil {
			t.Fatalf("checkout %d: %v", i, err)
		}
		if len(buf) != 64 || cap(buf) != 64 {
			t.Fatalf("slot %d: len=%d cap=%d, want 64/64", i, len(buf), cap(buf))
		}
		if seen[&buf[0]] {
			t.Fatalf("slot %d issued twice", i)
		}
		seen[&buf[0]] = true
		for j, b := range buf {
			if b != 0 {
				t.Fatalf("slot %d byte %d not zero-initialized", i, j)
			}
		}
		defer func(b []byte) { _ = p.Checkin(b) }(buf)
	}
}

func TestCheckout_ExhaustionAndRecovery(t *testing.T) {
	p := mustPool(t, 1, 32)
	defer func() { _ = p.Close() }()

	first, err := p.Checkout()
	if err != nil {
		t.Fatalf("first checkout: %v", err)
	}
	if _, err := p.Checkout(); !errors.Is(err, api.ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	if err := p.Checkin(first); err != nil {
		t.Fatalf("checkin: %v", err)
	}
	again, err := p.Checkout()
	if err != nil {
		t.Fatalf("checkout after recovery: %v", err)
	}
	if &again[0] != &first[0] {
		t.Error("expected the freed slot to be reissued")
	}
	if err := p.Checkin(again); err != nil {
		t.Fatalf("final checkin: %v", err)
	}
}

func TestCheckout_LIFOReuse(t *testing.T) {
	p := mustPool(t, 4, 16)
	defer func() { _ = p.Close() }()

	a, _ := p.Checkout()
	b, _ := p.Checkout()
	_ = p.Checkin(a)
	_ = p.Checkin(b)
	// Most recently freed slot comes back first.
	c, _ := p.Checkout()
	if &c[0] != &b[0] {
		t.Error("expected LIFO reuse of the last freed slot")
	}
	_ = p.Checkin(c)
}

func TestCheckin_DoubleFree(t *testing.T) {
	p := mustPool(t, 2, 16)
	defer func() { _ = p.Close() }()

	buf, _ := p.Checkout()
	if err := p.Checkin(buf); err != nil {
		t.Fatalf("first checkin: %v", err)
	}
	err := p.Checkin(buf)
	if !errors.Is(err, api.ErrDoubleFree) {
		t.Fatalf("expected ErrDoubleFree, got %v", err)
	}
	if !errors.Is(err, api.ErrUsage) {
		t.Error("ErrDoubleFree must wrap ErrUsage")
	}
	// Pool state is intact after the rejected checkin.
	if got := p.Stats().Outstanding; got != 0 {
		t.Errorf("outstanding = %d after double free, want 0", got)
	}
}

func TestCheckin_RejectsForeignMemory(t *testing.T) {
	p := mustPool(t, 2, 64)
	defer func() { _ = p.Close() }()

	if err := p.Checkin(make([]byte, 64)); !errors.Is(err, api.ErrForeignBuffer) {
		t.Errorf("heap slice: expected ErrForeignBuffer, got %v", err)
	}
	if err := p.Checkin(nil); !errors.Is(err, api.ErrForeignBuffer) {
		t.Errorf("nil slice: expected ErrForeignBuffer, got %v", err)
	}

	buf, _ := p.Checkout()
	defer func() { _ = p.Checkin(buf) }()
	// Interior pointer: inside the arena but off the slot grid.
	if err := p.Checkin(buf[1:]); !errors.Is(err, api.ErrForeignBuffer) {
		t.Errorf("misaligned pointer: expected ErrForeignBuffer, got %v", err)
	}
}

func TestClose_CleanTeardown(t *testing.T) {
	p := mustPool(t, 4, 64)
	if err := p.Close(); err != nil {
		t.Fatalf("close with no checkouts: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second close must be a no-op, got %v", err)
	}
	if _, err := p.Checkout(); !errors.Is(err, api.ErrPoolClosed) {
		t.Errorf("checkout after close: expected ErrPoolClosed, got %v", err)
	}
}

func TestClose_WithOutstanding(t *testing.T) {
	p := mustPool(t, 2, 64)
	buf, _ := p.Checkout()

	if err := p.Close(); !errors.Is(err, api.ErrOutstandingBuffers) {
		t.Fatalf("expected ErrOutstandingBuffers, got %v", err)
	}
	// Pool must remain fully usable after the failed close.
	if err := p.Checkin(buf); err != nil {
		t.Fatalf("checkin after failed close: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close after drain: %v", err)
	}
}

func TestStats_CapacityConservation(t *testing.T) {
	const capacity = 16
	p := mustPool(t, capacity, 32)
	defer func() { _ = p.Close() }()

	rng := rand.New(rand.NewSource(7))
	held := make([][]byte, 0, capacity)
	for i := 0; i < 5000; i++ {
		if rng.Intn(2) == 0 {
			buf, err := p.Checkout()
			if err == nil {
				held = append(held, buf)
			} else if !errors.Is(err, api.ErrExhausted) {
				t.Fatalf("checkout: %v", err)
			}
		} else if len(held) > 0 {
			k := rng.Intn(len(held))
			if err := p.Checkin(held[k]); err != nil {
				t.Fatalf("checkin: %v", err)
			}
			held = append(held[:k], held[k+1:]...)
		}
		s := p.Stats()
		if s.Free+s.Outstanding != capacity {
			t.Fatalf("conservation broken: free=%d outstanding=%d", s.Free, s.Outstanding)
		}
		if s.Outstanding != len(held) {
			t.Fatalf("outstanding=%d, model holds %d", s.Outstanding, len(held))
		}
	}
	for _, buf := range held {
		_ = p.Checkin(buf)
	}
	s := p.Stats()
	if s.Outstanding != 0 || s.Free != capacity {
		t.Errorf("pool not drained: %+v", s)
	}
	if s.TotalCheckouts != s.TotalCheckins {
		t.Errorf("checkouts=%d checkins=%d after drain", s.TotalCheckouts, s.TotalCheckins)
	}
}

func TestZeroOnCheckin(t *testing.T) {
	p := mustPool(t, 1, 16, slab.WithZeroOnCheckin())
	defer func() { _ = p.Close() }()

	buf, _ := p.Checkout()
	copy(buf, "sensitive")
	_ = p.Checkin(buf)
	again, _ := p.Checkout()
	for i, b := range again {
		if b != 0 {
			t.Fatalf("byte %d not cleared on reuse", i)
		}
	}
	_ = p.Checkin(again)
}

func TestPool_ImplementsAPI(t *testing.T) {
	p := mustPool(t, 1, 8)
	var _ api.SlabPool = p
	var _ api.GracefulShutdown = p
	if p.Capacity() != 1 || p.BufferSize() != 8 {
		t.Errorf("accessors: capacity=%d size=%d", p.Capacity(), p.BufferSize())
	}
	if p.Available() != 1 {
		t.Errorf("available=%d, want 1", p.Available())
	}
	if err := p.Shutdown(); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
