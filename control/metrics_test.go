// File: control/metrics_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package control_test

import (
	"testing"

	"github.com/momentics/hioload-slab/control"
	"github.com/momentics/hioload-slab/slab"
)

func TestMetricsRegistry_SetAndSnapshot(t *testing.T) {
	mr := control.NewMetricsRegistry()
	mr.Set("workers", 8)
	snap := mr.GetSnapshot()
	if snap["workers"] != 8 {
		t.Errorf("snapshot[workers]=%v, want 8", snap["workers"])
	}
	// Snapshot is a copy.
	snap["workers"] = 0
	if mr.GetSnapshot()["workers"] != 8 {
		t.Error("snapshot must not alias registry state")
	}
}

func TestMetricsRegistry_CollectPool(t *testing.T) {
	p, err := slab.New(4, 64)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = p.Close() }()

	buf, _ := p.Checkout()
	defer func() { _ = p.Checkin(buf) }()

	mr := control.NewMetricsRegistry()
	mr.CollectPool("rx", p)
	snap := mr.GetSnapshot()
	if snap["rx.capacity"] != 4 {
		t.Errorf("rx.capacity=%v, want 4", snap["rx.capacity"])
	}
	if snap["rx.outstanding"] != 1 {
		t.Errorf("rx.outstanding=%v, want 1", snap["rx.outstanding"])
	}
	if snap["rx.free"] != 3 {
		t.Errorf("rx.free=%v, want 3", snap["rx.free"])
	}
}
