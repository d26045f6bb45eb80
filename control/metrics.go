// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics collector for pool-level monitoring.
// Exposes counters in a thread-safe map with dynamic registration.

package control

import (
	"sync"
	"time"

	"github.com/momentics/hioload-slab/api"
)

// MetricsRegistry holds mutable and read-only metrics.
type MetricsRegistry struct {
	mu      sync.RWMutex
	metrics map[string]any
	updated time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		metrics: make(map[string]any),
	}
}

// Set sets or updates a metric key.
func (mr *MetricsRegistry) Set(key string, value any) {
	mr.mu.Lock()
	mr.metrics[key] = value
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// GetSnapshot returns the latest metrics.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]any, len(mr.metrics))
	for k, v := range mr.metrics {
		out[k] = v
	}
	return out
}

// CollectPool dumps a pool's stats into the registry under name-spaced
// keys ("<name>.free", "<name>.outstanding", ...).
func (mr *MetricsRegistry) CollectPool(name string, p api.SlabPool) {
	s := p.Stats()
	mr.mu.Lock()
	mr.metrics[name+".capacity"] = s.Capacity
	mr.metrics[name+".buffer_size"] = s.BufferSize
	mr.metrics[name+".free"] = s.Free
	mr.metrics[name+".outstanding"] = s.Outstanding
	mr.metrics[name+".total_checkouts"] = s.TotalCheckouts
	mr.metrics[name+".total_checkins"] = s.TotalCheckins
	mr.metrics[name+".failed_checkouts"] = s.FailedCheckouts
	mr.updated = time.Now()
	mr.mu.Unlock()
}
