// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package concurrency provides the lock-free primitives backing the slab
// pool: an intrusive LIFO index stack used as the free list. All
// structures are fixed-capacity and allocation-free on the hot path.
package concurrency
