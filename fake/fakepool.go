// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import "github.com/momentics/hioload-slab/api"

// FakeSlabPool is a trivial heap-backed stub honoring api.SlabPool for
// collaborator tests. It never exhausts and never validates checkins.
type FakeSlabPool struct {
	Size int
}

func (f *FakeSlabPool) Checkout() ([]byte, error) {
	n := f.Size
	if n <= 0 {
		n = 4096
	}
	return make([]byte, n), nil
}

func (f *FakeSlabPool) Checkin(_ []byte) error { return nil }

func (f *FakeSlabPool) Capacity() int { return 0 }

func (f *FakeSlabPool) BufferSize() int { return f.Size }

func (f *FakeSlabPool) Stats() api.SlabPoolStats { return api.SlabPoolStats{} }

func (f *FakeSlabPool) Close() error { return nil }

var _ api.SlabPool = (*FakeSlabPool)(nil)
