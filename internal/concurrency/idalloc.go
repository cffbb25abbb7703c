// File: internal/concurrency/idalloc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Identifier allocation shared across all actors of a run. A process-local
// static counter hands out colliding ids once actors live in separate
// address spaces; the allocator therefore lives either here (one process)
// or in the shared segment header (many processes).

package concurrency

import (
	"sync/atomic"

	"github.com/momentics/shmchan/api"
)

// Ensure compile-time interface compliance.
var _ api.IDAllocator = (*AtomicIDAllocator)(nil)

// AtomicIDAllocator is the in-process allocator: a single atomic counter.
type AtomicIDAllocator struct {
	next atomic.Uint64
}

// NextID returns the next identifier, starting from 1.
func (a *AtomicIDAllocator) NextID() uint64 {
	return a.next.Add(1)
}
