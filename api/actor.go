// File: api/actor.go
// Package api defines actor-side item plumbing.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Producers and consumers are clients of a Channel. Where their items come
// from and where they go is pluggable; the channel core never depends on a
// particular payload-generation policy.

package api

import (
	"context"
	"io"
)

// Source supplies items to a producer loop.
type Source[T any] interface {
	// Next returns the next item to produce.
	// Returning io.EOF stops the producer cleanly.
	Next(ctx context.Context) (T, error)
}

// Sink receives items taken by a consumer loop.
type Sink[T any] interface {
	// Consume processes one item on behalf of the identified consumer.
	Consume(consumerID int, item T) error
}

// IDAllocator hands out payload identifiers unique across every actor of a
// run. Actor-local counters collide once actors live in separate address
// spaces, so the allocator is shared: an atomic counter in one process, a
// counter in the segment header across processes.
type IDAllocator interface {
	NextID() uint64
}

// Pacer simulates variable actor workload between operations.
type Pacer interface {
	// Wait blocks for the pacing interval or until ctx is done.
	Wait(ctx context.Context) error
}

// EOF is re-exported so sources need not import io for the stop sentinel.
var EOF = io.EOF
