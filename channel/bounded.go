// File: channel/bounded.go
// Package channel provides the in-process bounded channel.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Bounded implements the classic two-counting-semaphores-plus-mutex
// protocol over a circular buffer:
//
//	Put:  wait slotsEmpty -> wait mutex -> write -> post mutex -> post slotsFull
//	Take: wait slotsFull  -> wait mutex -> read  -> post mutex -> post slotsEmpty
//
// The counting semaphore is always acquired before the mutex, never the
// other way around: holding the mutex while waiting on a capacity counter
// would deadlock the peer that must run to change that counter.

package channel

import (
	"context"
	"sync/atomic"

	"github.com/momentics/shmchan/api"
	"github.com/momentics/shmchan/internal/concurrency"
)

// Ensure compile-time interface compliance.
var _ api.Channel[any] = (*Bounded[any])(nil)

// Bounded is a blocking bounded FIFO for one producer and many consumers
// sharing one address space.
type Bounded[T any] struct {
	ring       *concurrency.Ring[T]
	slotsEmpty *concurrency.Semaphore // counts free slots, starts at capacity
	slotsFull  *concurrency.Semaphore // counts occupied slots, starts at 0
	mutex      *concurrency.Semaphore // binary, guards the ring
	closed     atomic.Bool
}

// NewBounded creates a channel with the given capacity.
func NewBounded[T any](capacity int) (*Bounded[T], error) {
	ring, err := concurrency.NewRing[T](capacity)
	if err != nil {
		return nil, err
	}
	// Semaphore capacity is one above the slot count so that the single
	// phantom token injected by Close always fits.
	slotsEmpty, err := concurrency.NewSemaphore(capacity+1, capacity)
	if err != nil {
		return nil, err
	}
	slotsFull, err := concurrency.NewSemaphore(capacity+1, 0)
	if err != nil {
		return nil, err
	}
	mutex, err := concurrency.NewSemaphore(1, 1)
	if err != nil {
		return nil, err
	}
	return &Bounded[T]{
		ring:       ring,
		slotsEmpty: slotsEmpty,
		slotsFull:  slotsFull,
		mutex:      mutex,
	}, nil
}

// Put blocks until a slot is free, then places item. Returns
// api.ErrChannelClosed after Close, or a ctx error if the wait is cut short.
func (b *Bounded[T]) Put(ctx context.Context, item T) error {
	if b.closed.Load() {
		return api.ErrChannelClosed
	}
	if err := b.slotsEmpty.Acquire(ctx); err != nil {
		return err
	}
	if b.closed.Load() {
		// Woken by the phantom token from Close: pass it on so every
		// other blocked producer wakes too.
		b.slotsEmpty.Release()
		return api.ErrChannelClosed
	}
	if err := b.mutex.Acquire(ctx); err != nil {
		b.slotsEmpty.Release()
		return err
	}
	err := b.ring.Write(item)
	b.mutex.Release()
	if err != nil {
		// Unreachable under the protocol; surface as the fatal fault it is.
		b.slotsEmpty.Release()
		return err
	}
	b.slotsFull.Release()
	return nil
}

// Take blocks until an item is available and removes it. After Close,
// remaining items drain first; on a closed empty channel it returns
// api.ErrChannelClosed.
func (b *Bounded[T]) Take(ctx context.Context) (T, error) {
	var zero T
	if err := b.slotsFull.Acquire(ctx); err != nil {
		return zero, err
	}
	if err := b.mutex.Acquire(ctx); err != nil {
		b.slotsFull.Release()
		return zero, err
	}
	if b.ring.Len() == 0 && b.closed.Load() {
		// Phantom token: channel is closed and drained. Cascade the wake.
		b.mutex.Release()
		b.slotsFull.Release()
		return zero, api.ErrChannelClosed
	}
	item, err := b.ring.Read()
	b.mutex.Release()
	if err != nil {
		b.slotsFull.Release()
		return zero, err
	}
	b.slotsEmpty.Release()
	return item, nil
}

// Len returns the number of buffered items.
func (b *Bounded[T]) Len() int {
	if err := b.mutex.Acquire(context.Background()); err != nil {
		return 0
	}
	defer b.mutex.Release()
	return b.ring.Len()
}

// Cap returns the fixed channel capacity.
func (b *Bounded[T]) Cap() int {
	return b.ring.Cap()
}

// Close stops new Puts and lets outstanding items drain. One phantom token
// is injected into each counting semaphore; waiters that consume it observe
// the closed flag and re-release it, cascading the wake-up to their peers.
func (b *Bounded[T]) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	b.slotsEmpty.Release()
	b.slotsFull.Release()
	return nil
}
