// File: shm/channel.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Cross-process bounded channel over a shared segment. The protocol is the
// same as channel.Bounded — wait count semaphore, wait mutex, touch the
// ring, post mutex, post the opposite count semaphore — but every piece of
// state lives in the mapped region: semaphore words, ring indices, payload
// slots and the shared id counter. Payloads are copied by value through
// fixed-size slots via an api.Codec; no pointers cross the boundary.

package shm

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/momentics/shmchan/api"
)

// Ensure compile-time interface compliance.
var (
	_ api.Channel[any]     = (*Channel[any])(nil)
	_ api.IDAllocator      = (*Channel[any])(nil)
	_ api.GracefulShutdown = (*Channel[any])(nil)
)

// Channel is a bounded FIFO shared between processes mapping one segment.
type Channel[T any] struct {
	seg   *Segment
	codec api.Codec[T]

	slotsEmpty futexSem
	slotsFull  futexSem
	mutex      futexSem

	capacity int
	slotSize int
}

// Create builds a new channel segment with the given name and capacity.
// The segment is fully initialized before Create returns: attachers and
// actors may start immediately after.
func Create[T any](name string, capacity int, codec api.Codec[T]) (*Channel[T], error) {
	seg, err := CreateSegment(name, capacity, codec.SlotSize())
	if err != nil {
		return nil, err
	}
	return newChannel(seg, codec), nil
}

// Open attaches to an existing channel segment. The codec must describe the
// same slot geometry the owner created the segment with.
func Open[T any](name string, codec api.Codec[T]) (*Channel[T], error) {
	seg, err := OpenSegment(name)
	if err != nil {
		return nil, err
	}
	if seg.SlotSize() != codec.SlotSize() {
		have, want := seg.SlotSize(), codec.SlotSize()
		seg.Close()
		return nil, fmt.Errorf("%w: segment slot size %d, codec wants %d",
			api.ErrResourceAllocation, have, want)
	}
	return newChannel(seg, codec), nil
}

func newChannel[T any](seg *Segment, codec api.Codec[T]) *Channel[T] {
	return &Channel[T]{
		seg:        seg,
		codec:      codec,
		slotsEmpty: futexSem{word: seg.word32(offSemEmpty)},
		slotsFull:  futexSem{word: seg.word32(offSemFull)},
		mutex:      futexSem{word: seg.word32(offSemMutex)},
		capacity:   seg.Capacity(),
		slotSize:   seg.SlotSize(),
	}
}

// Put blocks until a slot is free, then copies item into it.
func (c *Channel[T]) Put(ctx context.Context, item T) error {
	if c.isClosed() {
		return api.ErrChannelClosed
	}
	if err := c.slotsEmpty.acquire(ctx); err != nil {
		return err
	}
	if c.isClosed() {
		// Phantom token from Close: cascade it to the next waiter.
		c.slotsEmpty.release()
		return api.ErrChannelClosed
	}
	if err := c.mutex.acquire(ctx); err != nil {
		c.slotsEmpty.release()
		return err
	}

	rear := atomic.LoadUint32(c.seg.word32(offRear))
	size := atomic.LoadUint32(c.seg.word32(offSize))
	if int(size) >= c.capacity {
		c.mutex.release()
		c.slotsEmpty.release()
		return api.ErrCapacityExceeded
	}
	if err := c.codec.Marshal(item, c.seg.slot(int(rear), c.slotSize)); err != nil {
		c.mutex.release()
		c.slotsEmpty.release()
		return err
	}
	atomic.StoreUint32(c.seg.word32(offRear), (rear+1)%uint32(c.capacity))
	atomic.StoreUint32(c.seg.word32(offSize), size+1)

	c.mutex.release()
	c.slotsFull.release()
	return nil
}

// Take blocks until an item is available and copies it out. After Close,
// remaining items drain first; a closed empty channel reports
// api.ErrChannelClosed.
func (c *Channel[T]) Take(ctx context.Context) (T, error) {
	var zero T
	if err := c.slotsFull.acquire(ctx); err != nil {
		return zero, err
	}
	if err := c.mutex.acquire(ctx); err != nil {
		c.slotsFull.release()
		return zero, err
	}

	front := atomic.LoadUint32(c.seg.word32(offFront))
	size := atomic.LoadUint32(c.seg.word32(offSize))
	if size == 0 {
		closed := c.isClosed()
		c.mutex.release()
		c.slotsFull.release()
		if closed {
			return zero, api.ErrChannelClosed
		}
		return zero, api.ErrUnderflow
	}
	item, err := c.codec.Unmarshal(c.seg.slot(int(front), c.slotSize))
	if err != nil {
		c.mutex.release()
		c.slotsFull.release()
		return zero, err
	}
	atomic.StoreUint32(c.seg.word32(offFront), (front+1)%uint32(c.capacity))
	atomic.StoreUint32(c.seg.word32(offSize), size-1)

	c.mutex.release()
	c.slotsEmpty.release()
	return item, nil
}

// Len returns the current occupancy.
func (c *Channel[T]) Len() int {
	return int(atomic.LoadUint32(c.seg.word32(offSize)))
}

// Cap returns the fixed capacity.
func (c *Channel[T]) Cap() int {
	return c.capacity
}

// NextID allocates a payload identifier from the shared counter in the
// segment header, unique across every process attached to the segment.
func (c *Channel[T]) NextID() uint64 {
	return atomic.AddUint64(c.seg.word64(offNextID), 1)
}

// Close marks the channel closed for every attached process and wakes all
// blocked actors. Remaining items stay available to Take.
func (c *Channel[T]) Close() error {
	if !atomic.CompareAndSwapUint32(c.seg.word32(offClosed), 0, 1) {
		return nil
	}
	c.slotsEmpty.releaseAll()
	c.slotsFull.releaseAll()
	return nil
}

// Detach unmaps the segment for this process. The owner removes the
// backing file; it must only do so after every actor has terminated.
func (c *Channel[T]) Detach() error {
	return c.seg.Close()
}

// Shutdown implements api.GracefulShutdown: close, then detach.
func (c *Channel[T]) Shutdown() error {
	c.Close()
	return c.Detach()
}

// SegmentPath exposes the backing file for diagnostics.
func (c *Channel[T]) SegmentPath() string {
	return c.seg.Path()
}

func (c *Channel[T]) isClosed() bool {
	return atomic.LoadUint32(c.seg.word32(offClosed)) == 1
}
