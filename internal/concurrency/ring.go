// File: internal/concurrency/ring.go
// Package concurrency implements the storage and synchronization primitives
// behind the bounded channel.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Ring is a bounded circular buffer with front/rear/size bookkeeping.
// It carries no locking of its own: the channel layer serializes access.
// Implements api.Ring for cross-package consistency.

package concurrency

import (
	"github.com/momentics/shmchan/api"
)

// Ensure compile-time interface compliance.
var _ api.Ring[any] = (*Ring[any])(nil)

// Ring is a fixed-capacity circular buffer. Not safe for concurrent use.
type Ring[T any] struct {
	data  []T
	front int // next read index
	rear  int // next write index
	size  int // occupied slots
}

// NewRing allocates a ring of the given capacity.
func NewRing[T any](capacity int) (*Ring[T], error) {
	if capacity <= 0 {
		return nil, api.ErrInvalidCapacity
	}
	return &Ring[T]{data: make([]T, capacity)}, nil
}

// Write stores item at the rear slot and advances circularly.
// A full ring is a caller-discipline violation, reported as
// api.ErrCapacityExceeded.
func (r *Ring[T]) Write(item T) error {
	if r.size == len(r.data) {
		return api.ErrCapacityExceeded
	}
	r.data[r.rear] = item
	r.rear = (r.rear + 1) % len(r.data)
	r.size++
	return nil
}

// Read removes and returns the item at the front slot.
// An empty ring is reported as api.ErrUnderflow.
func (r *Ring[T]) Read() (T, error) {
	var zero T
	if r.size == 0 {
		return zero, api.ErrUnderflow
	}
	item := r.data[r.front]
	r.data[r.front] = zero // drop reference for GC
	r.front = (r.front + 1) % len(r.data)
	r.size--
	return item, nil
}

// Len returns number of occupied slots.
func (r *Ring[T]) Len() int {
	return r.size
}

// Cap returns fixed slot capacity.
func (r *Ring[T]) Cap() int {
	return len(r.data)
}
