// File: api/semaphore.go
// Package api defines the counting semaphore contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import "context"

// Semaphore is a counting semaphore: a non-negative counter where Acquire
// blocks until the count is positive and Release never blocks.
//
// A semaphore initialized to 1 acts as a mutex; the channel protocol uses
// two counting semaphores (free slots, occupied slots) plus one mutex.
type Semaphore interface {
	// Acquire decrements the count, blocking while it is zero.
	// Unblocks with an error when ctx is cancelled or expires.
	Acquire(ctx context.Context) error

	// TryAcquire attempts a non-blocking decrement.
	TryAcquire() bool

	// Release increments the count, potentially unblocking a waiter.
	Release()
}
