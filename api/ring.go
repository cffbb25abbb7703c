// Package api
// Author: momentics@gmail.com
//
// Bounded circular storage contract. Implementations are plain data
// structures: no internal locking, callers serialize access themselves.

package api

// Ring is a fixed-capacity circular buffer contract.
type Ring[T any] interface {
	// Write stores an item at the rear position.
	// Returns ErrCapacityExceeded when the ring is full.
	Write(item T) error
	// Read removes and returns the oldest item.
	// Returns ErrUnderflow when the ring is empty.
	Read() (T, error)
	// Len returns current number of occupied slots.
	Len() int
	// Cap returns fixed slot capacity.
	Cap() int
}
