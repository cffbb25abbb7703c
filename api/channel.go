// File: api/channel.go
// Package api defines the bounded channel contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import "context"

// Channel is a blocking bounded FIFO shared by one producer and any number
// of consumers. Items are delivered in the order they were put; which
// consumer receives a given item is unspecified. Every item put is taken
// exactly once.
//
// All blocking observes ctx: cancellation or deadline unblocks the call
// with an error wrapping ErrOperationTimeout or the ctx error.
type Channel[T any] interface {
	// Put blocks until a slot is free, then places item.
	// Returns ErrChannelClosed after Close.
	Put(ctx context.Context, item T) error

	// Take blocks until an item is available and removes it.
	// After Close, remaining items are drained first; once empty,
	// Take returns ErrChannelClosed.
	Take(ctx context.Context) (T, error)

	// Len returns the number of items currently buffered.
	Len() int
	// Cap returns the fixed channel capacity.
	Cap() int

	// Close stops new Puts and lets outstanding items drain.
	Close() error
}
