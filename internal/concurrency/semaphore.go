// File: internal/concurrency/semaphore.go
// Package concurrency implements a context-aware counting semaphore.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Token-channel semaphore: the count is the number of tokens buffered.
// Acquire blocks on an empty channel, Release refills it. A semaphore
// initialized to 1 with capacity 1 acts as a mutex.

package concurrency

import (
	"context"
	"errors"
	"fmt"

	"github.com/momentics/shmchan/api"
)

// Ensure compile-time interface compliance.
var _ api.Semaphore = (*Semaphore)(nil)

// Semaphore is a counting semaphore backed by a buffered channel.
type Semaphore struct {
	tokens chan struct{}
}

// NewSemaphore creates a semaphore with the given maximum count and
// initial value. initial must lie in [0, capacity].
func NewSemaphore(capacity, initial int) (*Semaphore, error) {
	if capacity <= 0 || initial < 0 || initial > capacity {
		return nil, api.ErrInvalidCapacity
	}
	s := &Semaphore{tokens: make(chan struct{}, capacity)}
	for i := 0; i < initial; i++ {
		s.tokens <- struct{}{}
	}
	return s, nil
}

// Acquire takes one token, blocking while the count is zero.
func (s *Semaphore) Acquire(ctx context.Context) error {
	// Fast path: token already available.
	select {
	case <-s.tokens:
		return nil
	default:
	}
	select {
	case <-s.tokens:
		return nil
	case <-ctx.Done():
		return CtxErr(ctx)
	}
}

// TryAcquire takes one token without blocking.
func (s *Semaphore) TryAcquire() bool {
	select {
	case <-s.tokens:
		return true
	default:
		return false
	}
}

// Release returns one token. Releasing above the maximum count means the
// acquire/release protocol was violated and is treated as a fatal assertion.
func (s *Semaphore) Release() {
	select {
	case s.tokens <- struct{}{}:
	default:
		panic("concurrency: semaphore released above capacity")
	}
}

// CtxErr maps a finished context into the library error taxonomy:
// deadline expiry becomes a distinguishable timeout.
func CtxErr(ctx context.Context) error {
	err := ctx.Err()
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", api.ErrOperationTimeout, err)
	}
	return err
}
