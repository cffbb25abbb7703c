// File: actors/sink.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package actors

import (
	"fmt"
	"sync"

	"github.com/eapache/queue"
	"go.uber.org/zap"

	"github.com/momentics/shmchan/api"
)

// Ensure compile-time interface compliance.
var (
	_ api.Sink[fmt.Stringer] = (*PrintSink[fmt.Stringer])(nil)
	_ api.Sink[any]          = (*RecorderSink[any])(nil)
)

// PrintSink logs each consumed item, mirroring the classic console demo.
type PrintSink[T fmt.Stringer] struct {
	logger *zap.Logger
}

// NewPrintSink creates a sink logging through the given logger.
func NewPrintSink[T fmt.Stringer](logger *zap.Logger) *PrintSink[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrintSink[T]{logger: logger}
}

// Consume logs the item with its consumer id.
func (s *PrintSink[T]) Consume(consumerID int, item T) error {
	s.logger.Info("consumed",
		zap.Int("customer", consumerID),
		zap.String("item", item.String()))
	return nil
}

// RecorderSink keeps every consumed item in arrival order. Used by the
// demo for a run summary and by tests to assert delivery properties.
type RecorderSink[T any] struct {
	mu    sync.Mutex
	items *queue.Queue
}

// NewRecorderSink creates an empty recorder.
func NewRecorderSink[T any]() *RecorderSink[T] {
	return &RecorderSink[T]{items: queue.New()}
}

// Consume records the item.
func (s *RecorderSink[T]) Consume(consumerID int, item T) error {
	s.mu.Lock()
	s.items.Add(item)
	s.mu.Unlock()
	return nil
}

// Len returns the number of recorded items.
func (s *RecorderSink[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Length()
}

// Items drains and returns all recorded items in arrival order.
func (s *RecorderSink[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, 0, s.items.Length())
	for s.items.Length() > 0 {
		out = append(out, s.items.Remove().(T))
	}
	return out
}
