// control/instrument.go
// Author: momentics <momentics@gmail.com>
//
// Channel instrumentation: a transparent api.Channel wrapper feeding the
// Prometheus collectors. The core stays measurement-free; observability is
// layered on at wiring time.

package control

import (
	"context"
	"time"

	"github.com/momentics/shmchan/api"
)

// Ensure compile-time interface compliance.
var _ api.Channel[any] = (*Instrumented[any])(nil)

// Instrumented decorates a channel with metrics.
type Instrumented[T any] struct {
	inner   api.Channel[T]
	metrics *ChannelMetrics
}

// Instrument wraps ch so that puts, takes, and blocking times are counted.
func Instrument[T any](ch api.Channel[T], m *ChannelMetrics) *Instrumented[T] {
	return &Instrumented[T]{inner: ch, metrics: m}
}

// Put forwards to the wrapped channel, timing the call.
func (i *Instrumented[T]) Put(ctx context.Context, item T) error {
	start := time.Now()
	err := i.inner.Put(ctx, item)
	i.metrics.PutBlockSeconds.Observe(time.Since(start).Seconds())
	if err == nil {
		i.metrics.PutsTotal.Inc()
	}
	return err
}

// Take forwards to the wrapped channel, timing the call.
func (i *Instrumented[T]) Take(ctx context.Context) (T, error) {
	start := time.Now()
	item, err := i.inner.Take(ctx)
	i.metrics.TakeBlockSeconds.Observe(time.Since(start).Seconds())
	if err == nil {
		i.metrics.TakesTotal.Inc()
	}
	return item, err
}

// Len forwards to the wrapped channel.
func (i *Instrumented[T]) Len() int { return i.inner.Len() }

// Cap forwards to the wrapped channel.
func (i *Instrumented[T]) Cap() int { return i.inner.Cap() }

// Close forwards to the wrapped channel.
func (i *Instrumented[T]) Close() error { return i.inner.Close() }
