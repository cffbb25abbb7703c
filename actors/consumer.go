// File: actors/consumer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package actors

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/momentics/shmchan/api"
)

// Consumer takes items from the channel and hands them to a Sink.
type Consumer[T any] struct {
	id      int
	channel api.Channel[T]
	sink    api.Sink[T]
	pacer   api.Pacer
	logger  *zap.Logger
}

// NewConsumer wires a consumer. pacer and logger may be nil.
func NewConsumer[T any](id int, ch api.Channel[T], sink api.Sink[T], pacer api.Pacer, logger *zap.Logger) *Consumer[T] {
	if pacer == nil {
		pacer = NopPacer{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer[T]{id: id, channel: ch, sink: sink, pacer: pacer, logger: logger}
}

// ID returns the consumer identifier.
func (c *Consumer[T]) ID() int {
	return c.id
}

// Run loops until the channel is closed and drained or ctx ends. A closed
// drained channel and cancellation are clean exits.
func (c *Consumer[T]) Run(ctx context.Context) error {
	for {
		item, err := c.channel.Take(ctx)
		if err != nil {
			if errors.Is(err, api.ErrChannelClosed) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		if err := c.sink.Consume(c.id, item); err != nil {
			return err
		}
		c.logger.Debug("consumer: item processed",
			zap.Int("consumer", c.id), zap.Any("item", item))

		if err := c.pacer.Wait(ctx); err != nil {
			return nil
		}
	}
}
