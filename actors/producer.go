// File: actors/producer.go
// Package actors hosts the channel clients: producer and consumer loops.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Actors are external to the channel core. Their loops are cancellable:
// every suspension point observes ctx, so tests and the lifecycle manager
// terminate them deterministically instead of relying on process exit.

package actors

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/momentics/shmchan/api"
)

// Producer draws items from a Source and puts them into the channel.
type Producer[T any] struct {
	channel api.Channel[T]
	source  api.Source[T]
	pacer   api.Pacer
	logger  *zap.Logger
}

// NewProducer wires a producer. pacer and logger may be nil.
func NewProducer[T any](ch api.Channel[T], src api.Source[T], pacer api.Pacer, logger *zap.Logger) *Producer[T] {
	if pacer == nil {
		pacer = NopPacer{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Producer[T]{channel: ch, source: src, pacer: pacer, logger: logger}
}

// Run loops until the source is exhausted, the channel closes, or ctx ends.
// Source exhaustion and cancellation are clean exits.
func (p *Producer[T]) Run(ctx context.Context) error {
	for {
		item, err := p.source.Next(ctx)
		switch {
		case errors.Is(err, api.EOF):
			p.logger.Debug("producer: source exhausted")
			return nil
		case errors.Is(err, context.Canceled):
			return nil
		case err != nil:
			return err
		}

		if err := p.channel.Put(ctx, item); err != nil {
			if errors.Is(err, api.ErrChannelClosed) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		p.logger.Debug("producer: item placed", zap.Any("item", item))

		if err := p.pacer.Wait(ctx); err != nil {
			return nil
		}
	}
}
