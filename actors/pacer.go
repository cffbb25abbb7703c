// File: actors/pacer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package actors

import (
	"context"
	"time"

	"github.com/valyala/fastrand"

	"github.com/momentics/shmchan/api"
)

// Ensure compile-time interface compliance.
var (
	_ api.Pacer = NopPacer{}
	_ api.Pacer = (*RandomPacer)(nil)
)

// NopPacer never waits; actors run flat out.
type NopPacer struct{}

// Wait returns immediately.
func (NopPacer) Wait(context.Context) error {
	return nil
}

// RandomPacer sleeps a uniform random interval in [Min, Max], simulating
// variable actor workload.
type RandomPacer struct {
	Min time.Duration
	Max time.Duration
}

// Wait blocks for the pacing interval or until ctx is done.
func (p *RandomPacer) Wait(ctx context.Context) error {
	d := p.Min
	if span := p.Max - p.Min; span > 0 {
		d += time.Duration(fastrand.Uint32n(uint32(span/time.Millisecond)+1)) * time.Millisecond
	}
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
