// File: facade/shmchan.go
// Unified facade layer for the shmchan library.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The facade owns the run lifecycle: it allocates the shared region (or an
// in-process channel), wires the producer and consumers, runs them to
// completion, and tears the region down only after every actor has joined.
// Premature teardown is a use-after-free in the underlying region, so the
// order is strict: construct channel -> start actors -> join all -> detach.

package facade

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/momentics/shmchan/actors"
	"github.com/momentics/shmchan/api"
	"github.com/momentics/shmchan/catalog"
	"github.com/momentics/shmchan/channel"
	"github.com/momentics/shmchan/control"
	"github.com/momentics/shmchan/internal/concurrency"
	"github.com/momentics/shmchan/shm"
)

// ShmChan aggregates one channel, one producer, and a set of consumers.
// It implements api.GracefulShutdown for unified teardown.
type ShmChan struct {
	config *Config
	logger *zap.Logger

	ctrl     api.Control
	registry *prometheus.Registry

	ch    api.Channel[catalog.Product]
	shmCh *shm.Channel[catalog.Product] // non-nil in shared-memory mode
	alloc api.IDAllocator

	source api.Source[catalog.Product]
	sink   api.Sink[catalog.Product]

	producer  *actors.Producer[catalog.Product]
	consumers []*actors.Consumer[catalog.Product]

	mu      sync.Mutex
	started bool
	done    bool
}

// Ensure compliance with api.GracefulShutdown.
var _ api.GracefulShutdown = (*ShmChan)(nil)

// New constructs the facade from configuration: channel (shared-memory or
// in-process), id allocator, metrics, probes, and actors. The shared region
// is fully initialized when New returns; actors have not started yet.
func New(cfg *Config, opts ...Option) (*ShmChan, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Capacity <= 0 {
		return nil, api.ErrInvalidCapacity
	}
	if cfg.Consumers <= 0 {
		return nil, fmt.Errorf("%w: consumer count %d", api.ErrInvalidCapacity, cfg.Consumers)
	}

	s := &ShmChan{config: cfg, logger: zap.NewNop(), ctrl: control.New()}
	for _, opt := range opts {
		opt(s)
	}

	// Channel and id allocator. In shared-memory mode both live in the
	// segment; in-process mode uses the token-semaphore channel and an
	// atomic counter.
	if cfg.SharedMemory {
		name := cfg.SegmentName
		if name == "" {
			name = "demo-" + uuid.NewString()[:8]
		}
		sch, err := shm.Create[catalog.Product](name, cfg.Capacity, catalog.ProductCodec{})
		if err != nil {
			return nil, err
		}
		s.shmCh = sch
		s.ch = sch
		s.alloc = sch
		s.logger.Info("shared segment created", zap.String("path", sch.SegmentPath()))
	} else {
		bch, err := channel.NewBounded[catalog.Product](cfg.Capacity)
		if err != nil {
			return nil, err
		}
		s.ch = bch
		s.alloc = &concurrency.AtomicIDAllocator{}
	}

	if cfg.EnableMetrics {
		s.registry = prometheus.NewRegistry()
		m := control.NewChannelMetrics(s.registry, s.ch.Len)
		s.ch = control.Instrument(s.ch, m)
	}
	if cfg.EnableDebug {
		inner := s.ch
		s.ctrl.RegisterDebugProbe("channel.len", func() any { return inner.Len() })
		s.ctrl.RegisterDebugProbe("channel.cap", func() any { return inner.Cap() })
	}
	s.ctrl.SetConfig(map[string]any{
		"capacity":      cfg.Capacity,
		"consumers":     cfg.Consumers,
		"shared_memory": cfg.SharedMemory,
		"produce_count": cfg.ProduceCount,
	})

	if s.source == nil {
		s.source = catalog.NewRandomSource(s.alloc, catalog.Default(), cfg.ProduceCount)
	}
	if s.sink == nil {
		s.sink = actors.NewPrintSink[catalog.Product](s.logger)
	}

	var producePacer, consumePacer api.Pacer
	if cfg.ProduceDelayMax > 0 {
		producePacer = &actors.RandomPacer{Min: cfg.ProduceDelayMin, Max: cfg.ProduceDelayMax}
	}
	if cfg.ConsumeDelayMax > 0 {
		consumePacer = &actors.RandomPacer{Min: cfg.ConsumeDelayMin, Max: cfg.ConsumeDelayMax}
	}

	s.producer = actors.NewProducer(s.ch, s.source, producePacer, s.logger)
	for i := 1; i <= cfg.Consumers; i++ {
		s.consumers = append(s.consumers, actors.NewConsumer(i, s.ch, s.sink, consumePacer, s.logger))
	}
	return s, nil
}

// Run executes the producer and all consumers until the source is
// exhausted or ctx ends, then joins every actor. When the producer stops,
// the channel is closed so consumers drain the remaining items and exit.
func (s *ShmChan) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("facade: already running")
	}
	s.started = true
	s.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	for _, c := range s.consumers {
		c := c
		g.Go(func() error { return c.Run(ctx) })
	}
	g.Go(func() error {
		err := s.producer.Run(ctx)
		// Producer done: stop accepting puts, let consumers drain.
		if cerr := s.ch.Close(); err == nil {
			err = cerr
		}
		return err
	})

	err := g.Wait()
	s.logger.Info("all actors joined")
	return err
}

// Control exposes runtime config, metrics, and probes.
func (s *ShmChan) Control() api.Control {
	return s.ctrl
}

// Registry returns the Prometheus registry, nil when metrics are disabled.
func (s *ShmChan) Registry() *prometheus.Registry {
	return s.registry
}

// Channel exposes the channel handle, mainly for tests and probes.
func (s *ShmChan) Channel() api.Channel[catalog.Product] {
	return s.ch
}

// Shutdown closes the channel and, in shared-memory mode, detaches and
// destroys the segment. Must only be called after Run has returned: the
// region must outlive every actor.
func (s *ShmChan) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return nil
	}
	s.done = true
	err := s.ch.Close()
	if s.shmCh != nil {
		if derr := s.shmCh.Detach(); err == nil {
			err = derr
		}
	}
	return err
}
