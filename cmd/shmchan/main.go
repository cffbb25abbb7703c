// File: cmd/shmchan/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Demo binary for the shmchan bounded channel.
//
// Modes:
//
//	run      create the channel (optionally shared-memory backed), start
//	         one producer and N consumers, join them, tear down.
//	produce  attach to an existing segment and run one producer.
//	consume  attach to an existing segment and run one consumer.
//
// A multi-process demo runs `-mode run -shm -segment demo` in one shell
// and any number of `-mode consume -segment demo` peers in others.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/momentics/shmchan/actors"
	"github.com/momentics/shmchan/api"
	"github.com/momentics/shmchan/catalog"
	"github.com/momentics/shmchan/control"
	"github.com/momentics/shmchan/facade"
	"github.com/momentics/shmchan/shm"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("shmchan", flag.ExitOnError)
	var (
		mode       = fs.String("mode", "run", "run | produce | consume")
		configPath = fs.String("config", "", "optional config file (yaml)")
		capacity   = fs.Int("capacity", 8, "channel slot capacity")
		consumers  = fs.Int("consumers", 4, "number of consumer actors")
		useShm     = fs.Bool("shm", false, "back the channel with a shared memory segment")
		segment    = fs.String("segment", "", "segment name; generated in run mode when empty")
		count      = fs.Int64("count", 0, "items to produce; 0 = until interrupted")
		consumerID = fs.Int("id", 1, "consumer id in consume mode")
		fast       = fs.Bool("fast", false, "disable actor pacing delays")
	)
	fs.Parse(args)

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init:", err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := facade.DefaultConfig()
	cfg.Capacity = *capacity
	cfg.Consumers = *consumers
	cfg.SharedMemory = *useShm
	cfg.SegmentName = *segment
	cfg.ProduceCount = *count
	if *fast {
		cfg.ProduceDelayMax = 0
		cfg.ConsumeDelayMax = 0
	}
	if *configPath != "" {
		vals, err := control.LoadFile(*configPath)
		if err != nil {
			logger.Error("config load failed", zap.Error(err))
			return 1
		}
		applyConfig(cfg, vals)
	}

	switch *mode {
	case "run":
		return runAll(ctx, cfg, logger)
	case "produce":
		return runProducer(ctx, cfg, logger)
	case "consume":
		return runConsumer(ctx, cfg, *consumerID, logger)
	default:
		fmt.Fprintln(os.Stderr, "unknown mode:", *mode)
		return 2
	}
}

// runAll owns the whole lifecycle: allocate, spawn, join, tear down.
func runAll(ctx context.Context, cfg *facade.Config, logger *zap.Logger) int {
	app, err := facade.New(cfg, facade.WithLogger(logger))
	if err != nil {
		// The one fatal startup path: the shared region (or channel)
		// cannot be obtained.
		logger.Error("startup failed", zap.Error(err))
		return 1
	}
	defer app.Shutdown()

	if err := app.Run(ctx); err != nil {
		logger.Error("run failed", zap.Error(err))
		return 1
	}
	logger.Info("clean shutdown", zap.Any("stats", app.Control().Stats()))
	return 0
}

// runProducer attaches to an existing segment as a lone producer process.
func runProducer(ctx context.Context, cfg *facade.Config, logger *zap.Logger) int {
	if cfg.SegmentName == "" {
		fmt.Fprintln(os.Stderr, "produce mode requires -segment")
		return 2
	}
	ch, err := shm.Open[catalog.Product](cfg.SegmentName, catalog.ProductCodec{})
	if err != nil {
		logger.Error("segment attach failed", zap.Error(err))
		return 1
	}
	defer ch.Detach()

	src := catalog.NewRandomSource(ch, catalog.Default(), cfg.ProduceCount)
	producer := actors.NewProducer[catalog.Product](ch, src, pacer(cfg.ProduceDelayMin, cfg.ProduceDelayMax), logger)
	if err := producer.Run(ctx); err != nil && !errors.Is(err, api.ErrChannelClosed) {
		logger.Error("producer failed", zap.Error(err))
		return 1
	}
	return 0
}

// runConsumer attaches to an existing segment as a lone consumer process.
func runConsumer(ctx context.Context, cfg *facade.Config, id int, logger *zap.Logger) int {
	if cfg.SegmentName == "" {
		fmt.Fprintln(os.Stderr, "consume mode requires -segment")
		return 2
	}
	ch, err := shm.Open[catalog.Product](cfg.SegmentName, catalog.ProductCodec{})
	if err != nil {
		logger.Error("segment attach failed", zap.Error(err))
		return 1
	}
	defer ch.Detach()

	sink := actors.NewPrintSink[catalog.Product](logger)
	consumer := actors.NewConsumer[catalog.Product](id, ch, sink, pacer(cfg.ConsumeDelayMin, cfg.ConsumeDelayMax), logger)
	if err := consumer.Run(ctx); err != nil {
		logger.Error("consumer failed", zap.Error(err))
		return 1
	}
	return 0
}

func pacer(min, max time.Duration) api.Pacer {
	if max <= 0 {
		return actors.NopPacer{}
	}
	return &actors.RandomPacer{Min: min, Max: max}
}

// applyConfig overlays file values onto the flag-derived config.
func applyConfig(cfg *facade.Config, vals map[string]any) {
	for key, val := range vals {
		switch key {
		case "capacity":
			cfg.Capacity = cast.ToInt(val)
		case "consumers":
			cfg.Consumers = cast.ToInt(val)
		case "shared_memory":
			cfg.SharedMemory = cast.ToBool(val)
		case "segment_name":
			cfg.SegmentName = cast.ToString(val)
		case "produce_count":
			cfg.ProduceCount = cast.ToInt64(val)
		case "produce_delay_min":
			cfg.ProduceDelayMin = cast.ToDuration(val)
		case "produce_delay_max":
			cfg.ProduceDelayMax = cast.ToDuration(val)
		case "consume_delay_min":
			cfg.ConsumeDelayMin = cast.ToDuration(val)
		case "consume_delay_max":
			cfg.ConsumeDelayMax = cast.ToDuration(val)
		case "enable_metrics":
			cfg.EnableMetrics = cast.ToBool(val)
		case "enable_debug":
			cfg.EnableDebug = cast.ToBool(val)
		}
	}
}
