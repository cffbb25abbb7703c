// File: facade/options.go
// Package facade defines functional options for the ShmChan facade.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package facade

import (
	"go.uber.org/zap"

	"github.com/momentics/shmchan/api"
	"github.com/momentics/shmchan/catalog"
)

// Option customizes facade initialization.
type Option func(*ShmChan)

// WithLogger attaches a logger; default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *ShmChan) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSource overrides the default random catalog source.
func WithSource(src api.Source[catalog.Product]) Option {
	return func(s *ShmChan) {
		s.source = src
	}
}

// WithSink overrides the default logging sink.
func WithSink(sink api.Sink[catalog.Product]) Option {
	return func(s *ShmChan) {
		s.sink = sink
	}
}
