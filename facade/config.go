// File: facade/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package facade

import "time"

// Config holds parameters immutable per run.
type Config struct {
	Capacity     int    // Channel slot capacity
	Consumers    int    // Number of consumer actors
	SharedMemory bool   // Back the channel with a shared segment
	SegmentName  string // Segment name; generated when empty
	ProduceCount int64  // Items to produce; <= 0 means until cancelled

	ProduceDelayMin time.Duration // Producer pacing lower bound
	ProduceDelayMax time.Duration // Producer pacing upper bound; 0 disables
	ConsumeDelayMin time.Duration // Consumer pacing lower bound
	ConsumeDelayMax time.Duration // Consumer pacing upper bound; 0 disables

	EnableMetrics bool // Register Prometheus collectors
	EnableDebug   bool // Register debug probes
}

// DefaultConfig returns the classic demo shape: capacity 8, one producer,
// four consumers, 1-3s produce pacing, 1-5s consume pacing.
func DefaultConfig() *Config {
	return &Config{
		Capacity:        8,
		Consumers:       4,
		SharedMemory:    false,
		ProduceCount:    0,
		ProduceDelayMin: 1 * time.Second,
		ProduceDelayMax: 3 * time.Second,
		ConsumeDelayMin: 1 * time.Second,
		ConsumeDelayMax: 5 * time.Second,
		EnableMetrics:   true,
		EnableDebug:     true,
	}
}
