// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics for channel monitoring: a thread-safe registry map for
// ad-hoc values plus Prometheus collectors for the channel hot path.

package control

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsRegistry holds mutable and read-only metrics.
type MetricsRegistry struct {
	mu      sync.RWMutex
	metrics map[string]any
	updated time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		metrics: make(map[string]any),
	}
}

// Set sets or updates a metric key.
func (mr *MetricsRegistry) Set(key string, value any) {
	mr.mu.Lock()
	mr.metrics[key] = value
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// GetSnapshot returns the latest metrics.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]any, len(mr.metrics))
	for k, v := range mr.metrics {
		out[k] = v
	}
	return out
}

// ChannelMetrics carries the Prometheus collectors for one channel.
type ChannelMetrics struct {
	PutsTotal        prometheus.Counter
	TakesTotal       prometheus.Counter
	PutBlockSeconds  prometheus.Histogram
	TakeBlockSeconds prometheus.Histogram
	Occupancy        prometheus.GaugeFunc
}

// NewChannelMetrics registers channel collectors with reg. lenFn reports
// current occupancy for the gauge.
func NewChannelMetrics(reg prometheus.Registerer, lenFn func() int) *ChannelMetrics {
	m := &ChannelMetrics{
		PutsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shmchan",
			Name:      "puts_total",
			Help:      "Items placed into the channel.",
		}),
		TakesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shmchan",
			Name:      "takes_total",
			Help:      "Items taken from the channel.",
		}),
		PutBlockSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shmchan",
			Name:      "put_block_seconds",
			Help:      "Time Put spent blocked, including backpressure waits.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 10, 8),
		}),
		TakeBlockSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shmchan",
			Name:      "take_block_seconds",
			Help:      "Time Take spent blocked waiting for items.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 10, 8),
		}),
		Occupancy: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "shmchan",
			Name:      "occupancy",
			Help:      "Items currently buffered.",
		}, func() float64 { return float64(lenFn()) }),
	}
	reg.MustRegister(m.PutsTotal, m.TakesTotal, m.PutBlockSeconds, m.TakeBlockSeconds, m.Occupancy)
	return m
}
