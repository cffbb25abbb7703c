// File: catalog/catalog.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package catalog

import (
	"context"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"github.com/valyala/fastrand"

	"github.com/momentics/shmchan/api"
)

// Entry is one product template in the demo catalog.
type Entry struct {
	Name  string
	Price decimal.Decimal
}

// Default returns the demo catalog.
func Default() []Entry {
	return []Entry{
		{Name: "iPhone 14 Pro Max", Price: decimal.NewFromInt(14000)},
		{Name: "Samsung Galaxy S23 5G", Price: decimal.NewFromInt(12000)},
		{Name: "Apple Watch S9 45mm GPS+CEL", Price: decimal.NewFromInt(7000)},
		{Name: "Samsung Galaxy Watch5 Pro 45mm LTE", Price: decimal.NewFromInt(6000)},
	}
}

// Ensure compile-time interface compliance.
var _ api.Source[Product] = (*RandomSource)(nil)

// RandomSource produces random catalog entries with ids drawn from a
// shared allocator, so every producer in the run yields unique ids.
type RandomSource struct {
	entries   []Entry
	alloc     api.IDAllocator
	remaining atomic.Int64
	unbounded bool
}

// NewRandomSource creates a source over the given entries. limit bounds
// the number of items produced; limit <= 0 means unbounded.
func NewRandomSource(alloc api.IDAllocator, entries []Entry, limit int64) *RandomSource {
	s := &RandomSource{
		entries:   entries,
		alloc:     alloc,
		unbounded: limit <= 0,
	}
	s.remaining.Store(limit)
	return s
}

// Next returns a random product, or api.EOF once the limit is exhausted.
func (s *RandomSource) Next(ctx context.Context) (Product, error) {
	if err := ctx.Err(); err != nil {
		return Product{}, err
	}
	if !s.unbounded && s.remaining.Add(-1) < 0 {
		return Product{}, api.EOF
	}
	e := s.entries[fastrand.Uint32n(uint32(len(s.entries)))]
	return New(s.alloc.NextID(), e.Name, e.Price), nil
}
