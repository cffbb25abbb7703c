// File: channel/bounded_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Delivery-property suite for the in-process bounded channel: exactly-once
// delivery, FIFO order, backpressure, starvation freedom, and the size
// invariant under concurrency.

package channel

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/shmchan/api"
)

func TestNewBoundedRejectsDegenerateCapacity(t *testing.T) {
	_, err := NewBounded[int](0)
	require.ErrorIs(t, err, api.ErrInvalidCapacity)
	_, err = NewBounded[int](-3)
	require.ErrorIs(t, err, api.ErrInvalidCapacity)
}

// TestScenario is the reference walk-through: capacity 8, puts A,B,C taken
// back in order, then a full buffer where the ninth put blocks until one
// take frees a slot.
func TestScenario(t *testing.T) {
	ctx := context.Background()
	ch, err := NewBounded[string](8)
	require.NoError(t, err)

	for _, s := range []string{"A", "B", "C"} {
		require.NoError(t, ch.Put(ctx, s))
	}
	for _, want := range []string{"A", "B", "C"} {
		got, err := ch.Take(ctx)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	// Fill all 8 slots with the consumer paused.
	for i := 0; i < 8; i++ {
		require.NoError(t, ch.Put(ctx, "x"))
	}

	// The ninth put must not return while the buffer is full. The core
	// never returns spuriously, so a bounded wait has to time out.
	timeoutCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	err = ch.Put(timeoutCtx, "overflow")
	cancel()
	require.ErrorIs(t, err, api.ErrOperationTimeout)

	// One take frees a slot; the put now completes promptly.
	_, err = ch.Take(ctx)
	require.NoError(t, err)
	okCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, ch.Put(okCtx, "fits"))
}

func TestFIFOWithSingleConsumer(t *testing.T) {
	const n = 200
	ctx := context.Background()
	ch, err := NewBounded[int](8)
	require.NoError(t, err)

	go func() {
		for i := 0; i < n; i++ {
			if err := ch.Put(ctx, i); err != nil {
				return
			}
		}
	}()

	for i := 0; i < n; i++ {
		got, err := ch.Take(ctx)
		require.NoError(t, err)
		require.Equal(t, i, got, "single consumer must observe put order")
	}
}

// TestNoLossNoDuplication runs one producer against many consumers and
// checks every payload arrives exactly once.
func TestNoLossNoDuplication(t *testing.T) {
	const (
		n         = 1000
		consumers = 4
	)
	ctx := context.Background()
	ch, err := NewBounded[int](8)
	require.NoError(t, err)

	var mu sync.Mutex
	seen := make(map[int]int, n)
	var wg sync.WaitGroup
	for c := 0; c < consumers; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				v, err := ch.Take(ctx)
				if err != nil {
					return // closed and drained
				}
				mu.Lock()
				seen[v]++
				mu.Unlock()
			}
		}()
	}

	for i := 0; i < n; i++ {
		require.NoError(t, ch.Put(ctx, i))
	}
	require.NoError(t, ch.Close())
	wg.Wait()

	require.Len(t, seen, n)
	for i := 0; i < n; i++ {
		require.Equal(t, 1, seen[i], "payload %d", i)
	}
}

// TestStarvationFreeTake issues a take against an empty buffer and checks
// it completes as soon as a matching put lands.
func TestStarvationFreeTake(t *testing.T) {
	ctx := context.Background()
	ch, err := NewBounded[int](8)
	require.NoError(t, err)

	got := make(chan int, 1)
	go func() {
		v, err := ch.Take(ctx)
		if err == nil {
			got <- v
		}
	}()

	time.Sleep(20 * time.Millisecond) // let the take park first
	require.NoError(t, ch.Put(ctx, 7))

	select {
	case v := <-got:
		require.Equal(t, 7, v)
	case <-time.After(time.Second):
		t.Fatal("take did not complete after matching put")
	}
}

// TestAlternatingPair ping-pongs one item at a time between a producer and
// a consumer; any deadlock fails the test by timeout.
func TestAlternatingPair(t *testing.T) {
	const rounds = 500
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ch, err := NewBounded[int](1)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		for i := 0; i < rounds; i++ {
			if err := ch.Put(ctx, i); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	for i := 0; i < rounds; i++ {
		v, err := ch.Take(ctx)
		require.NoError(t, err)
		require.Equal(t, i, v)
	}
	require.NoError(t, <-done)
}

// TestSizeInvariantUnderConcurrency hammers the channel from several
// producers and consumers while sampling Len, which must stay within
// [0, capacity] at every observable instant.
func TestSizeInvariantUnderConcurrency(t *testing.T) {
	const capacity = 8
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := NewBounded[int](capacity)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for p := 0; p < 3; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; ; i++ {
				if err := ch.Put(ctx, i); err != nil {
					return
				}
			}
		}()
	}
	for c := 0; c < 3; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if _, err := ch.Take(ctx); err != nil {
					return
				}
			}
		}()
	}

	deadline := time.Now().Add(300 * time.Millisecond)
	for time.Now().Before(deadline) {
		n := ch.Len()
		assert.GreaterOrEqual(t, n, 0)
		assert.LessOrEqual(t, n, capacity)
	}
	cancel()
	wg.Wait()
}

func TestCloseSemantics(t *testing.T) {
	ctx := context.Background()
	ch, err := NewBounded[int](8)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, ch.Put(ctx, i))
	}
	require.NoError(t, ch.Close())
	require.NoError(t, ch.Close(), "close is idempotent")

	require.ErrorIs(t, ch.Put(ctx, 99), api.ErrChannelClosed)

	// Outstanding items drain in order, then the closed state surfaces.
	for i := 0; i < 3; i++ {
		v, err := ch.Take(ctx)
		require.NoError(t, err)
		require.Equal(t, i, v)
	}
	_, err = ch.Take(ctx)
	require.ErrorIs(t, err, api.ErrChannelClosed)
}

// TestCloseWakesBlockedActors parks a producer on a full buffer and a
// consumer on an empty one, then closes; both must unblock.
func TestCloseWakesBlockedActors(t *testing.T) {
	ctx := context.Background()

	full, err := NewBounded[int](1)
	require.NoError(t, err)
	require.NoError(t, full.Put(ctx, 1))
	putDone := make(chan error, 1)
	go func() { putDone <- full.Put(ctx, 2) }()

	empty, err := NewBounded[int](1)
	require.NoError(t, err)
	takeDone := make(chan error, 1)
	go func() {
		_, err := empty.Take(ctx)
		takeDone <- err
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, full.Close())
	require.NoError(t, empty.Close())

	select {
	case err := <-putDone:
		require.ErrorIs(t, err, api.ErrChannelClosed)
	case <-time.After(time.Second):
		t.Fatal("blocked put did not observe close")
	}
	select {
	case err := <-takeDone:
		require.ErrorIs(t, err, api.ErrChannelClosed)
	case <-time.After(time.Second):
		t.Fatal("blocked take did not observe close")
	}
}
