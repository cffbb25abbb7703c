// File: internal/concurrency/semaphore_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/momentics/shmchan/api"
)

func TestSemaphoreCounts(t *testing.T) {
	s, err := NewSemaphore(3, 2)
	require.NoError(t, err)

	require.True(t, s.TryAcquire())
	require.True(t, s.TryAcquire())
	require.False(t, s.TryAcquire(), "count exhausted")

	s.Release()
	require.True(t, s.TryAcquire())
}

func TestSemaphoreRejectsBadShape(t *testing.T) {
	for _, tc := range []struct{ capacity, initial int }{
		{0, 0}, {-1, 0}, {2, -1}, {2, 3},
	} {
		_, err := NewSemaphore(tc.capacity, tc.initial)
		require.ErrorIs(t, err, api.ErrInvalidCapacity, "capacity=%d initial=%d", tc.capacity, tc.initial)
	}
}

func TestSemaphoreAcquireBlocksUntilRelease(t *testing.T) {
	s, err := NewSemaphore(1, 0)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		require.NoError(t, s.Acquire(context.Background()))
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("acquire returned before release")
	case <-time.After(50 * time.Millisecond):
	}

	s.Release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("acquire did not observe release")
	}
}

func TestSemaphoreDeadlineMapsToTimeout(t *testing.T) {
	s, err := NewSemaphore(1, 0)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = s.Acquire(ctx)
	require.ErrorIs(t, err, api.ErrOperationTimeout)
}

func TestSemaphoreCancelUnblocks(t *testing.T) {
	s, err := NewSemaphore(1, 0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Acquire(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("acquire did not observe cancellation")
	}
}

func TestSemaphoreAsMutex(t *testing.T) {
	mutex, err := NewSemaphore(1, 1)
	require.NoError(t, err)

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				require.NoError(t, mutex.Acquire(context.Background()))
				counter++
				mutex.Release()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 8000, counter)
}
