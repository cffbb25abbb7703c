// File: internal/concurrency/ring_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momentics/shmchan/api"
)

func TestRingRejectsDegenerateCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1, -8} {
		_, err := NewRing[int](capacity)
		require.ErrorIs(t, err, api.ErrInvalidCapacity, "capacity %d", capacity)
	}
}

func TestRingWriteReadWrapAround(t *testing.T) {
	r, err := NewRing[int](3)
	require.NoError(t, err)

	// Two full laps around the buffer exercise the modulo arithmetic.
	for lap := 0; lap < 2; lap++ {
		for i := 0; i < 3; i++ {
			require.NoError(t, r.Write(lap*10+i))
		}
		require.Equal(t, 3, r.Len())
		for i := 0; i < 3; i++ {
			got, err := r.Read()
			require.NoError(t, err)
			require.Equal(t, lap*10+i, got)
		}
		require.Equal(t, 0, r.Len())
	}
}

func TestRingCapacityExceeded(t *testing.T) {
	r, err := NewRing[string](2)
	require.NoError(t, err)
	require.NoError(t, r.Write("a"))
	require.NoError(t, r.Write("b"))
	require.ErrorIs(t, r.Write("c"), api.ErrCapacityExceeded)

	// The failed write must not have disturbed contents.
	got, err := r.Read()
	require.NoError(t, err)
	require.Equal(t, "a", got)
}

func TestRingUnderflow(t *testing.T) {
	r, err := NewRing[int](4)
	require.NoError(t, err)
	_, err = r.Read()
	require.ErrorIs(t, err, api.ErrUnderflow)
}

// TestRingPropertyBased performs randomized operations checking the size
// invariant 0 <= size <= capacity at every step.
func TestRingPropertyBased(t *testing.T) {
	const capacity = 8
	rng := rand.New(rand.NewSource(42))
	r, err := NewRing[int](capacity)
	require.NoError(t, err)

	size := 0
	for i := 0; i < 5000; i++ {
		if rng.Intn(2) == 0 {
			if err := r.Write(i); err == nil {
				size++
			} else {
				require.Equal(t, capacity, size)
			}
		} else {
			if _, err := r.Read(); err == nil {
				size--
			} else {
				require.Equal(t, 0, size)
			}
		}
		require.Equal(t, size, r.Len())
		require.GreaterOrEqual(t, r.Len(), 0)
		require.LessOrEqual(t, r.Len(), capacity)
	}
}
