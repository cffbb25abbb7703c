//go:build !linux

// File: shm/futex_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Non-Linux fallback: no futex, so semaphore waits degrade to bounded
// sleep-polling on the shared word. Correct but slower to wake; the Linux
// build is the intended deployment target.

package shm

import (
	"errors"
	"sync/atomic"
	"time"
)

var errFutexTimeout = errors.New("futex wait timed out")

// futexWait polls addr until it changes from val or the timeout elapses.
func futexWait(addr *uint32, val uint32, timeoutNs int64) error {
	const step = time.Millisecond
	deadline := time.Now().Add(time.Duration(timeoutNs))
	for atomic.LoadUint32(addr) == val {
		if timeoutNs > 0 && time.Now().After(deadline) {
			return errFutexTimeout
		}
		time.Sleep(step)
	}
	return nil
}

// futexWake is a no-op: pollers notice the changed word by themselves.
func futexWake(addr *uint32, n int) error {
	return nil
}
