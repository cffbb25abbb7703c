//go:build linux

// File: shm/futex_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Futex wait/wake over words living in a MAP_SHARED mapping. The shared
// (non-PRIVATE) futex ops are required here: waiters and wakers may be
// different processes mapping the same file.

package shm

import (
	"errors"
	"fmt"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Shared (non-PRIVATE) futex operation codes from the Linux ABI; x/sys/unix
// does not export these.
const (
	futexOpWait = 0 // FUTEX_WAIT
	futexOpWake = 1 // FUTEX_WAKE
)

// errFutexTimeout reports an expired bounded wait.
var errFutexTimeout = errors.New("futex wait timed out")

// futexWait blocks until the value at addr changes from val, the word is
// woken, or timeoutNs elapses (timeoutNs <= 0 waits indefinitely).
//
// Callers must re-check their logical condition after return: wake-ups can
// be spurious.
func futexWait(addr *uint32, val uint32, timeoutNs int64) error {
	// Re-check atomically before entering the syscall. This closes the
	// lost-wake race between snapshotting the value and sleeping on it.
	if atomic.LoadUint32(addr) != val {
		return nil
	}

	var tsPtr unsafe.Pointer
	if timeoutNs > 0 {
		ts := unix.NsecToTimespec(timeoutNs)
		tsPtr = unsafe.Pointer(&ts)
	}

	_, _, errno := unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(futexOpWait),
		uintptr(val),
		uintptr(tsPtr),
		0,
		0,
	)
	switch errno {
	case 0:
		return nil
	case unix.EAGAIN:
		// Value no longer matched; condition may already hold.
		return nil
	case unix.EINTR:
		// Interrupted by a signal; caller re-checks and retries.
		return nil
	case unix.ETIMEDOUT:
		return errFutexTimeout
	default:
		return fmt.Errorf("futex wait failed: %w", errno)
	}
}

// futexWake wakes up to n waiters sleeping on addr.
func futexWake(addr *uint32, n int) error {
	_, _, errno := unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(futexOpWake),
		uintptr(n),
		0,
		0,
		0,
	)
	if errno != 0 {
		return fmt.Errorf("futex wake failed: %w", errno)
	}
	return nil
}
