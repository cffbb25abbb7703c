// File: shm/sem.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Counting semaphore over a single 32-bit word in the shared segment.
// Acquire is a CAS-decrement loop; waiters sleep on the word via futex in
// bounded slices so context cancellation stays responsive even while the
// peer process is silent.

package shm

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/momentics/shmchan/api"
	"github.com/momentics/shmchan/internal/concurrency"
)

// semPollInterval bounds each kernel wait.
const semPollInterval = 100 * time.Millisecond

// futexSem is a cross-process counting semaphore.
type futexSem struct {
	word *uint32
}

// acquire decrements the count, blocking while it is zero.
func (s *futexSem) acquire(ctx context.Context) error {
	for {
		for {
			v := atomic.LoadUint32(s.word)
			if v == 0 {
				break
			}
			if atomic.CompareAndSwapUint32(s.word, v, v-1) {
				return nil
			}
		}
		if ctx.Err() != nil {
			return concurrency.CtxErr(ctx)
		}
		wait := semPollInterval
		if deadline, ok := ctx.Deadline(); ok {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return fmt.Errorf("%w: deadline reached", api.ErrOperationTimeout)
			}
			if remaining < wait {
				wait = remaining
			}
		}
		if err := futexWait(s.word, 0, wait.Nanoseconds()); err != nil && !errors.Is(err, errFutexTimeout) {
			return err
		}
	}
}

// tryAcquire attempts one non-blocking decrement.
func (s *futexSem) tryAcquire() bool {
	for {
		v := atomic.LoadUint32(s.word)
		if v == 0 {
			return false
		}
		if atomic.CompareAndSwapUint32(s.word, v, v-1) {
			return true
		}
	}
}

// release increments the count and wakes one waiter.
func (s *futexSem) release() {
	atomic.AddUint32(s.word, 1)
	// Wake failure is not actionable: waiters poll in bounded slices anyway.
	_ = futexWake(s.word, 1)
}

// releaseAll increments the count and wakes every waiter, used when the
// channel closes and all blocked actors must observe the flag.
func (s *futexSem) releaseAll() {
	atomic.AddUint32(s.word, 1)
	_ = futexWake(s.word, 1<<30)
}
