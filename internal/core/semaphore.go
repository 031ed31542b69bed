package core

import (
	"fmt"

	"github.com/comalice/sthreads/internal/primitives"
)

// Semaphore is a counting semaphore for the threads of one Scheduler.
// A blocked Wait parks only the calling green thread; the carrier moves on.
// Waiters are woken in FIFO order and a Signal hands its unit directly to
// the woken waiter.
type Semaphore struct {
	s       *Scheduler
	count   int
	waiters queue
}

// NewSemaphore creates a Semaphore with initial units. Negative values are
// treated as zero.
func (s *Scheduler) NewSemaphore(initial int) *Semaphore {
	return &Semaphore{
		s:       s,
		count:   max(initial, 0),
		waiters: newQueue(),
	}
}

// Wait takes one unit, blocking the calling thread while none is available.
// It fails with ErrDeadlock when blocking would leave no thread to run.
func (m *Semaphore) Wait() error {
	s := m.s
	if !s.initialized {
		return ErrNotInitialized
	}
	if m.count > 0 {
		m.count--
		return nil
	}
	cur := s.current()
	if s.ready.empty() {
		return fmt.Errorf("%w: %s waiting on a semaphore with no ready thread", ErrDeadlock, cur.id)
	}

	m.waiters.push(s.table, cur.id)
	cur.blockedIn = &m.waiters
	s.setState(cur, primitives.Waiting, primitives.CauseWait)
	s.switchTo(cur, s.popReady(), primitives.CauseWait)

	err := cur.wakeErr
	cur.wakeErr = nil
	return err
}

// Signal releases one unit. If a thread is waiting it becomes Ready and
// receives the unit; the caller keeps running.
func (m *Semaphore) Signal() {
	s := m.s
	if !s.initialized {
		return
	}
	if id := m.waiters.pop(s.table); id != primitives.None {
		w := s.table.mustGet(id)
		w.blockedIn = nil
		s.enqueue(w, primitives.CauseSignal)
		return
	}
	m.count++
}

// Value returns the available units.
func (m *Semaphore) Value() int {
	return m.count
}

// Waiting returns the number of threads blocked in Wait.
func (m *Semaphore) Waiting() int {
	if m.s.table == nil {
		return 0
	}
	return len(m.waiters.ids(m.s.table))
}
