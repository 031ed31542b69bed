// Package psem provides a counting semaphore for goroutines.
//
// Unlike the cooperative sthreads Semaphore, a psem Semaphore blocks the
// calling goroutine and is safe for concurrent use.
package psem

import (
	"errors"
	"sync"
)

// ErrDestroyed is returned by Wait on a destroyed semaphore.
var ErrDestroyed = errors.New("psem: semaphore destroyed")

// Semaphore is a counting semaphore built on a mutex and a condition
// variable.
type Semaphore struct {
	mu        sync.Mutex
	cond      *sync.Cond
	value     int
	destroyed bool
}

// New creates a Semaphore with initial units. Negative values are treated
// as zero.
func New(initial int) *Semaphore {
	s := &Semaphore{value: max(initial, 0)}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Wait blocks until a unit is available and takes it.
func (s *Semaphore) Wait() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.value == 0 && !s.destroyed {
		s.cond.Wait()
	}
	if s.destroyed {
		return ErrDestroyed
	}
	s.value--
	return nil
}

// TryWait takes a unit if one is available without blocking.
func (s *Semaphore) TryWait() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed || s.value == 0 {
		return false
	}
	s.value--
	return true
}

// Signal releases one unit and wakes one waiter.
func (s *Semaphore) Signal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return
	}
	s.value++
	s.cond.Signal()
}

// Value returns the available units.
func (s *Semaphore) Value() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Destroy releases every waiter with ErrDestroyed. Later Waits fail the
// same way and Signals are ignored.
func (s *Semaphore) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyed = true
	s.cond.Broadcast()
}
