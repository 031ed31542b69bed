// Package boundedbuffer implements the classic producer/consumer bounded
// buffer on top of three counting semaphores.
//
// The semaphores come from a Factory, so one implementation serves both
// goroutines (psem) and the green threads of an sthreads scheduler.
package boundedbuffer

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/comalice/sthreads/internal/core"
	"github.com/comalice/sthreads/psem"
)

// Semaphore is the counting semaphore a Buffer synchronizes with.
type Semaphore interface {
	Wait() error
	Signal()
}

// Factory creates a Semaphore with initial units.
type Factory func(initial int) Semaphore

// ErrSize is returned by New for a size below one.
var ErrSize = errors.New("boundedbuffer: size must be at least 1")

// OS is a Factory of goroutine semaphores.
func OS(initial int) Semaphore {
	return psem.New(initial)
}

// Green returns a Factory of cooperative semaphores owned by s.
func Green(s *core.Scheduler) Factory {
	return func(initial int) Semaphore {
		return s.NewSemaphore(initial)
	}
}

// Buffer is a fixed-capacity FIFO. Put blocks while the buffer is full and
// Get blocks while it is empty.
type Buffer[T any] struct {
	slots   []T
	in, out int
	n       atomic.Int64

	mutex Semaphore
	data  Semaphore
	empty Semaphore
}

// New creates a Buffer holding up to size items.
func New[T any](size int, newSem Factory) (*Buffer[T], error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrSize, size)
	}
	if newSem == nil {
		newSem = OS
	}
	return &Buffer[T]{
		slots: make([]T, size),
		mutex: newSem(1),
		data:  newSem(0),
		empty: newSem(size),
	}, nil
}

// Put appends v, blocking while the buffer is full.
func (b *Buffer[T]) Put(v T) error {
	if err := b.empty.Wait(); err != nil {
		return fmt.Errorf("put: %w", err)
	}
	if err := b.mutex.Wait(); err != nil {
		b.empty.Signal()
		return fmt.Errorf("put: %w", err)
	}
	b.slots[b.in] = v
	b.in = (b.in + 1) % len(b.slots)
	b.n.Add(1)
	b.mutex.Signal()
	b.data.Signal()
	return nil
}

// Get removes the oldest item, blocking while the buffer is empty.
func (b *Buffer[T]) Get() (T, error) {
	var zero T
	if err := b.data.Wait(); err != nil {
		return zero, fmt.Errorf("get: %w", err)
	}
	if err := b.mutex.Wait(); err != nil {
		b.data.Signal()
		return zero, fmt.Errorf("get: %w", err)
	}
	v := b.slots[b.out]
	b.slots[b.out] = zero
	b.out = (b.out + 1) % len(b.slots)
	b.n.Add(-1)
	b.mutex.Signal()
	b.empty.Signal()
	return v, nil
}

// Len returns the number of buffered items.
func (b *Buffer[T]) Len() int {
	return int(b.n.Load())
}

// Cap returns the buffer capacity.
func (b *Buffer[T]) Cap() int {
	return len(b.slots)
}

// Close destroys the semaphores that support it, releasing blocked callers
// with an error.
func (b *Buffer[T]) Close() {
	for _, s := range []Semaphore{b.mutex, b.data, b.empty} {
		if d, ok := s.(interface{ Destroy() }); ok {
			d.Destroy()
		}
	}
}
