// Package core provides the cooperative scheduler runtime.
// Options for configuring Scheduler instances.
package core

import (
	"log"

	"github.com/comalice/sthreads/internal/primitives"
)

// WithConfig replaces the whole configuration.
func WithConfig(cfg primitives.Config) Option {
	return func(s *Scheduler) {
		s.config = cfg
	}
}

// WithMaxThreads sets the thread table capacity, thread 0 included.
func WithMaxThreads(n int) Option {
	return func(s *Scheduler) {
		s.config.MaxThreads = n
	}
}

// WithStackSize sets the per-thread stack buffer size.
func WithStackSize(size int) Option {
	return func(s *Scheduler) {
		s.config.StackSize = size
	}
}

// WithStackLimit caps the total bytes of stack held at once.
// Ignored when a custom StackAllocator is configured.
func WithStackLimit(limit int64) Option {
	return func(s *Scheduler) {
		s.config.StackLimit = limit
	}
}

// WithReclaim lets a full table reuse the slots of terminated threads.
// A reclaimed id still joins immediately and still reports the panic its
// thread ended with.
func WithReclaim(enabled bool) Option {
	return func(s *Scheduler) {
		s.config.Reclaim = enabled
	}
}

// WithStackAllocator configures the Scheduler with a custom StackAllocator.
func WithStackAllocator(a StackAllocator) Option {
	return func(s *Scheduler) {
		s.stacks = a
	}
}

// WithPublisher configures the Scheduler with a custom EventPublisher.
func WithPublisher(p EventPublisher) Option {
	return func(s *Scheduler) {
		s.publisher = p
	}
}

// WithPersister configures the Scheduler with a custom Persister.
func WithPersister(p Persister) Option {
	return func(s *Scheduler) {
		s.persister = p
	}
}

// WithVisualizer configures the Scheduler with a custom Visualizer.
func WithVisualizer(v Visualizer) Option {
	return func(s *Scheduler) {
		s.visualizer = v
	}
}

// WithLogger routes scheduler diagnostics (panics, stalls, drain) to l.
func WithLogger(l *log.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}
