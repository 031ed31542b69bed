// Package testutil provides helpers shared by the scheduler test suites.
package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/comalice/sthreads/internal/primitives"
)

// Recorder is an EventPublisher that keeps every transition in memory.
type Recorder struct {
	mu          sync.Mutex
	transitions []primitives.Transition
	closed      bool
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(ctx context.Context, tr primitives.Transition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errors.New("recorder closed")
	}
	r.transitions = append(r.transitions, tr)
	return nil
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Transitions returns a copy of everything recorded so far.
func (r *Recorder) Transitions() []primitives.Transition {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]primitives.Transition(nil), r.transitions...)
}

// Dispatches lists the threads that entered Running, in order.
func (r *Recorder) Dispatches() []primitives.ThreadID {
	var out []primitives.ThreadID
	for _, tr := range r.Transitions() {
		if tr.To == primitives.Running {
			out = append(out, tr.Thread)
		}
	}
	return out
}

// Of returns the transitions of one thread.
func (r *Recorder) Of(id primitives.ThreadID) []primitives.Transition {
	var out []primitives.Transition
	for _, tr := range r.Transitions() {
		if tr.Thread == id {
			out = append(out, tr)
		}
	}
	return out
}

// MaxRunning replays the log and returns the largest number of threads
// that were Running at the same time.
func (r *Recorder) MaxRunning() int {
	states := map[primitives.ThreadID]primitives.State{}
	peak := 0
	for _, tr := range r.Transitions() {
		states[tr.Thread] = tr.To
		n := 0
		for _, st := range states {
			if st == primitives.Running {
				n++
			}
		}
		peak = max(peak, n)
	}
	return peak
}

// Sequential reports whether sequence numbers increase by one with no gaps.
func (r *Recorder) Sequential() bool {
	for i, tr := range r.Transitions() {
		if tr.Seq != uint64(i+1) {
			return false
		}
	}
	return true
}
