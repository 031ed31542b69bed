// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/comalice/sthreads/internal/core"
	"github.com/comalice/sthreads/internal/primitives"
)

// Crowd is a scheduler with n extra threads parked until Release.
type Crowd struct {
	S   *core.Scheduler
	IDs []primitives.ThreadID

	gate *core.Semaphore
}

// NewCrowd initializes a scheduler on the calling goroutine and spawns n
// threads blocked on one semaphore.
func NewCrowd(tb testing.TB, n int, opts ...core.Option) *Crowd {
	tb.Helper()
	opts = append([]core.Option{core.WithMaxThreads(n + 1), core.WithStackSize(primitives.MinStackSize)}, opts...)
	s := core.NewScheduler(opts...)
	if err := s.Init(); err != nil {
		tb.Fatal(err)
	}
	c := &Crowd{S: s, gate: s.NewSemaphore(0)}
	for i := 0; i < n; i++ {
		id, err := s.Spawn(func() {
			if err := c.gate.Wait(); err != nil {
				tb.Error(err)
			}
		})
		if err != nil {
			tb.Fatal(err)
		}
		c.IDs = append(c.IDs, id)
	}
	return c
}

// Release wakes every parked thread and joins them.
func (c *Crowd) Release(tb testing.TB) {
	tb.Helper()
	for range c.IDs {
		c.gate.Signal()
	}
	for _, id := range c.IDs {
		if _, err := c.S.Join(id); err != nil {
			tb.Fatal(err)
		}
	}
}

// GenSnapshotYAML generates YAML bytes for a snapshot with n parked threads.
func GenSnapshotYAML(tb testing.TB, n int) []byte {
	tb.Helper()
	c := NewCrowd(tb, n)
	defer c.Release(tb)
	data, err := yaml.Marshal(c.S.Snapshot())
	if err != nil {
		tb.Fatal(err)
	}
	return data
}
