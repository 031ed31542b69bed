// Package benchmarks provides performance benchmarks for context switches.
package benchmarks

import (
	"testing"

	"github.com/comalice/sthreads/internal/core"
	"github.com/comalice/sthreads/internal/primitives"
)

func BenchmarkYield(b *testing.B) {
	s := core.NewScheduler()
	if err := s.Init(); err != nil {
		b.Fatal(err)
	}
	stop := false
	id, err := s.Spawn(func() {
		for !stop {
			s.Yield()
		}
	})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Yield()
	}
	b.StopTimer()

	stop = true
	if _, err := s.Join(id); err != nil {
		b.Fatal(err)
	}
	b.ReportMetric(float64(s.Switches())/float64(b.N), "switches/op")
}

func BenchmarkSpawnJoin(b *testing.B) {
	s := core.NewScheduler(
		core.WithMaxThreads(2),
		core.WithReclaim(true),
		core.WithStackSize(primitives.MinStackSize),
	)
	if err := s.Init(); err != nil {
		b.Fatal(err)
	}
	entry := func() {}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id, err := s.Spawn(entry)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := s.Join(id); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSemaphorePingPong(b *testing.B) {
	s := core.NewScheduler()
	if err := s.Init(); err != nil {
		b.Fatal(err)
	}
	ping, pong := s.NewSemaphore(0), s.NewSemaphore(0)
	n := b.N
	id, err := s.Spawn(func() {
		for i := 0; i < n; i++ {
			if err := ping.Wait(); err != nil {
				b.Error(err)
				return
			}
			pong.Signal()
		}
	})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < n; i++ {
		ping.Signal()
		if err := pong.Wait(); err != nil {
			b.Fatal(err)
		}
	}
	b.StopTimer()
	if _, err := s.Join(id); err != nil {
		b.Fatal(err)
	}
}
