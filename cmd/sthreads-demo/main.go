// Command sthreads-demo runs a handful of cooperative threads that print
// number sequences and take turns through Yield, then joins them.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/comalice/sthreads"
	"github.com/comalice/sthreads/internal/core"
	"github.com/comalice/sthreads/internal/extensibility"
	"github.com/comalice/sthreads/internal/production"
)

func main() {
	configPath := flag.String("config", "", "YAML scheduler config (defaults when empty)")
	snapshotDir := flag.String("snapshot-dir", "", "directory for the final snapshot (none when empty)")
	format := flag.String("format", "json", "snapshot format: json or yaml")
	dot := flag.Bool("dot", false, "print the thread graph in DOT before the final join")
	verbose := flag.Bool("v", false, "log every thread transition to stderr")
	magic := flag.Int("magic", 8, "number of magic constants to print")
	flag.Parse()

	cfg := sthreads.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = sthreads.LoadConfig(*configPath); err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	logger := log.New(os.Stderr, "sthreads-demo: ", log.Lmsgprefix)
	opts := []sthreads.Option{
		sthreads.WithConfig(cfg),
		sthreads.WithLogger(logger),
		sthreads.WithVisualizer(&production.DefaultVisualizer{}),
	}
	if *verbose {
		opts = append(opts, sthreads.WithPublisher(extensibility.NewLoggingPublisher(nil, logger)))
	}
	var persister pathPersister
	if *snapshotDir != "" {
		p, err := newPersister(*snapshotDir, *format)
		if err != nil {
			log.Fatalf("snapshot dir: %v", err)
		}
		persister = p
		opts = append(opts, sthreads.WithPersister(p))
	}

	s := sthreads.New(opts...)
	if err := s.Init(); err != nil {
		log.Fatalf("init: %v", err)
	}

	fmt.Println("\n==== Test program for the Simple Threads API ====")
	fmt.Println()

	thread1 := mustSpawn(s, func() { magicNumbers(s, *magic) })
	thread2 := mustSpawn(s, func() { numbers(s) })
	thread3 := mustSpawn(s, func() { letters(s) })

	mustJoin(s, thread2)
	fmt.Println("Thread2 done!")
	mustJoin(s, thread3)
	fmt.Println("Thread3 done!")
	if *dot {
		fmt.Print(s.Visualize())
	}
	mustJoin(s, thread1)
	fmt.Println("Thread1 done!")

	fmt.Printf("%d context switches\n", s.Switches())
	s.Done()

	if persister != nil {
		fmt.Println("snapshot:", persister.Path(s.ID().String()))
	}
}

type pathPersister interface {
	core.Persister
	Path(schedulerID string) string
}

func newPersister(dir, format string) (pathPersister, error) {
	switch format {
	case "json":
		return production.NewJSONPersister(dir)
	case "yaml":
		return production.NewYAMLPersister(dir)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func mustSpawn(s *sthreads.Scheduler, entry func()) sthreads.ThreadID {
	id, err := s.Spawn(entry)
	if err != nil {
		log.Fatalf("spawn: %v", err)
	}
	return id
}

func mustJoin(s *sthreads.Scheduler, id sthreads.ThreadID) {
	if _, err := s.Join(id); err != nil {
		log.Fatalf("join %s: %v", id, err)
	}
}

// numbers prints 0, 1, 2, ... and stops after 3.
func numbers(s *sthreads.Scheduler) {
	for n := 0; ; n++ {
		fmt.Printf(" n = %d\n", n)
		if n+1 > 3 {
			s.Done()
		}
		s.Yield()
	}
}

// letters prints a, b, c, ... and stops at f.
func letters(s *sthreads.Scheduler) {
	for c := 'a'; ; c++ {
		fmt.Printf(" c = %c\n", c)
		if c == 'f' {
			s.Done()
		}
		s.Yield()
	}
}

// magicNumbers prints the magic constants n(n²+1)/2 of n×n magic squares.
func magicNumbers(s *sthreads.Scheduler, count int) {
	for n := 3; n < 3+count; n++ {
		fmt.Printf(" magic(%d) = %d\n", n, n*(n*n+1)/2)
		s.Yield()
	}
}
