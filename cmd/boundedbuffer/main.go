// Command boundedbuffer runs producers and consumers over a bounded buffer,
// either on goroutines (-mode os) or on cooperative threads (-mode green).
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"github.com/comalice/sthreads"
	"github.com/comalice/sthreads/boundedbuffer"
)

type tuple struct{ a, b int }

type params struct {
	producers, consumers, items, size int
	maxSleep                          time.Duration
}

func main() {
	mode := flag.String("mode", "green", "green or os")
	var p params
	flag.IntVar(&p.producers, "producers", 3, "number of producers")
	flag.IntVar(&p.consumers, "consumers", 3, "number of consumers")
	flag.IntVar(&p.items, "items", 5, "items per producer")
	flag.IntVar(&p.size, "size", 4, "buffer capacity")
	flag.DurationVar(&p.maxSleep, "max-sleep", 50*time.Millisecond, "random work time in os mode")
	flag.Parse()

	if p.producers*p.items%p.consumers != 0 {
		log.Fatalf("%d items cannot be split across %d consumers", p.producers*p.items, p.consumers)
	}

	var err error
	switch *mode {
	case "green":
		err = runGreen(p)
	case "os":
		err = runOS(p)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "boundedbuffer:", err)
		os.Exit(1)
	}
}

func runGreen(p params) error {
	s := sthreads.New(sthreads.WithMaxThreads(1 + p.producers + p.consumers))
	if err := s.Init(); err != nil {
		return err
	}
	buf, err := boundedbuffer.New[tuple](p.size, boundedbuffer.Green(s))
	if err != nil {
		return err
	}

	var ids []sthreads.ThreadID
	spawn := func(entry func()) error {
		id, err := s.Spawn(entry)
		if err != nil {
			return err
		}
		ids = append(ids, id)
		return nil
	}
	for i := 0; i < p.producers; i++ {
		if err := spawn(func() { produce(buf, i, p.items, s.Yield) }); err != nil {
			return err
		}
	}
	perConsumer := p.producers * p.items / p.consumers
	for i := 0; i < p.consumers; i++ {
		if err := spawn(func() { consume(buf, i, perConsumer, s.Yield) }); err != nil {
			return err
		}
	}
	for _, id := range ids {
		if _, err := s.Join(id); err != nil {
			return fmt.Errorf("join %s: %w", id, err)
		}
	}
	fmt.Printf("green: %d context switches\n", s.Switches())
	s.Done()
	return nil
}

func runOS(p params) error {
	buf, err := boundedbuffer.New[tuple](p.size, boundedbuffer.OS)
	if err != nil {
		return err
	}
	defer buf.Close()

	pause := func() {
		if p.maxSleep > 0 {
			time.Sleep(rand.N(p.maxSleep))
		}
	}
	var wg sync.WaitGroup
	for i := 0; i < p.producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			produce(buf, i, p.items, pause)
		}()
	}
	perConsumer := p.producers * p.items / p.consumers
	for i := 0; i < p.consumers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			consume(buf, i, perConsumer, pause)
		}()
	}
	wg.Wait()
	return nil
}

func produce(buf *boundedbuffer.Buffer[tuple], id, items int, pause func()) {
	for i := 0; i < items; i++ {
		if err := buf.Put(tuple{id, i}); err != nil {
			log.Printf("producer %d: %v", id, err)
			return
		}
		fmt.Printf("producer %d put (%d, %d), %d/%d buffered\n", id, id, i, buf.Len(), buf.Cap())
		pause()
	}
}

func consume(buf *boundedbuffer.Buffer[tuple], id, items int, pause func()) {
	for i := 0; i < items; i++ {
		v, err := buf.Get()
		if err != nil {
			log.Printf("consumer %d: %v", id, err)
			return
		}
		fmt.Printf("consumer %d got (%d, %d)\n", id, v.a, v.b)
		pause()
	}
}
