// Command mutex runs increment and decrement goroutines over one shared
// counter, once per synchronization strategy, and prints how each fared. A
// strategy succeeds when the counter ends at zero.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"text/tabwriter"
	"time"
)

type params struct {
	incThreads, incIterations, increment int
	decThreads, decrement                int
}

// decIterations balances the decrements against the increments.
func (p params) decIterations() int {
	return p.incIterations * p.incThreads * p.increment / p.decThreads / p.decrement
}

// strategy guards one update of the shared counter.
type strategy struct {
	name   string
	update func(c *counter, delta int)
}

type counter struct {
	value  int64
	mu     sync.Mutex
	locked atomic.Bool
	sum    atomic.Int64
}

func (c *counter) load() int64 {
	return c.value + c.sum.Load()
}

var strategies = []strategy{
	{"No synchronization", func(c *counter, d int) { c.value += int64(d) }},
	{"sync.Mutex", func(c *counter, d int) {
		c.mu.Lock()
		c.value += int64(d)
		c.mu.Unlock()
	}},
	{"Spinlock", func(c *counter, d int) {
		for !c.locked.CompareAndSwap(false, true) {
			runtime.Gosched()
		}
		c.value += int64(d)
		c.locked.Store(false)
	}},
	{"Atomic add/sub", func(c *counter, d int) { c.sum.Add(int64(d)) }},
}

type threadStat struct {
	kind    string
	runTime time.Duration
}

type result struct {
	name    string
	counter int64
	total   time.Duration
	average time.Duration
	threads []threadStat
}

func (r result) ok() bool { return r.counter == 0 }

func run(s strategy, p params) result {
	var c counter
	var wg sync.WaitGroup
	stats := make([]threadStat, p.incThreads+p.decThreads)

	start := func(i int, kind string, iterations, delta int) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			begin := time.Now()
			for j := 0; j < iterations; j++ {
				s.update(&c, delta)
			}
			stats[i] = threadStat{kind: kind, runTime: time.Since(begin)}
		}()
	}
	for i := 0; i < p.incThreads; i++ {
		start(i, "inc", p.incIterations, p.increment)
	}
	for i := 0; i < p.decThreads; i++ {
		start(p.incThreads+i, "dec", p.decIterations(), -p.decrement)
	}
	wg.Wait()

	r := result{name: s.name, counter: c.load(), threads: stats}
	for _, st := range stats {
		r.total += st.runTime
	}
	r.average = r.total / time.Duration(len(stats))
	return r
}

func main() {
	var p params
	flag.IntVar(&p.incThreads, "inc-threads", 5, "goroutines incrementing the counter")
	flag.IntVar(&p.incIterations, "inc-iterations", 20000, "iterations per incrementing goroutine")
	flag.IntVar(&p.increment, "increment", 2, "value added per iteration")
	flag.IntVar(&p.decThreads, "dec-threads", 4, "goroutines decrementing the counter")
	flag.IntVar(&p.decrement, "decrement", 2, "value subtracted per iteration")
	verbose := flag.Bool("v", false, "print per-goroutine statistics")
	flag.Parse()

	if p.incThreads < 1 || p.decThreads < 1 || p.increment < 1 || p.decrement < 1 {
		fmt.Fprintln(os.Stderr, "mutex: thread counts and deltas must be positive")
		os.Exit(2)
	}
	if p.incIterations*p.incThreads*p.increment%(p.decThreads*p.decrement) != 0 {
		fmt.Fprintln(os.Stderr, "mutex: decrements cannot balance the increments exactly")
		os.Exit(2)
	}

	var results []result
	for _, s := range strategies {
		r := run(s, p)
		fmt.Printf("=== %s: counter = %d (%s)\n", r.name, r.counter, outcome(r))
		if *verbose {
			printStats(r, p)
		}
		results = append(results, r)
	}
	printSummary(results)
}

func outcome(r result) string {
	if r.ok() {
		return "success"
	}
	return "failure"
}

func printStats(r result, p params) {
	fmt.Println("\nStatistics:")
	for i, st := range r.threads {
		iterations := p.incIterations
		if st.kind == "dec" {
			iterations = p.decIterations()
		}
		rate := float64(iterations) / st.runTime.Seconds()
		fmt.Printf("  goroutine %d (%s): %.4f sec (%.4e iterations/s)\n", i, st.kind, st.runTime.Seconds(), rate)
	}
	fmt.Printf("  average: %.4f s/goroutine\n\n", r.average.Seconds())
}

func printSummary(results []result) {
	fmt.Println("\nSUMMARY")
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 3, ' ', 0)
	fmt.Fprintln(w, "Test case\tCounter\tResult\tTotal run time (s)\tAverage per goroutine (s)")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%s\t%f\t%f\n", r.name, r.counter, outcome(r), r.total.Seconds(), r.average.Seconds())
	}
	w.Flush()
}
