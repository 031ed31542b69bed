// Command rendezvous runs two goroutines that execute chunks of work in
// lock step: neither starts iteration i+1 before the other finished i.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/comalice/sthreads/psem"
)

func main() {
	loops := flag.Int("loops", 10, "iterations per worker")
	maxSleep := flag.Duration("max-sleep", 300*time.Millisecond, "upper bound of the random work time")
	flag.Parse()

	semA := psem.New(0)
	semB := psem.New(0)
	defer semA.Destroy()
	defer semB.Destroy()

	var wg sync.WaitGroup
	wg.Add(2)
	go worker(&wg, "A", *loops, *maxSleep, semA, semB)
	go worker(&wg, "B", *loops, *maxSleep, semB, semA)
	wg.Wait()
}

// worker announces its own progress on mine and waits for the peer on theirs.
func worker(wg *sync.WaitGroup, name string, loops int, maxSleep time.Duration, mine, theirs *psem.Semaphore) {
	defer wg.Done()
	for i := 0; i < loops; i++ {
		fmt.Printf("%s%d\n", name, i)
		if maxSleep > 0 {
			time.Sleep(rand.N(maxSleep))
		}
		mine.Signal()
		if err := theirs.Wait(); err != nil {
			log.Fatalf("%s: %v", name, err)
		}
	}
}
