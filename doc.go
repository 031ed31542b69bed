// Package sthreads is a cooperative user-level thread scheduler.
//
// Green threads run one at a time on a single logical carrier and switch only
// at explicit suspension points: Spawn, Yield, Join, Done and Semaphore.Wait.
// Ready threads are dispatched in strict FIFO order.
//
// Basic usage:
//
//	s := sthreads.New()
//	if err := s.Init(); err != nil {
//		log.Fatal(err)
//	}
//	id, _ := s.Spawn(func() {
//		fmt.Println("hello from", s.Self())
//	})
//	s.Join(id)
//	s.Done()
//
// Package-level functions operate on a process-wide default scheduler for
// programs that need only one.
package sthreads
