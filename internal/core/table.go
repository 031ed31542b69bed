package core

import (
	"fmt"

	"github.com/comalice/sthreads/internal/primitives"
)

// tcb is a thread control block.
type tcb struct {
	id    primitives.ThreadID
	state primitives.State
	ctx   *execContext
	root  bool

	// next links the thread into the one queue it currently sits in:
	// the ready queue, a join wait-list or a semaphore wait-list.
	next primitives.ThreadID

	// joiners holds the threads blocked in Join on this thread.
	joiners queue

	// Valid only while Waiting.
	waitingOn primitives.ThreadID
	blockedIn *queue

	// err is the *PanicError of a thread whose entry panicked.
	err error
	// wakeErr is handed to a Waiting thread by whoever wakes it.
	wakeErr error
}

// table owns every TCB. Slots are allocated once so *tcb pointers stay valid.
type table struct {
	slots   []tcb
	used    int
	byID    map[primitives.ThreadID]int
	nextID  primitives.ThreadID
	reclaim bool

	// failed keeps the error of reclaimed threads that ended in a panic.
	failed map[primitives.ThreadID]error
}

func newTable(capacity int, reclaim bool) *table {
	return &table{
		slots:   make([]tcb, capacity),
		byID:    make(map[primitives.ThreadID]int, capacity),
		reclaim: reclaim,
		failed:  make(map[primitives.ThreadID]error),
	}
}

// reserve finds the slot the next thread will occupy without claiming it.
// With reclaim enabled a full table offers the slot of the oldest
// terminated thread.
func (t *table) reserve() (int, error) {
	if t.used < len(t.slots) {
		return t.used, nil
	}
	if t.reclaim {
		best := -1
		for i := range t.slots {
			s := &t.slots[i]
			if s.state != primitives.Terminated {
				continue
			}
			if best < 0 || s.id < t.slots[best].id {
				best = i
			}
		}
		if best >= 0 {
			return best, nil
		}
	}
	return -1, fmt.Errorf("%w: %d of %d slots in use", ErrResourceExhausted, len(t.slots), len(t.slots))
}

// claim binds slot i to a fresh id and returns the reset TCB.
func (t *table) claim(i int) *tcb {
	if i == t.used {
		t.used++
	} else {
		old := &t.slots[i]
		if old.err != nil {
			t.failed[old.id] = old.err
		}
		delete(t.byID, old.id)
	}
	id := t.nextID
	t.nextID++
	t.byID[id] = i
	t.slots[i] = tcb{
		id:        id,
		next:      primitives.None,
		joiners:   newQueue(),
		waitingOn: primitives.None,
	}
	return &t.slots[i]
}

// get returns the TCB for id. A known id whose slot was reclaimed yields
// errReclaimed.
func (t *table) get(id primitives.ThreadID) (*tcb, error) {
	if id < 0 || id >= t.nextID {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	i, ok := t.byID[id]
	if !ok {
		return nil, errReclaimed
	}
	return &t.slots[i], nil
}

// reclaimedErr returns the error a reclaimed thread terminated with.
func (t *table) reclaimedErr(id primitives.ThreadID) error {
	return t.failed[id]
}

// mustGet is for ids the scheduler itself put into a queue.
func (t *table) mustGet(id primitives.ThreadID) *tcb {
	return &t.slots[t.byID[id]]
}

// live returns the occupied slots in id order.
func (t *table) live() []*tcb {
	out := make([]*tcb, 0, t.used)
	for id := primitives.ThreadID(0); id < t.nextID; id++ {
		if i, ok := t.byID[id]; ok {
			out = append(out, &t.slots[i])
		}
	}
	return out
}
