package core

import "github.com/comalice/sthreads/internal/primitives"

// queue is an intrusive FIFO of thread ids linked through tcb.next.
// The same type backs the ready queue and every wait-list, which keeps a
// thread in at most one of them at a time.
type queue struct {
	head, tail primitives.ThreadID
}

func newQueue() queue {
	return queue{head: primitives.None, tail: primitives.None}
}

func (q *queue) empty() bool {
	return q.head == primitives.None
}

// push appends id. O(1).
func (q *queue) push(t *table, id primitives.ThreadID) {
	t.mustGet(id).next = primitives.None
	if q.tail == primitives.None {
		q.head = id
	} else {
		t.mustGet(q.tail).next = id
	}
	q.tail = id
}

// pop unlinks and returns the head, or None. O(1).
func (q *queue) pop(t *table) primitives.ThreadID {
	id := q.head
	if id == primitives.None {
		return id
	}
	n := t.mustGet(id)
	q.head = n.next
	n.next = primitives.None
	if q.head == primitives.None {
		q.tail = primitives.None
	}
	return id
}

// ids lists the queue front to back.
func (q *queue) ids(t *table) []primitives.ThreadID {
	var out []primitives.ThreadID
	for id := q.head; id != primitives.None; id = t.mustGet(id).next {
		out = append(out, id)
	}
	return out
}
