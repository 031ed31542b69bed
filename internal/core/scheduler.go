// Package core provides the runtime core of the cooperative thread scheduler.
// This includes execution contexts, the thread table, the ready queue, join
// wait-lists and the transition logic that drives thread states.
//
// Exactly one green thread of a Scheduler runs at any instant. All scheduler
// state is touched only by that thread, between suspension points, so the
// core holds no locks.
//
//go:generate go test ./... -race
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/comalice/sthreads/internal/primitives"
)

// Option applies configuration to Scheduler via functional options pattern.
type Option func(*Scheduler)

// Scheduler multiplexes green threads onto one logical carrier.
// Not safe for use from goroutines other than its own threads.
type Scheduler struct {
	id     uuid.UUID
	config primitives.Config

	table   *table
	ready   queue
	running primitives.ThreadID

	initialized bool
	drained     bool
	drainedCh   chan struct{}

	switches uint64
	seq      uint64

	// Pluggable components (nil = none)
	stacks     StackAllocator
	publisher  EventPublisher
	persister  Persister
	visualizer Visualizer
	logger     *log.Logger
}

// NewScheduler creates a Scheduler. Nothing is allocated until Init.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		id:        uuid.New(),
		config:    primitives.DefaultConfig(),
		ready:     newQueue(),
		running:   primitives.None,
		drainedCh: make(chan struct{}),
		logger:    log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init validates the configuration and captures the calling goroutine as
// thread 0 in state Running.
// Idempotent: later calls are no-op successes.
func (s *Scheduler) Init() error {
	if s.initialized {
		return nil
	}
	if err := s.config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if s.stacks == nil {
		s.stacks = NewArenaAllocator(s.config.StackLimit)
	}
	s.table = newTable(s.config.MaxThreads, s.config.Reclaim)

	i, err := s.table.reserve()
	if err != nil {
		return err
	}
	root := s.table.claim(i)
	root.root = true
	root.ctx = newRootContext()
	s.running = root.id
	s.initialized = true
	s.setState(root, primitives.Running, primitives.CauseInit)
	return nil
}

// Spawn creates a thread running entry and switches to it immediately.
// Spawn returns to the caller once the caller is dispatched again.
// A failed Spawn leaves every existing thread untouched.
func (s *Scheduler) Spawn(entry func()) (primitives.ThreadID, error) {
	if !s.initialized {
		return primitives.None, ErrNotInitialized
	}
	if s.drained {
		return primitives.None, ErrDrained
	}
	if entry == nil {
		return primitives.None, ErrNilEntry
	}

	i, err := s.table.reserve()
	if err != nil {
		return primitives.None, err
	}
	if old := s.table.slots[i].ctx; old != nil && old.stack != nil {
		s.stacks.Release(old.stack)
		old.stack = nil
	}
	stack, err := s.stacks.Allocate(s.config.StackSize)
	if err != nil {
		if !errors.Is(err, ErrAllocationFailure) {
			err = fmt.Errorf("%w: %w", ErrAllocationFailure, err)
		}
		return primitives.None, err
	}

	t := s.table.claim(i)
	t.ctx = newContext(stack, func() { s.run(t, entry) })

	caller := s.current()
	s.enqueue(caller, primitives.CauseSpawn)
	s.switchTo(caller, t, primitives.CauseSpawn)
	return t.id, nil
}

// Yield re-enqueues the caller and dispatches the head of the ready queue.
// A caller that is the only runnable thread keeps running.
func (s *Scheduler) Yield() {
	if !s.initialized || s.drained {
		return
	}
	cur := s.current()
	s.enqueue(cur, primitives.CauseYield)
	next := s.popReady()
	if next == cur {
		s.setState(cur, primitives.Running, primitives.CauseYield)
		return
	}
	s.switchTo(cur, next, primitives.CauseYield)
}

// Done terminates the calling thread.
//
// On a spawned thread Done never returns: the thread's deferred calls run and
// its goroutine exits. On thread 0 Done parks until the scheduler is drained
// and then returns, so main can exit normally.
func (s *Scheduler) Done() {
	if !s.initialized || s.drained {
		return
	}
	cur := s.current()
	if cur.root {
		s.terminate(cur, primitives.CauseDone)
		<-s.drainedCh
		return
	}
	runtime.Goexit()
}

// Join blocks until target is terminated and returns target.
// Joining a terminated thread returns immediately without a switch.
// If target panicked the returned error wraps ErrPanicked.
func (s *Scheduler) Join(target primitives.ThreadID) (primitives.ThreadID, error) {
	if !s.initialized {
		return primitives.None, ErrNotInitialized
	}
	u, err := s.table.get(target)
	if errors.Is(err, errReclaimed) {
		return target, s.table.reclaimedErr(target)
	}
	if err != nil {
		return primitives.None, err
	}
	if u.state == primitives.Terminated {
		return target, u.err
	}

	cur := s.current()
	if s.joinCycle(cur, u) {
		return primitives.None, fmt.Errorf("%w: %s joining %s", ErrDeadlock, cur.id, target)
	}
	if s.ready.empty() {
		return primitives.None, fmt.Errorf("%w: %s joining %s with no ready thread", ErrDeadlock, cur.id, target)
	}

	u.joiners.push(s.table, cur.id)
	cur.waitingOn = target
	cur.blockedIn = &u.joiners
	s.setState(cur, primitives.Waiting, primitives.CauseJoin)
	s.switchTo(cur, s.popReady(), primitives.CauseJoin)

	err = cur.wakeErr
	cur.wakeErr = nil
	if errors.Is(err, ErrDeadlock) {
		return primitives.None, err
	}
	return target, err
}

// joinCycle reports whether cur waiting on u would close a cycle of joins.
func (s *Scheduler) joinCycle(cur, u *tcb) bool {
	for w := u; ; {
		if w == cur {
			return true
		}
		if w.state != primitives.Waiting || w.waitingOn == primitives.None {
			return false
		}
		next, err := s.table.get(w.waitingOn)
		if err != nil {
			return false
		}
		w = next
	}
}

// run is the trampoline every spawned thread starts in. A normal return, a
// Done call and a panic all end in terminate.
func (s *Scheduler) run(t *tcb, entry func()) {
	cause := primitives.CauseDone
	defer func() {
		if r := recover(); r != nil {
			t.err = &PanicError{Thread: t.id, Value: r, Stack: debug.Stack()}
			cause = primitives.CausePanic
			s.logger.Printf("sthreads: thread %s panicked: %v", t.id, r)
		}
		s.terminate(t, cause)
	}()
	entry()
}

// terminate moves t to Terminated, wakes its joiners in join order and hands
// the carrier to the next ready thread. It does not park the caller.
func (s *Scheduler) terminate(t *tcb, cause primitives.Cause) {
	s.setState(t, primitives.Terminated, cause)
	for id := t.joiners.pop(s.table); id != primitives.None; id = t.joiners.pop(s.table) {
		w := s.table.mustGet(id)
		w.waitingOn = primitives.None
		w.blockedIn = nil
		w.wakeErr = t.err
		s.enqueue(w, primitives.CauseWake)
	}

	next := s.popReady()
	if next == nil && s.stall() {
		next = s.popReady()
	}
	if next == nil {
		s.drain()
		return
	}
	s.running = next.id
	s.setState(next, primitives.Running, cause)
	s.switches++
	exitTo(next.ctx)
}

// stall wakes every Waiting thread with ErrDeadlock. It is called when the
// running thread terminates with nothing ready, which means no waiter can
// ever be woken otherwise. Reports whether any thread was woken.
func (s *Scheduler) stall() bool {
	var stuck []*tcb
	for _, w := range s.table.live() {
		if w.state == primitives.Waiting {
			stuck = append(stuck, w)
		}
	}
	if len(stuck) == 0 {
		return false
	}
	s.logger.Printf("sthreads: deadlock, waking %d waiting threads", len(stuck))
	for _, w := range stuck {
		if w.blockedIn != nil {
			*w.blockedIn = newQueue()
		}
		w.blockedIn = nil
		w.waitingOn = primitives.None
		w.wakeErr = ErrDeadlock
		s.enqueue(w, primitives.CauseStall)
	}
	return true
}

// drain marks the scheduler finished once every thread has terminated.
func (s *Scheduler) drain() {
	s.drained = true
	s.running = primitives.None
	s.logger.Printf("sthreads: scheduler %s drained after %d switches", s.id, s.switches)
	if s.persister != nil {
		if err := s.persister.Save(context.Background(), s.Snapshot()); err != nil {
			s.logger.Printf("sthreads: final snapshot: %v", err)
		}
	}
	close(s.drainedCh)
}

// switchTo dispatches to and parks from until from is dispatched again.
// running is updated before the switch.
func (s *Scheduler) switchTo(from, to *tcb, cause primitives.Cause) {
	s.running = to.id
	s.setState(to, primitives.Running, cause)
	s.switches++
	swtch(from.ctx, to.ctx)
}

// enqueue appends t to the ready queue and marks it Ready.
func (s *Scheduler) enqueue(t *tcb, cause primitives.Cause) {
	s.ready.push(s.table, t.id)
	s.setState(t, primitives.Ready, cause)
}

// popReady returns the head of the ready queue, or nil.
func (s *Scheduler) popReady() *tcb {
	id := s.ready.pop(s.table)
	if id == primitives.None {
		return nil
	}
	return s.table.mustGet(id)
}

func (s *Scheduler) current() *tcb {
	return s.table.mustGet(s.running)
}

func (s *Scheduler) setState(t *tcb, to primitives.State, cause primitives.Cause) {
	from := t.state
	t.state = to
	s.seq++
	if s.publisher == nil {
		return
	}
	tr := primitives.NewTransition(s.id, s.seq, t.id, from, to, cause)
	if err := s.publisher.Publish(context.Background(), tr); err != nil {
		s.logger.Printf("sthreads: publish %s: %v", tr, err)
	}
}

// ID returns the scheduler's unique identity.
func (s *Scheduler) ID() uuid.UUID {
	return s.id
}

// Config returns the scheduler's configuration.
func (s *Scheduler) Config() primitives.Config {
	return s.config
}

// Self returns the id of the running thread, or None before Init and after
// the scheduler drained.
func (s *Scheduler) Self() primitives.ThreadID {
	return s.running
}

// State returns the state of id. Reclaimed ids report Terminated.
func (s *Scheduler) State(id primitives.ThreadID) (primitives.State, error) {
	if !s.initialized {
		return "", ErrNotInitialized
	}
	t, err := s.table.get(id)
	if errors.Is(err, errReclaimed) {
		return primitives.Terminated, nil
	}
	if err != nil {
		return "", err
	}
	return t.state, nil
}

// Stack returns the stack buffer owned by the running thread.
// Thread 0 runs on the caller's own stack and owns no buffer.
func (s *Scheduler) Stack() []byte {
	if !s.initialized || s.drained {
		return nil
	}
	return s.current().ctx.stack
}

// Switches returns the number of context switches performed so far.
func (s *Scheduler) Switches() uint64 {
	return s.switches
}

// Drained is closed once every thread has terminated.
func (s *Scheduler) Drained() <-chan struct{} {
	return s.drainedCh
}

// Snapshot captures the current scheduler state.
func (s *Scheduler) Snapshot() Snapshot {
	snap := Snapshot{
		SchedulerID: s.id.String(),
		Config:      s.config,
		Running:     s.running,
		Switches:    s.switches,
		Drained:     s.drained,
		Timestamp:   time.Now(),
	}
	if !s.initialized {
		return snap
	}
	snap.Ready = s.ready.ids(s.table)
	for _, t := range s.table.live() {
		ti := ThreadInfo{
			ID:        t.id,
			State:     t.state,
			Root:      t.root,
			WaitingOn: t.waitingOn,
			Joiners:   t.joiners.ids(s.table),
		}
		if t.err != nil {
			ti.Panic = t.err.Error()
		}
		snap.Threads = append(snap.Threads, ti)
	}
	return snap
}

// Checkpoint saves a snapshot through the configured Persister.
func (s *Scheduler) Checkpoint(ctx context.Context) error {
	if s.persister == nil {
		return errors.New("no persister configured, use WithPersister")
	}
	if err := s.persister.Save(ctx, s.Snapshot()); err != nil {
		return fmt.Errorf("checkpoint %s: %w", s.id, err)
	}
	return nil
}

// Visualize returns the Graphviz DOT rendering of the current state.
func (s *Scheduler) Visualize() string {
	if s.visualizer == nil {
		return "ERROR: No visualizer configured. Use WithVisualizer(&production.DefaultVisualizer{})"
	}
	return s.visualizer.ExportDOT(s.Snapshot())
}
