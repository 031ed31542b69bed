package sthreads

import (
	"sync"

	"github.com/comalice/sthreads/internal/core"
	"github.com/comalice/sthreads/internal/primitives"
)

type (
	ThreadID       = primitives.ThreadID
	State          = primitives.State
	Cause          = primitives.Cause
	Config         = primitives.Config
	Transition     = primitives.Transition
	Scheduler      = core.Scheduler
	Semaphore      = core.Semaphore
	Option         = core.Option
	Snapshot       = core.Snapshot
	ThreadInfo     = core.ThreadInfo
	PanicError     = core.PanicError
	StackAllocator = core.StackAllocator
	ArenaAllocator = core.ArenaAllocator
	EventPublisher = core.EventPublisher
	Persister      = core.Persister
	Visualizer     = core.Visualizer
)

const (
	None   = primitives.None
	RootID = primitives.RootID

	Ready      = primitives.Ready
	Running    = primitives.Running
	Waiting    = primitives.Waiting
	Terminated = primitives.Terminated

	DefaultMaxThreads = primitives.DefaultMaxThreads
	DefaultStackSize  = primitives.DefaultStackSize
	MinStackSize      = primitives.MinStackSize
)

var (
	ErrResourceExhausted = core.ErrResourceExhausted
	ErrAllocationFailure = core.ErrAllocationFailure
	ErrInvalidID         = core.ErrInvalidID
	ErrNotInitialized    = core.ErrNotInitialized
	ErrNilEntry          = core.ErrNilEntry
	ErrDeadlock          = core.ErrDeadlock
	ErrDrained           = core.ErrDrained
	ErrPanicked          = core.ErrPanicked
)

var (
	New               = core.NewScheduler
	NewArenaAllocator = core.NewArenaAllocator
	DefaultConfig     = primitives.DefaultConfig
	LoadConfig        = primitives.LoadConfig
	ParseConfig       = primitives.ParseConfig

	WithConfig         = core.WithConfig
	WithMaxThreads     = core.WithMaxThreads
	WithStackSize      = core.WithStackSize
	WithStackLimit     = core.WithStackLimit
	WithReclaim        = core.WithReclaim
	WithStackAllocator = core.WithStackAllocator
	WithPublisher      = core.WithPublisher
	WithPersister      = core.WithPersister
	WithVisualizer     = core.WithVisualizer
	WithLogger         = core.WithLogger
)

var (
	defaultOnce sync.Once
	defaultSch  *Scheduler
)

// Default returns the process-wide scheduler used by the package-level
// functions. It is created with default options on first use.
func Default() *Scheduler {
	defaultOnce.Do(func() {
		defaultSch = New()
	})
	return defaultSch
}

// Init initializes the default scheduler with the caller as thread 0.
func Init() error { return Default().Init() }

// Spawn creates a thread on the default scheduler and runs it immediately.
func Spawn(entry func()) (ThreadID, error) { return Default().Spawn(entry) }

// Yield hands the carrier to the next ready thread of the default scheduler.
func Yield() { Default().Yield() }

// Done terminates the calling thread of the default scheduler.
func Done() { Default().Done() }

// Join waits for target to terminate on the default scheduler.
func Join(target ThreadID) (ThreadID, error) { return Default().Join(target) }

// Self returns the running thread of the default scheduler.
func Self() ThreadID { return Default().Self() }
