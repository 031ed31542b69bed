package core

import (
	"context"
	"time"

	"github.com/comalice/sthreads/internal/primitives"
)

// Pluggable component interfaces. Implementations live in internal/production.

// EventPublisher receives every thread state change, in order, on the
// running thread. Publish must not block and must not call back into the
// scheduler.
type EventPublisher interface {
	Publish(ctx context.Context, transition primitives.Transition) error
	Close() error
}

type Persister interface {
	Save(ctx context.Context, snapshot Snapshot) error
	Load(ctx context.Context, schedulerID string) (Snapshot, error)
}

type Visualizer interface {
	ExportDOT(snapshot Snapshot) string
	ExportJSON(snapshot Snapshot) ([]byte, error)
}

// ThreadInfo is the serializable view of one TCB.
type ThreadInfo struct {
	ID        primitives.ThreadID   `json:"id" yaml:"id"`
	State     primitives.State      `json:"state" yaml:"state"`
	Root      bool                  `json:"root,omitempty" yaml:"root,omitempty"`
	WaitingOn primitives.ThreadID   `json:"waitingOn" yaml:"waitingOn"`
	Joiners   []primitives.ThreadID `json:"joiners,omitempty" yaml:"joiners,omitempty"`
	Panic     string                `json:"panic,omitempty" yaml:"panic,omitempty"`
}

// Snapshot is the serializable snapshot of scheduler state. Execution
// contexts are not part of it; a snapshot can be inspected, not resumed.
type Snapshot struct {
	SchedulerID string                `json:"schedulerID" yaml:"schedulerID"`
	Config      primitives.Config     `json:"config" yaml:"config"`
	Running     primitives.ThreadID   `json:"running" yaml:"running"`
	Ready       []primitives.ThreadID `json:"ready,omitempty" yaml:"ready,omitempty"`
	Threads     []ThreadInfo          `json:"threads" yaml:"threads"`
	Switches    uint64                `json:"switches" yaml:"switches"`
	Drained     bool                  `json:"drained,omitempty" yaml:"drained,omitempty"`
	Timestamp   time.Time             `json:"timestamp" yaml:"timestamp"`
}

// Thread returns the info for id, if present.
func (s Snapshot) Thread(id primitives.ThreadID) (ThreadInfo, bool) {
	for _, ti := range s.Threads {
		if ti.ID == id {
			return ti, true
		}
	}
	return ThreadInfo{}, false
}

// Count returns how many threads are in state st.
func (s Snapshot) Count(st primitives.State) int {
	n := 0
	for _, ti := range s.Threads {
		if ti.State == st {
			n++
		}
	}
	return n
}
