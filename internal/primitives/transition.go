// Transition is the immutable record of one thread state change.
//
// Transitions are value types. Publishers receive them by value and must
// not retain pointers into scheduler state.
package primitives

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Transition struct {
	SchedulerID uuid.UUID `json:"schedulerID" yaml:"schedulerID"`
	Seq         uint64    `json:"seq" yaml:"seq"`
	Thread      ThreadID  `json:"thread" yaml:"thread"`
	From        State     `json:"from,omitempty" yaml:"from,omitempty"` // empty for a freshly created thread
	To          State     `json:"to" yaml:"to"`
	Cause       Cause     `json:"cause" yaml:"cause"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
}

// NewTransition creates a Transition stamped with the current time.
func NewTransition(scheduler uuid.UUID, seq uint64, thread ThreadID, from, to State, cause Cause) Transition {
	return Transition{
		SchedulerID: scheduler,
		Seq:         seq,
		Thread:      thread,
		From:        from,
		To:          to,
		Cause:       cause,
		Timestamp:   time.Now(),
	}
}

func (t Transition) String() string {
	from := t.From
	if from == "" {
		from = "created"
	}
	return fmt.Sprintf("#%d %s %s -> %s (%s)", t.Seq, t.Thread, from, t.To, t.Cause)
}
