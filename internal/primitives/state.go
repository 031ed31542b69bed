// State and identity primitives for green threads.
package primitives

import "strconv"

// ThreadID identifies a green thread within one scheduler.
type ThreadID int

// None is the "no thread" sentinel used by queue links and empty results.
const None ThreadID = -1

// RootID is the id of the thread captured by Init.
const RootID ThreadID = 0

func (id ThreadID) String() string {
	if id == None {
		return "none"
	}
	return "T" + strconv.Itoa(int(id))
}

// State is the scheduling state of a green thread.
type State string

const (
	// Ready means the thread sits in the ready queue and may be dispatched.
	Ready State = "ready"
	// Running means the thread holds the carrier. Exactly one thread is Running.
	Running State = "running"
	// Waiting means the thread is blocked in a join or on a semaphore.
	Waiting State = "waiting"
	// Terminated is final.
	Terminated State = "terminated"
)

// Valid reports whether s is one of the four scheduling states.
func (s State) Valid() bool {
	switch s {
	case Ready, Running, Waiting, Terminated:
		return true
	}
	return false
}

// Cause names the scheduler operation that produced a transition.
type Cause string

const (
	CauseInit   Cause = "init"
	CauseSpawn  Cause = "spawn"
	CauseYield  Cause = "yield"
	CauseDone   Cause = "done"
	CauseJoin   Cause = "join"
	CauseWake   Cause = "wake"
	CauseWait   Cause = "wait"
	CauseSignal Cause = "signal"
	CausePanic  Cause = "panic"
	CauseStall  Cause = "stall"
)
