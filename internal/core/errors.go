// Package core defines the error taxonomy of the scheduler.
package core

import (
	"errors"
	"fmt"

	"github.com/comalice/sthreads/internal/primitives"
)

var (
	ErrResourceExhausted = errors.New("thread table full")
	ErrAllocationFailure = errors.New("stack allocation failed")
	ErrInvalidID         = errors.New("invalid thread id")
	ErrNotInitialized    = errors.New("scheduler not initialized")
	ErrNilEntry          = errors.New("nil entry procedure")
	ErrDeadlock          = errors.New("deadlock: no thread can make progress")
	ErrDrained           = errors.New("scheduler drained")
	ErrPanicked          = errors.New("thread panicked")
)

// errReclaimed marks an id that was valid but whose slot has been reused.
// Such a thread is known to be terminated.
var errReclaimed = errors.New("thread slot reclaimed")

// PanicError records a panic that escaped a thread's entry procedure.
type PanicError struct {
	Thread primitives.ThreadID
	Value  any
	Stack  []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("thread %s panicked: %v", e.Thread, e.Value)
}

// Is matches ErrPanicked.
func (e *PanicError) Is(target error) bool {
	return target == ErrPanicked
}

// Unwrap exposes the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
