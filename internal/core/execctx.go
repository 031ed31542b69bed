package core

// execContext is the saved execution state of one green thread.
//
// Each spawned thread runs on its own goroutine, so the Go runtime owns the
// real call stack and register file. What the scheduler saves is the right to
// run: a goroutine parked on its resume channel is suspended, and sending on
// that channel restores it. Exactly one goroutine per scheduler is not parked.
//
// The stack buffer is the memory region charged to the thread by the stack
// allocator. It is owned by exactly one TCB and handed back only when the
// slot is reclaimed.
type execContext struct {
	resume  chan struct{}
	start   func()
	stack   []byte
	started bool
}

// newRootContext wraps the calling goroutine. It is already running.
func newRootContext() *execContext {
	return &execContext{
		resume:  make(chan struct{}, 1),
		started: true,
	}
}

// newContext binds a stack buffer and a trampoline. start runs on the first
// activation and must end in the termination path.
func newContext(stack []byte, start func()) *execContext {
	return &execContext{
		resume: make(chan struct{}, 1),
		start:  start,
		stack:  stack,
	}
}

// activate resumes c, starting its goroutine on first use.
// The resume channel holds one token so that activating a context before its
// goroutine has parked is legal.
func (c *execContext) activate() {
	if !c.started {
		c.started = true
		go c.start()
		return
	}
	c.resume <- struct{}{}
}

// swtch saves the caller into from and resumes to. It returns once another
// thread switches back into from.
func swtch(from, to *execContext) {
	to.activate()
	<-from.resume
}

// exitTo resumes to without saving the caller. The caller must not touch
// scheduler state afterwards.
func exitTo(to *execContext) {
	to.activate()
}
