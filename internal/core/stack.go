package core

import (
	"fmt"
	"sync"
)

// StackAllocator hands out the stack buffers owned by spawned threads.
type StackAllocator interface {
	Allocate(size int) ([]byte, error)
	Release(stack []byte)
}

// ArenaAllocator keeps released stacks for reuse and enforces an optional
// budget on the bytes held by live stacks. A zero limit means unlimited.
// Safe for concurrent use so one arena can back several schedulers.
type ArenaAllocator struct {
	mu    sync.Mutex
	limit int64
	inUse int64
	free  [][]byte
}

// NewArenaAllocator creates an ArenaAllocator with the given byte budget.
func NewArenaAllocator(limit int64) *ArenaAllocator {
	return &ArenaAllocator{limit: limit}
}

// Allocate returns a zeroed buffer of exactly size bytes.
func (a *ArenaAllocator) Allocate(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: invalid size %d", ErrAllocationFailure, size)
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.limit > 0 && a.inUse+int64(size) > a.limit {
		return nil, fmt.Errorf("%w: %d bytes requested, %d of %d in use", ErrAllocationFailure, size, a.inUse, a.limit)
	}
	a.inUse += int64(size)

	for i := len(a.free) - 1; i >= 0; i-- {
		buf := a.free[i]
		if cap(buf) < size {
			continue
		}
		a.free = append(a.free[:i], a.free[i+1:]...)
		buf = buf[:size]
		clear(buf)
		return buf, nil
	}
	return make([]byte, size), nil
}

// Release returns a stack to the arena. Releasing nil is a no-op.
func (a *ArenaAllocator) Release(stack []byte) {
	if stack == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.inUse -= int64(len(stack))
	a.free = append(a.free, stack)
}

// InUse reports the bytes currently held by allocated stacks.
func (a *ArenaAllocator) InUse() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inUse
}
