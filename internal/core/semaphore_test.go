package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/sthreads/internal/primitives"
)

func TestSemaphore_CountsWithoutBlocking(t *testing.T) {
	s, _ := newTestScheduler(t)
	sem := s.NewSemaphore(2)

	require.NoError(t, sem.Wait())
	require.NoError(t, sem.Wait())
	assert.Zero(t, sem.Value())
	assert.Zero(t, s.Switches())

	sem.Signal()
	assert.Equal(t, 1, sem.Value())
}

func TestSemaphore_NegativeInitialIsZero(t *testing.T) {
	s, _ := newTestScheduler(t)
	assert.Zero(t, s.NewSemaphore(-3).Value())
}

func TestSemaphore_WakesInFIFOOrder(t *testing.T) {
	s, rec := newTestScheduler(t)
	sem := s.NewSemaphore(0)
	var order []string

	waiter := func(name string) func() {
		return func() {
			assert.NoError(t, sem.Wait())
			order = append(order, name)
		}
	}
	var ids []primitives.ThreadID
	for _, name := range []string{"W1", "W2", "W3"} {
		id, err := s.Spawn(waiter(name))
		require.NoError(t, err)
		ids = append(ids, id)
	}
	assert.Equal(t, 3, sem.Waiting())
	for _, id := range ids {
		st, _ := s.State(id)
		assert.Equal(t, primitives.Waiting, st)
	}

	for range ids {
		sem.Signal()
	}
	assert.Zero(t, sem.Value(), "units are handed to waiters")
	assert.Zero(t, sem.Waiting())
	assert.Empty(t, order, "Signal does not switch")

	s.Yield()
	assert.Equal(t, []string{"W1", "W2", "W3"}, order)

	var signalled []primitives.ThreadID
	for _, tr := range rec.Transitions() {
		if tr.Cause == primitives.CauseSignal {
			signalled = append(signalled, tr.Thread)
		}
	}
	assert.Equal(t, ids, signalled)
}

func TestSemaphore_PingPong(t *testing.T) {
	s, _ := newTestScheduler(t)
	ping := s.NewSemaphore(0)
	pong := s.NewSemaphore(0)
	var trace []string

	id, err := s.Spawn(func() {
		for i := 0; i < 3; i++ {
			assert.NoError(t, ping.Wait())
			trace = append(trace, "pong")
			pong.Signal()
		}
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		trace = append(trace, "ping")
		ping.Signal()
		require.NoError(t, pong.Wait())
	}
	_, err = s.Join(id)
	require.NoError(t, err)

	assert.Equal(t, []string{"ping", "pong", "ping", "pong", "ping", "pong"}, trace)
}

func TestSemaphore_WaitWithNothingReady(t *testing.T) {
	s, _ := newTestScheduler(t)
	sem := s.NewSemaphore(0)

	err := sem.Wait()
	assert.ErrorIs(t, err, ErrDeadlock)
	assert.Zero(t, sem.Waiting())

	st, _ := s.State(primitives.RootID)
	assert.Equal(t, primitives.Running, st)
}

func TestSemaphore_NotInitialized(t *testing.T) {
	s := NewScheduler()
	sem := s.NewSemaphore(0)
	assert.ErrorIs(t, sem.Wait(), ErrNotInitialized)
	sem.Signal()
	assert.Zero(t, sem.Value())
	assert.Zero(t, sem.Waiting())
}
