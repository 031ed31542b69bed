package psem

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemaphore_Counts(t *testing.T) {
	s := New(2)
	require.NoError(t, s.Wait())
	require.NoError(t, s.Wait())
	assert.Zero(t, s.Value())
	assert.False(t, s.TryWait())

	s.Signal()
	assert.True(t, s.TryWait())
	assert.Zero(t, New(-1).Value())
}

func TestSemaphore_BlocksUntilSignal(t *testing.T) {
	s := New(0)
	done := make(chan error, 1)
	go func() { done <- s.Wait() }()

	select {
	case <-done:
		t.Fatal("Wait returned before Signal")
	case <-time.After(20 * time.Millisecond):
	}

	s.Signal()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Wait not woken by Signal")
	}
}

func TestSemaphore_MutualExclusion(t *testing.T) {
	mutex := New(1)
	var inside, peak atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.NoError(t, mutex.Wait())
				n := inside.Add(1)
				if n > peak.Load() {
					peak.Store(n)
				}
				inside.Add(-1)
				mutex.Signal()
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, peak.Load())
	assert.Equal(t, 1, mutex.Value())
}

func TestSemaphore_DestroyReleasesWaiters(t *testing.T) {
	s := New(0)
	errs := make(chan error, 3)
	for i := 0; i < 3; i++ {
		go func() { errs <- s.Wait() }()
	}
	time.Sleep(20 * time.Millisecond)

	s.Destroy()
	for i := 0; i < 3; i++ {
		select {
		case err := <-errs:
			assert.ErrorIs(t, err, ErrDestroyed)
		case <-time.After(time.Second):
			t.Fatal("waiter not released by Destroy")
		}
	}

	assert.ErrorIs(t, s.Wait(), ErrDestroyed)
	s.Signal()
	assert.Zero(t, s.Value())
}
