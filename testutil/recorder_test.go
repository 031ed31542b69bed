package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/sthreads/internal/primitives"
)

func TestRecorder_Replay(t *testing.T) {
	r := NewRecorder()
	id := uuid.New()
	ctx := context.Background()
	steps := []primitives.Transition{
		primitives.NewTransition(id, 1, 0, "", primitives.Running, primitives.CauseInit),
		primitives.NewTransition(id, 2, 0, primitives.Running, primitives.Ready, primitives.CauseSpawn),
		primitives.NewTransition(id, 3, 1, "", primitives.Running, primitives.CauseSpawn),
		primitives.NewTransition(id, 4, 1, primitives.Running, primitives.Terminated, primitives.CauseDone),
		primitives.NewTransition(id, 5, 0, primitives.Ready, primitives.Running, primitives.CauseDone),
	}
	for _, tr := range steps {
		require.NoError(t, r.Publish(ctx, tr))
	}

	assert.Equal(t, 1, r.MaxRunning())
	assert.True(t, r.Sequential(), "expected sequential log")
	assert.Equal(t, []primitives.ThreadID{0, 1, 0}, r.Dispatches())
	assert.Len(t, r.Of(1), 2)

	require.NoError(t, r.Close())
	assert.Error(t, r.Publish(ctx, primitives.Transition{Seq: 9}), "Publish after Close should fail")
	assert.Len(t, r.Transitions(), len(steps), "closed recorder must not grow")
}

func TestRecorder_DetectsOverlap(t *testing.T) {
	r := NewRecorder()
	ctx := context.Background()
	require.NoError(t, r.Publish(ctx, primitives.Transition{Seq: 1, Thread: 0, To: primitives.Running}))
	require.NoError(t, r.Publish(ctx, primitives.Transition{Seq: 3, Thread: 1, To: primitives.Running}))

	assert.Equal(t, 2, r.MaxRunning(), "two Running threads not detected")
	assert.False(t, r.Sequential(), "gap in sequence numbers not detected")
}
