package extensibility

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/sthreads/internal/primitives"
	"github.com/comalice/sthreads/testutil"
)

type failingPublisher struct{ closed bool }

func (f *failingPublisher) Publish(context.Context, primitives.Transition) error {
	return errors.New("sink unavailable")
}

func (f *failingPublisher) Close() error {
	f.closed = true
	return errors.New("close failed")
}

func sampleTransition(seq uint64, cause primitives.Cause) primitives.Transition {
	return primitives.NewTransition(uuid.New(), seq, 1, primitives.Running, primitives.Ready, cause)
}

func TestLoggingPublisher_LogsAndDelegates(t *testing.T) {
	var buf bytes.Buffer
	rec := testutil.NewRecorder()
	p := NewLoggingPublisher(rec, log.New(&buf, "", 0))

	require.NoError(t, p.Publish(context.Background(), sampleTransition(1, primitives.CauseYield)))
	assert.Len(t, rec.Transitions(), 1)
	assert.Contains(t, buf.String(), "#1 T1 running -> ready (yield)")
}

func TestLoggingPublisher_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	p := NewLoggingPublisher(&failingPublisher{}, log.New(&buf, "", 0))

	assert.EqualError(t, p.Publish(context.Background(), sampleTransition(7, primitives.CauseJoin)), "sink unavailable")
	assert.Contains(t, buf.String(), "publish #7 failed: sink unavailable")
}

func TestLoggingPublisher_NilInner(t *testing.T) {
	var buf bytes.Buffer
	p := NewLoggingPublisher(nil, log.New(&buf, "", 0))
	assert.NoError(t, p.Publish(context.Background(), sampleTransition(1, primitives.CauseInit)))
	assert.NoError(t, p.Close())
}

func TestMultiPublisher_FansOut(t *testing.T) {
	a, b := testutil.NewRecorder(), testutil.NewRecorder()
	bad := &failingPublisher{}
	m := NewMultiPublisher(a, nil, bad, b)

	err := m.Publish(context.Background(), sampleTransition(1, primitives.CauseSpawn))
	assert.ErrorContains(t, err, "sink unavailable")
	assert.Len(t, a.Transitions(), 1, "every healthy target should receive the transition")
	assert.Len(t, b.Transitions(), 1, "every healthy target should receive the transition")

	assert.Error(t, m.Close(), "expected close error from failing target")
	assert.True(t, bad.closed, "failing target not closed")
	assert.Error(t, b.Publish(context.Background(), primitives.Transition{}), "recorder should be closed")
}
