package extensibility

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/sthreads/internal/core"
	"github.com/comalice/sthreads/internal/primitives"
	"github.com/comalice/sthreads/testutil"
)

func TestSchedulerWithCustomPublishers(t *testing.T) {
	var buf bytes.Buffer
	all := testutil.NewRecorder()
	wakes := testutil.NewRecorder()

	pub := NewMultiPublisher(
		all,
		NewFilterPublisher(wakes, ByCause(primitives.CauseWake)),
		NewLoggingPublisher(nil, log.New(&buf, "", 0)),
	)
	s := core.NewScheduler(core.WithPublisher(pub))
	require.NoError(t, s.Init())

	count := 0
	id, err := s.Spawn(func() {
		for count < 3 {
			count++
			s.Yield()
		}
	})
	require.NoError(t, err)
	_, err = s.Join(id)
	require.NoError(t, err)

	assert.Equal(t, 3, count)
	assert.True(t, all.Sequential(), "transitions out of sequence")

	w := wakes.Transitions()
	if assert.Len(t, w, 1, "expected one wake") {
		assert.Equal(t, primitives.RootID, w[0].Thread)
	}
	assert.Equal(t, len(all.Transitions()), strings.Count(buf.String(), "\n"), "one log line per transition")
}
