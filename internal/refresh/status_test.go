// SPDX-License-Identifier: MIT

package refresh

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_InitialState(t *testing.T) {
	tr := NewTracker()
	st := tr.Current()
	assert.Equal(t, StateIdle, st.State)
	assert.Equal(t, "Ready", st.Message)
	assert.Nil(t, st.LastRun)
}

func TestTracker_BeginIsCompareAndSwap(t *testing.T) {
	tr := NewTracker()

	require.True(t, tr.begin("starting"))
	assert.Equal(t, StateRunning, tr.Current().State)

	// begin while running must not start a second cycle or touch the status
	assert.False(t, tr.begin("again"))
	assert.Equal(t, "starting", tr.Current().Message)
}

func TestTracker_SuccessAndFailurePaths(t *testing.T) {
	tr := NewTracker()
	ranAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	require.True(t, tr.begin("starting"))
	tr.progress("downloading")
	assert.Equal(t, "downloading", tr.Current().Message)

	tr.succeed("done", ranAt)
	st := tr.Current()
	assert.Equal(t, StateIdle, st.State)
	require.NotNil(t, st.LastRun)
	assert.Equal(t, ranAt, *st.LastRun)

	// a later failure keeps the previous success timestamp
	require.True(t, tr.begin("starting"))
	tr.fail("boom")
	st = tr.Current()
	assert.Equal(t, StateError, st.State)
	assert.Equal(t, "boom", st.Message)
	require.NotNil(t, st.LastRun)
	assert.Equal(t, ranAt, *st.LastRun)

	// error does not block the next attempt
	assert.True(t, tr.begin("retry"))
}

func TestState_IsValid(t *testing.T) {
	assert.True(t, StateIdle.IsValid())
	assert.True(t, StateRunning.IsValid())
	assert.True(t, StateError.IsValid())
	assert.False(t, State("paused").IsValid())
}
