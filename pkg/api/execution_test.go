package api_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/flowgrid/engine/pkg/api"
)

func TestExecutionSetters(t *testing.T) {
	orig := &api.Execution{
		ID:     "ex-1",
		Status: api.ExecutionRunning,
	}

	now := time.Now()
	updated := orig.
		SetStatus(api.ExecutionFailed).
		SetCompletedAt(now).
		SetError("boom")

	assert.Equal(t, api.ExecutionFailed, updated.Status)
	assert.Equal(t, now, updated.CompletedAt)
	assert.Equal(t, "boom", updated.Error)

	assert.Equal(t, api.ExecutionRunning, orig.Status)
	assert.True(t, orig.CompletedAt.IsZero())
	assert.Empty(t, orig.Error)
}

func TestExecutionAppendLog(t *testing.T) {
	orig := &api.Execution{ID: "ex-1"}

	first := orig.AppendLog(&api.LogEntry{
		NodeID: "t1",
		Phase:  api.PhaseStarted,
	})
	second := first.AppendLog(&api.LogEntry{
		NodeID: "t1",
		Phase:  api.PhaseCompleted,
	})

	assert.Empty(t, orig.Log)
	assert.Len(t, first.Log, 1)
	assert.Len(t, second.Log, 2)
	assert.Equal(t, api.PhaseStarted, second.Log[0].Phase)
	assert.Equal(t, api.PhaseCompleted, second.Log[1].Phase)
}

func TestExecutionIsTerminal(t *testing.T) {
	exec := &api.Execution{Status: api.ExecutionRunning}
	assert.False(t, exec.IsTerminal())

	for _, status := range []api.ExecutionStatus{
		api.ExecutionCompleted,
		api.ExecutionFailed,
		api.ExecutionCancelled,
	} {
		assert.True(t, exec.SetStatus(status).IsTerminal())
	}
}
