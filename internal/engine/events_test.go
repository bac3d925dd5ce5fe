package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgrid/engine/pkg/api"
)

func TestExecutionEventStream(t *testing.T) {
	eng := newTestEngine(t, newTestConfig())
	ctx := context.Background()
	require.NoError(t, eng.SaveWorkflow(ctx, branchingWorkflow(t)))

	cons := eng.NewConsumer()
	t.Cleanup(cons.Close)

	exec, err := eng.StartExecution(
		ctx, "order-review", api.TriggerManual,
		api.Result{"total": float64(250)},
	)
	require.NoError(t, err)

	var types []api.EventType
	for range 8 {
		ev := receiveEvent(t, cons)
		assert.Equal(t, api.WorkflowID("order-review"), ev.WorkflowID)
		assert.Equal(t, exec.ID, ev.ExecutionID)
		assert.Positive(t, ev.Timestamp)
		types = append(types, ev.Type)
	}

	assert.Equal(t, []api.EventType{
		api.EventExecutionStarted,
		api.EventNodeStarted, api.EventNodeCompleted,
		api.EventNodeStarted, api.EventNodeCompleted,
		api.EventNodeStarted, api.EventNodeCompleted,
		api.EventExecutionCompleted,
	}, types)
}

func TestNodeFailureEvent(t *testing.T) {
	eng := newTestEngine(t, newTestConfig())
	ctx := context.Background()

	wf := branchingWorkflow(t)
	node, ok := wf.NodeByID("a1")
	require.True(t, ok)
	node.Config = api.Config{}
	require.NoError(t, eng.SaveWorkflow(ctx, wf))

	cons := eng.NewConsumer()
	t.Cleanup(cons.Close)

	exec, err := eng.StartExecution(
		ctx, wf.ID, api.TriggerManual, api.Result{"total": float64(250)},
	)
	require.NoError(t, err)
	require.Equal(t, api.ExecutionFailed, exec.Status)

	var sawNodeFailed, sawExecFailed bool
	for range 8 {
		switch ev := receiveEvent(t, cons); ev.Type {
		case api.EventNodeFailed:
			sawNodeFailed = true
			assert.Equal(t, api.NodeID("a1"), ev.NodeID)
		case api.EventExecutionFailed:
			sawExecFailed = true
		default:
		}
	}
	assert.True(t, sawNodeFailed)
	assert.True(t, sawExecFailed)
}
