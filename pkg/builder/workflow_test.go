package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgrid/engine/pkg/api"
	"github.com/flowgrid/engine/pkg/builder"
)

func TestBuildBranchingWorkflow(t *testing.T) {
	wf, err := builder.NewWorkflow("Order Review", "Order Review").
		WithOwner("user-1").
		WithTrigger("t1", api.TriggerManual, nil).
		WithCondition("c1", api.ConditionFieldComparison, api.Config{
			"field":    "payload.total",
			"operator": "greater_than",
			"value":    100,
		}).
		WithAction("a1", api.ActionSendEmail, api.Config{
			"to": "ops@example.com",
		}).
		WithAction("a2", api.ActionCreateRecord, api.Config{
			"table": "orders",
		}).
		WithEdge("t1", "c1").
		WithTrueEdge("c1", "a1").
		WithFalseEdge("c1", "a2").
		Build()
	require.NoError(t, err)

	assert.Equal(t, api.WorkflowID("order-review"), wf.ID)
	assert.Equal(t, "user-1", wf.OwnerID)
	assert.True(t, wf.Enabled)
	assert.Len(t, wf.Nodes, 4)
	assert.Len(t, wf.Edges, 3)
	assert.False(t, wf.CreatedAt.IsZero())

	edges := wf.EdgesFrom("c1")
	require.Len(t, edges, 2)
	assert.Equal(t, api.HandleTrue, edges[0].Handle)
	assert.Equal(t, api.HandleFalse, edges[1].Handle)
}

func TestBuilderCopyOnWrite(t *testing.T) {
	base := builder.NewWorkflow("base", "Base").
		WithTrigger("t1", api.TriggerManual, nil)

	left, err := base.WithAction("a1", api.ActionCreateRecord, nil).
		WithEdge("t1", "a1").
		Build()
	require.NoError(t, err)

	right, err := base.WithData("d1", api.DataCalculation, api.Config{
		"operation": "add",
		"operands":  []any{1, 2},
	}).WithEdge("t1", "d1").Build()
	require.NoError(t, err)

	assert.Len(t, left.Nodes, 2)
	assert.Len(t, right.Nodes, 2)
	assert.Equal(t, api.NodeID("a1"), left.Nodes[1].ID)
	assert.Equal(t, api.NodeID("d1"), right.Nodes[1].ID)
}

func TestBuildRejectsInvalidGraph(t *testing.T) {
	_, err := builder.NewWorkflow("bad", "Bad").
		WithTrigger("t1", api.TriggerManual, nil).
		WithEdge("t1", "missing").
		Build()
	assert.ErrorIs(t, err, api.ErrUnknownEdgeNode)

	_, err = builder.NewWorkflow("dup", "Dup").
		WithTrigger("t1", api.TriggerManual, nil).
		WithTrigger("t1", api.TriggerWebhook, nil).
		Build()
	assert.ErrorIs(t, err, api.ErrDuplicateNodeID)
}

func TestBuildDisabledWorkflow(t *testing.T) {
	wf, err := builder.NewWorkflow("paused", "Paused").
		WithEnabled(false).
		WithTrigger("t1", api.TriggerManual, nil).
		Build()
	require.NoError(t, err)
	assert.False(t, wf.Enabled)
}
