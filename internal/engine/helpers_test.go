package engine_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/kode4food/caravan/topic"
	"github.com/stretchr/testify/require"

	"github.com/flowgrid/engine/internal/config"
	"github.com/flowgrid/engine/internal/engine"
	"github.com/flowgrid/engine/internal/store"
	"github.com/flowgrid/engine/pkg/api"
	"github.com/flowgrid/engine/pkg/builder"
)

func newTestConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.SchedulerEnabled = false
	return cfg
}

func newTestEngine(t *testing.T, cfg *config.Config) *engine.Engine {
	eng, _ := newTestEngineStore(t, cfg)
	return eng
}

func newTestEngineStore(
	t *testing.T, cfg *config.Config,
) (*engine.Engine, *store.Store) {
	t.Helper()

	server := miniredis.RunT(t)
	st := store.New(store.Config{
		Addr:   server.Addr(),
		Prefix: "test",
	})
	t.Cleanup(func() {
		_ = st.Close()
	})

	eng, err := engine.New(cfg, engine.Dependencies{Store: st})
	require.NoError(t, err)
	t.Cleanup(eng.Stop)
	return eng, st
}

// branchingWorkflow is the canonical graph used across tests: a manual
// trigger into a total > 100 comparison, emailing on true and creating a
// record on false
func branchingWorkflow(t *testing.T) *api.Workflow {
	t.Helper()

	wf, err := builder.NewWorkflow("order-review", "Order Review").
		WithOwner("user-1").
		WithTrigger("t1", api.TriggerManual, nil).
		WithCondition("c1", api.ConditionFieldComparison, api.Config{
			"field":    "payload.total",
			"operator": "greater_than",
			"value":    100,
		}).
		WithAction("a1", api.ActionSendEmail, api.Config{
			"to":      "ops@example.com",
			"subject": "Large order",
		}).
		WithAction("a2", api.ActionCreateRecord, api.Config{
			"table": "orders",
		}).
		WithEdge("t1", "c1").
		WithTrueEdge("c1", "a1").
		WithFalseEdge("c1", "a2").
		Build()
	require.NoError(t, err)
	return wf
}

func receiveEvent(
	t *testing.T, cons topic.Consumer[*api.Event],
) *api.Event {
	t.Helper()

	select {
	case ev, ok := <-cons.Receive():
		require.True(t, ok)
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func loggedNodes(exec *api.Execution, phase api.LogPhase) []api.NodeID {
	var ids []api.NodeID
	for _, entry := range exec.Log {
		if entry.Phase == phase {
			ids = append(ids, entry.NodeID)
		}
	}
	return ids
}
