package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/flowgrid/engine/internal/config"
	"github.com/flowgrid/engine/internal/engine"
	"github.com/flowgrid/engine/internal/server"
	"github.com/flowgrid/engine/internal/store"
	"github.com/flowgrid/engine/pkg/api"
	"github.com/flowgrid/engine/pkg/builder"
)

type testEnv struct {
	engine *engine.Engine
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	redis := miniredis.RunT(t)
	st := store.New(store.Config{
		Addr:   redis.Addr(),
		Prefix: "test",
	})
	t.Cleanup(func() {
		_ = st.Close()
	})

	cfg := config.NewDefaultConfig()
	cfg.SchedulerEnabled = false
	eng, err := engine.New(cfg, engine.Dependencies{Store: st})
	require.NoError(t, err)
	t.Cleanup(eng.Stop)

	srv := server.NewServer(eng)
	t.Cleanup(srv.CloseWebSockets)
	return &testEnv{
		engine: eng,
		router: srv.SetupRoutes(),
	}
}

func (env *testEnv) request(
	t *testing.T, method, path string, body any,
) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) *T {
	t.Helper()

	var res T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return &res
}

func orderReviewWorkflow(t *testing.T) *api.Workflow {
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
	return wf
}

func (env *testEnv) seedWorkflow(t *testing.T, wf *api.Workflow) {
	t.Helper()

	rec := env.request(
		t, http.MethodPut, "/engine/workflow/"+string(wf.ID), wf,
	)
	require.Equal(t, http.StatusCreated, rec.Code)
}
