package archive_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/memblob"

	"github.com/flowgrid/engine/internal/archive"
	"github.com/flowgrid/engine/pkg/api"
)

func newTestBucket(t *testing.T) *blob.Bucket {
	t.Helper()

	bucket, err := blob.OpenBucket(context.Background(), "mem://")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = bucket.Close()
	})
	return bucket
}

func terminalExecution() *api.Execution {
	return &api.Execution{
		ID:          "ex-1",
		WorkflowID:  "wf-1",
		TriggerType: api.TriggerManual,
		Status:      api.ExecutionCompleted,
		StartedAt:   time.Now().Add(-time.Second),
		CompletedAt: time.Now(),
		Log: []*api.LogEntry{
			{NodeID: "t1", Phase: api.PhaseStarted},
			{NodeID: "t1", Phase: api.PhaseCompleted},
		},
	}
}

func TestArchiveExecution(t *testing.T) {
	bucket := newTestBucket(t)
	writer, err := archive.NewWriter(bucket, "archive")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, writer.Archive(ctx, terminalExecution()))

	data, err := bucket.ReadAll(ctx, "archive/wf-1/ex-1.json")
	require.NoError(t, err)

	var stored api.Execution
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, api.ExecutionID("ex-1"), stored.ID)
	assert.Equal(t, api.ExecutionCompleted, stored.Status)
	assert.Len(t, stored.Log, 2)
}

func TestArchiveKeyWithoutPrefix(t *testing.T) {
	bucket := newTestBucket(t)
	writer, err := archive.NewWriter(bucket, "")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, writer.Archive(ctx, terminalExecution()))

	exists, err := bucket.Exists(ctx, "wf-1/ex-1.json")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestArchiveValidation(t *testing.T) {
	_, err := archive.NewWriter(nil, "")
	assert.ErrorIs(t, err, archive.ErrBucketRequired)

	bucket := newTestBucket(t)
	writer, err := archive.NewWriter(bucket, "")
	require.NoError(t, err)

	ctx := context.Background()
	assert.ErrorIs(t, writer.Archive(ctx, nil), archive.ErrExecutionRequired)

	running := terminalExecution()
	running.Status = api.ExecutionRunning
	assert.ErrorIs(t, writer.Archive(ctx, running), archive.ErrNotTerminal)
}

func TestOpenBucketByURL(t *testing.T) {
	ctx := context.Background()
	writer, err := archive.Open(ctx, "mem://", "runs")
	require.NoError(t, err)
	assert.NoError(t, writer.Archive(ctx, terminalExecution()))
}
