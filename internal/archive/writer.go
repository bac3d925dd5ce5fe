// Package archive copies terminal execution records to a blob bucket for
// long-term retention. The bucket is addressed by URL, so any driver the
// binary links in (s3, gcs, azblob, file, mem) can serve as the target
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"gocloud.dev/blob"

	"github.com/flowgrid/engine/pkg/api"
)

type (
	// Writer archives executions to a blob bucket under a key prefix
	Writer struct {
		bucket BucketWriter
		prefix string
	}

	// BucketWriter is the slice of *blob.Bucket the Writer needs
	BucketWriter interface {
		WriteAll(context.Context, string, []byte, *blob.WriterOptions) error
	}
)

var (
	ErrBucketRequired    = errors.New("bucket is required")
	ErrExecutionRequired = errors.New("execution is required")
	ErrNotTerminal       = errors.New("execution is not terminal")
)

// NewWriter creates a Writer that archives under the given key prefix
func NewWriter(bucket BucketWriter, prefix string) (*Writer, error) {
	if bucket == nil {
		return nil, ErrBucketRequired
	}
	return &Writer{
		bucket: bucket,
		prefix: prefix,
	}, nil
}

// Open creates a Writer over the bucket addressed by url
func Open(ctx context.Context, url, prefix string) (*Writer, error) {
	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, err
	}
	return NewWriter(bucket, prefix)
}

// Archive stores a terminal execution record as a JSON object keyed by
// workflow and execution ID. Archiving the same execution twice overwrites
// the object with identical content
func (w *Writer) Archive(ctx context.Context, exec *api.Execution) error {
	if exec == nil {
		return ErrExecutionRequired
	}
	if !exec.IsTerminal() {
		return ErrNotTerminal
	}
	data, err := json.Marshal(exec)
	if err != nil {
		return err
	}
	key := buildArchiveKey(w.prefix, exec.WorkflowID, exec.ID)
	return w.bucket.WriteAll(ctx, key, data, nil)
}

func buildArchiveKey(
	prefix string, workflowID api.WorkflowID, id api.ExecutionID,
) string {
	key := string(workflowID) + "/" + string(id) + ".json"
	if prefix == "" {
		return key
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + key
}
