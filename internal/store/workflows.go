package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/flowgrid/engine/pkg/api"
)

// PutWorkflow creates or replaces a workflow definition
func (s *Store) PutWorkflow(ctx context.Context, wf *api.Workflow) error {
	data, err := json.Marshal(wf)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteWorkflow, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.workflowKey(wf.ID), data, 0)
	pipe.SAdd(ctx, s.workflowIndexKey(), string(wf.ID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteWorkflow, err)
	}
	return nil
}

// GetWorkflow retrieves a workflow definition by ID
func (s *Store) GetWorkflow(
	ctx context.Context, id api.WorkflowID,
) (*api.Workflow, error) {
	data, err := s.client.Get(ctx, s.workflowKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrWorkflowNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadWorkflow, err)
	}

	var wf api.Workflow
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadWorkflow, err)
	}
	return &wf, nil
}

// DeleteWorkflow removes a workflow definition. Execution records are kept
// for auditing
func (s *Store) DeleteWorkflow(ctx context.Context, id api.WorkflowID) error {
	removed, err := s.client.Del(ctx, s.workflowKey(id)).Result()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteWorkflow, err)
	}
	if removed == 0 {
		return fmt.Errorf("%w: %s", ErrWorkflowNotFound, id)
	}
	if err := s.client.SRem(
		ctx, s.workflowIndexKey(), string(id),
	).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteWorkflow, err)
	}
	return nil
}

// ListWorkflows returns all stored workflow definitions
func (s *Store) ListWorkflows(ctx context.Context) ([]*api.Workflow, error) {
	ids, err := s.client.SMembers(ctx, s.workflowIndexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadWorkflow, err)
	}

	workflows := make([]*api.Workflow, 0, len(ids))
	for _, id := range ids {
		wf, err := s.GetWorkflow(ctx, api.WorkflowID(id))
		if errors.Is(err, ErrWorkflowNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		workflows = append(workflows, wf)
	}
	return workflows, nil
}
