package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/flowgrid/engine/pkg/api"
)

// CreateExecution persists a new execution record and indexes it by start
// time, both per-workflow and globally
func (s *Store) CreateExecution(
	ctx context.Context, exec *api.Execution,
) error {
	data, err := json.Marshal(exec)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteExecution, err)
	}

	score := float64(exec.StartedAt.UnixMilli())
	member := redis.Z{Score: score, Member: string(exec.ID)}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.executionKey(exec.ID), data, 0)
	pipe.ZAdd(ctx, s.executionIndexKey(exec.WorkflowID), member)
	pipe.ZAdd(ctx, s.executionIndexKey(""), member)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteExecution, err)
	}
	return nil
}

// UpdateExecution replaces an existing execution record. The record must
// already exist; executions are finalized exactly once
func (s *Store) UpdateExecution(
	ctx context.Context, exec *api.Execution,
) error {
	data, err := json.Marshal(exec)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteExecution, err)
	}

	updated, err := s.client.SetXX(
		ctx, s.executionKey(exec.ID), data, 0,
	).Result()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteExecution, err)
	}
	if !updated {
		return fmt.Errorf("%w: %s", ErrExecutionNotFound, exec.ID)
	}
	return nil
}

// GetExecution retrieves an execution record by ID
func (s *Store) GetExecution(
	ctx context.Context, id api.ExecutionID,
) (*api.Execution, error) {
	data, err := s.client.Get(ctx, s.executionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrExecutionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadExecution, err)
	}

	var exec api.Execution
	if err := json.Unmarshal(data, &exec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadExecution, err)
	}
	return &exec, nil
}

// ListExecutions returns executions ordered by start time descending. An
// empty workflow ID lists across all workflows
func (s *Store) ListExecutions(
	ctx context.Context, workflowID api.WorkflowID,
) ([]*api.Execution, error) {
	ids, err := s.client.ZRevRange(
		ctx, s.executionIndexKey(workflowID), 0, -1,
	).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadExecution, err)
	}

	executions := make([]*api.Execution, 0, len(ids))
	for _, id := range ids {
		exec, err := s.GetExecution(ctx, api.ExecutionID(id))
		if errors.Is(err, ErrExecutionNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		executions = append(executions, exec)
	}
	return executions, nil
}
