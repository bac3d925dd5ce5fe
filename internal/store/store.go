// Package store persists workflow definitions and execution records in
// Redis. Workflows and executions are stored as JSON documents; executions
// are additionally indexed in sorted sets scored by start time so listings
// come back most recent first
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/flowgrid/engine/pkg/api"
)

type (
	// Config holds the Redis connection settings for the store
	Config struct {
		Addr     string
		Password string
		Prefix   string
		DB       int
	}

	// Store provides durable access to workflows and executions
	Store struct {
		client *redis.Client
		prefix string
	}
)

var (
	ErrWorkflowNotFound  = errors.New("workflow not found")
	ErrExecutionNotFound = errors.New("execution not found")
	ErrReadWorkflow      = errors.New("failed to read workflow")
	ErrWriteWorkflow     = errors.New("failed to write workflow")
	ErrReadExecution     = errors.New("failed to read execution")

	// ErrWriteExecution wraps persistence failures for execution records.
	// Callers may retry these: the in-memory run result exists but was not
	// committed
	ErrWriteExecution = errors.New("failed to write execution")
)

// New creates a Store backed by the configured Redis instance
func New(cfg Config) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Store{
		client: client,
		prefix: cfg.Prefix,
	}
}

// Ping verifies connectivity to the backing Redis instance
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) workflowKey(id api.WorkflowID) string {
	return fmt.Sprintf("%s:workflow:%s", s.prefix, id)
}

func (s *Store) workflowIndexKey() string {
	return s.prefix + ":workflows"
}

func (s *Store) executionKey(id api.ExecutionID) string {
	return fmt.Sprintf("%s:execution:%s", s.prefix, id)
}

func (s *Store) executionIndexKey(id api.WorkflowID) string {
	if id == "" {
		return s.prefix + ":executions"
	}
	return fmt.Sprintf("%s:executions:%s", s.prefix, id)
}
