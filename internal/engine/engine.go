// Package engine executes workflow graphs. It loads definitions from the
// store, walks them depth-first from their trigger nodes, records every
// node's outcome in an append-only execution log, and publishes lifecycle
// events for streaming consumers
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/kode4food/caravan"
	"github.com/kode4food/caravan/topic"

	"github.com/flowgrid/engine/internal/config"
	"github.com/flowgrid/engine/internal/store"
	"github.com/flowgrid/engine/pkg/api"
	"github.com/flowgrid/engine/pkg/log"
)

type (
	// Archiver copies terminal execution records to long-term storage
	Archiver interface {
		Archive(ctx context.Context, exec *api.Execution) error
	}

	// Engine coordinates workflow storage, traversal, scheduling, and event
	// publication
	Engine struct {
		cfg       *config.Config
		store     *store.Store
		registry  Registry
		events    topic.Topic[*api.Event]
		prod      topic.Producer[*api.Event]
		archiver  Archiver
		scheduler *Scheduler
		running   map[api.ExecutionID]context.CancelFunc
		mu        sync.Mutex
		stopOnce  sync.Once
	}

	// Dependencies carries the collaborators an Engine is built from. Only
	// Store is required
	Dependencies struct {
		Store    *store.Store
		Archiver Archiver
	}
)

var ErrStoreRequired = errors.New("engine requires a store")

// New creates an Engine with the built-in executor registry
func New(cfg *config.Config, deps Dependencies) (*Engine, error) {
	if deps.Store == nil {
		return nil, ErrStoreRequired
	}
	registry, err := NewRegistry()
	if err != nil {
		return nil, err
	}
	events := caravan.NewTopic[*api.Event]()
	e := &Engine{
		cfg:      cfg,
		store:    deps.Store,
		registry: registry,
		events:   events,
		prod:     events.NewProducer(),
		archiver: deps.Archiver,
		running:  map[api.ExecutionID]context.CancelFunc{},
	}
	e.scheduler = NewScheduler(e)
	return e, nil
}

// Start brings up the engine's background facilities. When scheduling is
// enabled, persisted workflows with schedule triggers are registered with
// the cron runner
func (e *Engine) Start(ctx context.Context) error {
	if !e.cfg.SchedulerEnabled {
		return nil
	}
	if err := e.scheduler.Sync(ctx); err != nil {
		return err
	}
	e.scheduler.Start()
	return nil
}

// Stop shuts down the scheduler and closes the event topic
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		e.scheduler.Stop()
		e.prod.Close()
	})
}

// NewConsumer returns a consumer of the engine's lifecycle event stream.
// Callers own the consumer and must Close it when done
func (e *Engine) NewConsumer() topic.Consumer[*api.Event] {
	return e.events.NewConsumer()
}

// Ping reports whether the backing store is reachable
func (e *Engine) Ping(ctx context.Context) error {
	return e.store.Ping(ctx)
}

// SaveWorkflow validates and persists a workflow definition, then refreshes
// any schedule trigger registrations it carries
func (e *Engine) SaveWorkflow(ctx context.Context, wf *api.Workflow) error {
	if err := wf.Validate(); err != nil {
		return err
	}
	if err := e.store.PutWorkflow(ctx, wf); err != nil {
		return err
	}
	if e.cfg.SchedulerEnabled {
		if err := e.scheduler.Reschedule(wf); err != nil {
			slog.Warn("Failed to schedule workflow triggers",
				log.WorkflowID(wf.ID),
				log.Error(err))
		}
	}
	return nil
}

// GetWorkflow loads a workflow definition by ID
func (e *Engine) GetWorkflow(
	ctx context.Context, id api.WorkflowID,
) (*api.Workflow, error) {
	return e.store.GetWorkflow(ctx, id)
}

// DeleteWorkflow removes a workflow definition and drops its schedule
// registrations. Execution records for the workflow are retained
func (e *Engine) DeleteWorkflow(ctx context.Context, id api.WorkflowID) error {
	if err := e.store.DeleteWorkflow(ctx, id); err != nil {
		return err
	}
	e.scheduler.Remove(id)
	return nil
}

// ListWorkflows returns all persisted workflow definitions
func (e *Engine) ListWorkflows(ctx context.Context) ([]*api.Workflow, error) {
	return e.store.ListWorkflows(ctx)
}

func (e *Engine) trackRunning(id api.ExecutionID, cancel context.CancelFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running[id] = cancel
}

func (e *Engine) untrackRunning(id api.ExecutionID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.running, id)
}

// cancelRunning signals the in-flight traversal for an execution hosted by
// this process. Returns false if the execution is not running here
func (e *Engine) cancelRunning(id api.ExecutionID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	cancel, ok := e.running[id]
	if ok {
		cancel()
	}
	return ok
}

func (e *Engine) archive(ctx context.Context, exec *api.Execution) {
	if e.archiver == nil {
		return
	}
	if err := e.archiver.Archive(ctx, exec); err != nil {
		slog.Warn("Failed to archive execution",
			log.ExecutionID(exec.ID),
			log.WorkflowID(exec.WorkflowID),
			log.Error(err))
	}
}
