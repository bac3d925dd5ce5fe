package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/flowgrid/engine/pkg/api"
	"github.com/flowgrid/engine/pkg/log"
)

// Scheduler fires workflows with schedule triggers on their cron
// expressions. Each schedule trigger node declares a standard five-field
// cron spec in its "cron" config entry
type Scheduler struct {
	eng     *Engine
	cron    *cron.Cron
	entries map[api.WorkflowID][]cron.EntryID
	mu      sync.Mutex
}

var ErrCronExprRequired = errors.New("schedule trigger needs a cron expr")

func NewScheduler(eng *Engine) *Scheduler {
	return &Scheduler{
		eng:     eng,
		cron:    cron.New(),
		entries: map[api.WorkflowID][]cron.EntryID{},
	}
}

// Start begins firing registered schedules
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the cron runner and waits for in-flight jobs to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Sync loads every persisted workflow and registers its schedule triggers.
// Workflows whose schedules fail to parse are logged and skipped
func (s *Scheduler) Sync(ctx context.Context) error {
	workflows, err := s.eng.ListWorkflows(ctx)
	if err != nil {
		return err
	}
	for _, wf := range workflows {
		if err := s.Reschedule(wf); err != nil {
			slog.Warn("Skipping workflow schedule",
				log.WorkflowID(wf.ID),
				log.Error(err))
		}
	}
	return nil
}

// Reschedule replaces a workflow's schedule registrations with those of its
// current definition. Disabled workflows have their registrations removed
func (s *Scheduler) Reschedule(wf *api.Workflow) error {
	s.Remove(wf.ID)
	if !wf.Enabled {
		return nil
	}

	var ids []cron.EntryID
	for _, node := range wf.TriggerNodes() {
		if node.Subtype != api.TriggerSchedule {
			continue
		}
		expr, _ := node.Config["cron"].(string)
		if expr == "" {
			s.removeEntries(ids)
			return fmt.Errorf("%w: %s/%s", ErrCronExprRequired, wf.ID, node.ID)
		}
		id, err := s.cron.AddFunc(expr, s.fire(wf.ID, node.ID))
		if err != nil {
			s.removeEntries(ids)
			return fmt.Errorf("bad cron expr %q for %s/%s: %w",
				expr, wf.ID, node.ID, err)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[wf.ID] = ids
	return nil
}

// Remove drops all schedule registrations for a workflow
func (s *Scheduler) Remove(id api.WorkflowID) {
	s.mu.Lock()
	ids := s.entries[id]
	delete(s.entries, id)
	s.mu.Unlock()
	s.removeEntries(ids)
}

func (s *Scheduler) removeEntries(ids []cron.EntryID) {
	for _, id := range ids {
		s.cron.Remove(id)
	}
}

func (s *Scheduler) fire(
	workflowID api.WorkflowID, nodeID api.NodeID,
) func() {
	return func() {
		payload := api.Result{
			"scheduled": true,
			"node_id":   nodeID,
		}
		_, err := s.eng.StartExecution(
			context.Background(), workflowID, api.TriggerSchedule, payload,
		)
		if err != nil {
			slog.Error("Scheduled execution failed to start",
				log.WorkflowID(workflowID),
				log.NodeID(nodeID),
				log.Error(err))
		}
	}
}
