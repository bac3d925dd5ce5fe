package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/flowgrid/engine/pkg/api"
	"github.com/flowgrid/engine/pkg/log"
)

var (
	ErrWorkflowDisabled  = errors.New("workflow is disabled")
	ErrExecutionFinished = errors.New("execution already finished")

	// errCancelledByUser is the cancellation cause set by CancelExecution.
	// It separates a deliberate cancel from a parent context going away,
	// such as an HTTP client disconnect
	errCancelledByUser = errors.New(api.CancelledByUser)
)

const (
	timedOutMessage    = "execution timed out"
	interruptedMessage = "execution interrupted"
)

// StartExecution runs a workflow synchronously and returns its terminal
// execution record. A workflow without a trigger node is rejected before
// any record is created. The execution record is created in running status
// before traversal begins and finalized exactly once when it ends
func (e *Engine) StartExecution(
	ctx context.Context, workflowID api.WorkflowID,
	triggerType api.NodeSubtype, payload api.Result,
) (*api.Execution, error) {
	wf, err := e.store.GetWorkflow(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	if !wf.Enabled {
		return nil, fmt.Errorf("%w: %s", ErrWorkflowDisabled, workflowID)
	}
	if len(wf.TriggerNodes()) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoTriggerNode, workflowID)
	}

	exec := &api.Execution{
		ID:             api.ExecutionID(uuid.NewString()),
		WorkflowID:     workflowID,
		TriggerType:    triggerType,
		TriggerPayload: payload,
		Status:         api.ExecutionRunning,
		StartedAt:      time.Now(),
		Log:            []*api.LogEntry{},
	}
	if err := e.store.CreateExecution(ctx, exec); err != nil {
		return nil, err
	}
	e.publishExecutionEvent(api.EventExecutionStarted, exec)
	slog.Info("Execution started",
		log.ExecutionID(exec.ID),
		log.WorkflowID(workflowID),
		log.Trigger(triggerType))

	runCtx, expire := context.WithTimeout(ctx, e.cfg.ExecutionTimeout)
	defer expire()
	runCtx, cancel := context.WithCancelCause(runCtx)
	defer cancel(nil)
	e.trackRunning(exec.ID, func() { cancel(errCancelledByUser) })
	defer e.untrackRunning(exec.ID)

	tr := e.newTraversal(wf, exec)
	runErr := tr.Run(runCtx)
	final := finalize(exec, tr.entries, runErr)

	// The run context may already be cancelled or expired; the terminal
	// record must still be committed
	saveCtx := context.WithoutCancel(ctx)
	if err := e.store.UpdateExecution(saveCtx, final); err != nil {
		return nil, err
	}
	e.publishExecutionEvent(statusEvents[final.Status], final)
	e.archive(saveCtx, final)
	slog.Info("Execution finished",
		log.ExecutionID(final.ID),
		log.WorkflowID(workflowID),
		log.Status(final.Status))
	return final, nil
}

// CancelExecution marks a running execution as cancelled. When the
// execution is in flight in this process, its traversal context is
// cancelled as well so it stops between nodes. Terminal executions are
// never overwritten
func (e *Engine) CancelExecution(
	ctx context.Context, id api.ExecutionID,
) (*api.Execution, error) {
	exec, err := e.store.GetExecution(ctx, id)
	if err != nil {
		return nil, err
	}
	if exec.IsTerminal() {
		return nil, fmt.Errorf("%w: %s is %s",
			ErrExecutionFinished, id, exec.Status)
	}
	e.cancelRunning(id)

	final := exec.
		SetStatus(api.ExecutionCancelled).
		SetCompletedAt(time.Now()).
		SetError(api.CancelledByUser)
	if err := e.store.UpdateExecution(ctx, final); err != nil {
		return nil, err
	}
	e.publishExecutionEvent(api.EventExecutionCancelled, final)
	e.archive(ctx, final)
	slog.Info("Execution cancelled",
		log.ExecutionID(id),
		log.WorkflowID(exec.WorkflowID))
	return final, nil
}

// GetExecution loads a single execution record
func (e *Engine) GetExecution(
	ctx context.Context, id api.ExecutionID,
) (*api.Execution, error) {
	return e.store.GetExecution(ctx, id)
}

// ListExecutions returns execution records most recent first, optionally
// scoped to one workflow. Each record is joined with its workflow's display
// name; records whose workflow has since been deleted carry an empty name
func (e *Engine) ListExecutions(
	ctx context.Context, workflowID api.WorkflowID,
) ([]*api.ExecutionListItem, error) {
	executions, err := e.store.ListExecutions(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	names := map[api.WorkflowID]string{}
	items := make([]*api.ExecutionListItem, len(executions))
	for i, exec := range executions {
		name, ok := names[exec.WorkflowID]
		if !ok {
			if wf, err := e.store.GetWorkflow(ctx, exec.WorkflowID); err == nil {
				name = wf.Name
			}
			names[exec.WorkflowID] = name
		}
		items[i] = &api.ExecutionListItem{
			Execution:    exec,
			WorkflowName: name,
		}
	}
	return items, nil
}

// finalize derives the terminal execution record from a traversal outcome.
// Only a user-initiated cancel maps to cancelled status; deadline expiry
// and any other context loss fail the run, each with its own message, and
// any other error fails the run carrying the error text
func finalize(
	exec *api.Execution, entries []*api.LogEntry, runErr error,
) *api.Execution {
	final := exec.AppendLog(entries...).SetCompletedAt(time.Now())
	switch {
	case runErr == nil:
		return final.SetStatus(api.ExecutionCompleted)
	case errors.Is(runErr, errCancelledByUser):
		return final.
			SetStatus(api.ExecutionCancelled).
			SetError(api.CancelledByUser)
	case errors.Is(runErr, context.DeadlineExceeded):
		return final.
			SetStatus(api.ExecutionFailed).
			SetError(timedOutMessage)
	case errors.Is(runErr, context.Canceled):
		return final.
			SetStatus(api.ExecutionFailed).
			SetError(interruptedMessage)
	default:
		return final.
			SetStatus(api.ExecutionFailed).
			SetError(runErr.Error())
	}
}
