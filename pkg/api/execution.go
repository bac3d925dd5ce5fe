package api

import (
	"slices"
	"time"
)

type (
	// ExecutionStatus represents the lifecycle state of a workflow run
	ExecutionStatus string

	// LogPhase represents the phase a node reached within a run
	LogPhase string

	// Result is the structured output of a step executor
	Result map[string]any

	// LogEntry is one immutable, timestamped entry in an execution log
	LogEntry struct {
		Timestamp time.Time    `json:"timestamp"`
		NodeID    NodeID       `json:"node_id"`
		Category  NodeCategory `json:"category"`
		Subtype   NodeSubtype  `json:"subtype"`
		Label     string       `json:"label,omitempty"`
		Phase     LogPhase     `json:"phase"`
		Result    Result       `json:"result,omitempty"`
		Error     string       `json:"error,omitempty"`
	}

	// Execution is the durable record of a single workflow run: created when
	// the run starts, finalized exactly once when it ends, and never mutated
	// thereafter except by an explicit cancellation while still running
	Execution struct {
		StartedAt      time.Time       `json:"started_at"`
		CompletedAt    time.Time       `json:"completed_at,omitempty"`
		ID             ExecutionID     `json:"id"`
		WorkflowID     WorkflowID      `json:"workflow_id"`
		TriggerType    NodeSubtype     `json:"trigger_type"`
		TriggerPayload Result          `json:"trigger_payload,omitempty"`
		Status         ExecutionStatus `json:"status"`
		Error          string          `json:"error,omitempty"`
		Log            []*LogEntry     `json:"log"`
	}
)

const (
	ExecutionRunning   ExecutionStatus = "running"
	ExecutionCompleted ExecutionStatus = "completed"
	ExecutionFailed    ExecutionStatus = "failed"
	ExecutionCancelled ExecutionStatus = "cancelled"
)

const (
	PhaseStarted   LogPhase = "started"
	PhaseCompleted LogPhase = "completed"
	PhaseFailed    LogPhase = "failed"
)

// CancelledByUser is the error message recorded on a cancelled execution
const CancelledByUser = "cancelled by user"

// SetStatus returns a new Execution with the updated status
func (x *Execution) SetStatus(s ExecutionStatus) *Execution {
	res := *x
	res.Status = s
	return &res
}

// SetCompletedAt returns a new Execution with the completion timestamp set
func (x *Execution) SetCompletedAt(t time.Time) *Execution {
	res := *x
	res.CompletedAt = t
	return &res
}

// SetError returns a new Execution with the error message set
func (x *Execution) SetError(err string) *Execution {
	res := *x
	res.Error = err
	return &res
}

// AppendLog returns a new Execution with entries appended to the log. The
// existing entries are never rewritten or removed
func (x *Execution) AppendLog(entries ...*LogEntry) *Execution {
	res := *x
	res.Log = append(slices.Clip(slices.Clone(x.Log)), entries...)
	return &res
}

// IsTerminal returns true once an execution has reached a final status
func (x *Execution) IsTerminal() bool {
	switch x.Status {
	case ExecutionCompleted, ExecutionFailed, ExecutionCancelled:
		return true
	default:
		return false
	}
}
