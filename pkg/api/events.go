package api

type (
	// EventType identifies an engine lifecycle event
	EventType string

	// Event is the envelope published for execution and node lifecycle
	// changes, consumed by WebSocket subscribers
	Event struct {
		Type        EventType   `json:"type"`
		WorkflowID  WorkflowID  `json:"workflow_id"`
		ExecutionID ExecutionID `json:"execution_id"`
		NodeID      NodeID      `json:"node_id,omitempty"`
		Timestamp   int64       `json:"timestamp"`
		Data        any         `json:"data,omitempty"`
	}
)

const (
	EventExecutionStarted   EventType = "execution.started"
	EventExecutionCompleted EventType = "execution.completed"
	EventExecutionFailed    EventType = "execution.failed"
	EventExecutionCancelled EventType = "execution.cancelled"

	EventNodeStarted   EventType = "node.started"
	EventNodeCompleted EventType = "node.completed"
	EventNodeFailed    EventType = "node.failed"
)
