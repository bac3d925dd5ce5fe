package api

type (
	// ErrorResponse is the JSON error payload returned by the HTTP API
	ErrorResponse struct {
		Error  string `json:"error"`
		Status int    `json:"status"`
	}

	// MessageResponse is a simple informational response
	MessageResponse struct {
		Message string `json:"message"`
	}

	// StartExecutionRequest begins a run of a workflow
	StartExecutionRequest struct {
		TriggerType NodeSubtype `json:"trigger_type"`
		Payload     Result      `json:"payload,omitempty"`
	}

	// WorkflowsListResponse lists workflow definitions
	WorkflowsListResponse struct {
		Workflows []*Workflow `json:"workflows"`
		Count     int         `json:"count"`
	}

	// ExecutionListItem pairs an execution record with the display name of
	// its workflow. The name is empty when the workflow no longer exists
	ExecutionListItem struct {
		*Execution
		WorkflowName string `json:"workflow_name,omitempty"`
	}

	// ExecutionsListResponse lists executions, most recent first
	ExecutionsListResponse struct {
		Executions []*ExecutionListItem `json:"executions"`
		Count      int                  `json:"count"`
	}

	// ClientSubscription filters the events a WebSocket client receives
	ClientSubscription struct {
		EventTypes []EventType `json:"event_types,omitempty"`
		WorkflowID WorkflowID  `json:"workflow_id,omitempty"`
	}

	// SubscribeRequest is the message a WebSocket client sends to subscribe
	SubscribeRequest struct {
		Type string             `json:"type"`
		Data ClientSubscription `json:"data"`
	}
)
