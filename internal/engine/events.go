package engine

import (
	"time"

	"github.com/flowgrid/engine/pkg/api"
)

// statusEvents maps a terminal execution status to the event type announcing
// it
var statusEvents = map[api.ExecutionStatus]api.EventType{
	api.ExecutionCompleted: api.EventExecutionCompleted,
	api.ExecutionFailed:    api.EventExecutionFailed,
	api.ExecutionCancelled: api.EventExecutionCancelled,
}

func (e *Engine) publish(ev *api.Event) {
	if ev.Timestamp == 0 {
		ev.Timestamp = time.Now().UnixMilli()
	}
	e.prod.Send() <- ev
}

func (e *Engine) publishExecutionEvent(
	typ api.EventType, exec *api.Execution,
) {
	data := api.Result{"status": exec.Status}
	if exec.Error != "" {
		data["error"] = exec.Error
	}
	e.publish(&api.Event{
		Type:        typ,
		WorkflowID:  exec.WorkflowID,
		ExecutionID: exec.ID,
		Data:        data,
	})
}

func (e *Engine) publishNodeEvent(
	typ api.EventType, exec *api.Execution, node *api.Node, data any,
) {
	e.publish(&api.Event{
		Type:        typ,
		WorkflowID:  exec.WorkflowID,
		ExecutionID: exec.ID,
		NodeID:      node.ID,
		Data:        data,
	})
}
