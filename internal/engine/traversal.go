package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flowgrid/engine/pkg/api"
	"github.com/flowgrid/engine/pkg/util"
)

// traversal walks one workflow graph depth-first, accumulating the log
// entries of a single execution. The visited set tracks only the current
// path, so a node reachable along two converging branches runs once per
// branch while a back edge is still caught as a cycle
type traversal struct {
	eng      *Engine
	wf       *api.Workflow
	exec     *api.Execution
	visited  util.Set[api.NodeID]
	entries  []*api.LogEntry
	maxDepth int
}

var (
	ErrNoTriggerNode    = errors.New("workflow has no trigger node")
	ErrCycleDetected    = errors.New("cycle detected in workflow graph")
	ErrMaxDepthExceeded = errors.New("max traversal depth exceeded")
	ErrTargetNotFound   = errors.New("edge target not found")
)

func (e *Engine) newTraversal(
	wf *api.Workflow, exec *api.Execution,
) *traversal {
	return &traversal{
		eng:      e,
		wf:       wf,
		exec:     exec,
		visited:  util.Set[api.NodeID]{},
		maxDepth: e.cfg.MaxTraversalDepth,
	}
}

// Run executes the graph from every trigger node in definition order. The
// first node failure aborts the whole run; log entries recorded up to that
// point are preserved
func (t *traversal) Run(ctx context.Context) error {
	triggers := t.wf.TriggerNodes()
	if len(triggers) == 0 {
		return fmt.Errorf("%w: %s", ErrNoTriggerNode, t.wf.ID)
	}
	input := t.exec.TriggerPayload
	for _, trigger := range triggers {
		if err := t.runChain(ctx, trigger, input, 0); err != nil {
			return err
		}
	}
	return nil
}

func (t *traversal) runChain(
	ctx context.Context, node *api.Node, input api.Result, depth int,
) error {
	// the cause distinguishes a user cancel from timeout or parent loss
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}
	if depth >= t.maxDepth {
		return fmt.Errorf("%w: %d at %s", ErrMaxDepthExceeded, depth, node.ID)
	}
	if t.visited.Contains(node.ID) {
		return fmt.Errorf("%w: %s", ErrCycleDetected, node.ID)
	}
	t.visited.Add(node.ID)
	defer t.visited.Remove(node.ID)

	result, err := t.runNode(ctx, node, input)
	if err != nil {
		return err
	}

	for _, edge := range t.wf.EdgesFrom(node.ID) {
		if !followEdge(node, edge, result) {
			continue
		}
		target, ok := t.wf.NodeByID(edge.Target)
		if !ok {
			return fmt.Errorf("%w: %s", ErrTargetNotFound, edge.Target)
		}
		if err := t.runChain(ctx, target, result, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// runNode resolves and invokes a node's executor, recording started and
// completed or failed log entries around the call
func (t *traversal) runNode(
	ctx context.Context, node *api.Node, input api.Result,
) (api.Result, error) {
	t.log(node, api.PhaseStarted, nil, "")
	t.eng.publishNodeEvent(api.EventNodeStarted, t.exec, node, nil)

	executor, err := t.eng.registry.Resolve(node)
	var result api.Result
	if err == nil {
		result, err = executor.Execute(ctx, node, input)
	}
	if err != nil {
		t.log(node, api.PhaseFailed, nil, err.Error())
		t.eng.publishNodeEvent(api.EventNodeFailed, t.exec, node, api.Result{
			"error": err.Error(),
		})
		return nil, err
	}

	t.log(node, api.PhaseCompleted, result, "")
	t.eng.publishNodeEvent(api.EventNodeCompleted, t.exec, node, result)
	return result, nil
}

func (t *traversal) log(
	node *api.Node, phase api.LogPhase, result api.Result, errMsg string,
) {
	t.entries = append(t.entries, &api.LogEntry{
		Timestamp: time.Now(),
		NodeID:    node.ID,
		Category:  node.Category,
		Subtype:   node.Subtype,
		Label:     node.Label,
		Phase:     phase,
		Result:    result,
		Error:     errMsg,
	})
}

// followEdge decides whether traversal continues across an edge. Edges from
// non-condition nodes are always followed, as are unlabeled edges from
// condition nodes. Labeled edges are followed only when the label matches
// the condition's boolean outcome
func followEdge(node *api.Node, edge *api.Edge, result api.Result) bool {
	if !node.IsCondition() || edge.Handle == "" {
		return true
	}
	outcome, _ := result["result"].(bool)
	if outcome {
		return edge.Handle == api.HandleTrue
	}
	return edge.Handle == api.HandleFalse
}
