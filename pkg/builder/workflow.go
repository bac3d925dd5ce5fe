package builder

import (
	"slices"
	"time"

	"github.com/flowgrid/engine/pkg/api"
)

// Workflow accumulates nodes and edges toward a validated api.Workflow
type Workflow struct {
	id      api.WorkflowID
	name    string
	ownerID string
	nodes   []*api.Node
	edges   []*api.Edge
	enabled bool
}

// NewWorkflow creates a workflow builder. Workflows are enabled by default
func NewWorkflow(id api.WorkflowID, name string) *Workflow {
	return &Workflow{
		id:      api.SanitizeID(id),
		name:    name,
		enabled: true,
	}
}

// WithOwner sets the owning user of the workflow
func (w *Workflow) WithOwner(ownerID string) *Workflow {
	res := *w
	res.ownerID = ownerID
	return &res
}

// WithEnabled sets whether the workflow accepts executions
func (w *Workflow) WithEnabled(enabled bool) *Workflow {
	res := *w
	res.enabled = enabled
	return &res
}

// WithNode adds a node of any category
func (w *Workflow) WithNode(node *api.Node) *Workflow {
	res := *w
	res.nodes = append(slices.Clip(slices.Clone(w.nodes)), node)
	return &res
}

// WithTrigger adds a trigger node
func (w *Workflow) WithTrigger(
	id api.NodeID, subtype api.NodeSubtype, cfg api.Config,
) *Workflow {
	return w.WithNode(&api.Node{
		ID:       api.SanitizeID(id),
		Category: api.CategoryTrigger,
		Subtype:  subtype,
		Config:   cfg,
	})
}

// WithCondition adds a condition node
func (w *Workflow) WithCondition(
	id api.NodeID, subtype api.NodeSubtype, cfg api.Config,
) *Workflow {
	return w.WithNode(&api.Node{
		ID:       api.SanitizeID(id),
		Category: api.CategoryCondition,
		Subtype:  subtype,
		Config:   cfg,
	})
}

// WithAction adds an action node
func (w *Workflow) WithAction(
	id api.NodeID, subtype api.NodeSubtype, cfg api.Config,
) *Workflow {
	return w.WithNode(&api.Node{
		ID:       api.SanitizeID(id),
		Category: api.CategoryAction,
		Subtype:  subtype,
		Config:   cfg,
	})
}

// WithData adds a data transform node
func (w *Workflow) WithData(
	id api.NodeID, subtype api.NodeSubtype, cfg api.Config,
) *Workflow {
	return w.WithNode(&api.Node{
		ID:       api.SanitizeID(id),
		Category: api.CategoryData,
		Subtype:  subtype,
		Config:   cfg,
	})
}

// WithEdge adds an unlabeled edge between two nodes
func (w *Workflow) WithEdge(source, target api.NodeID) *Workflow {
	return w.withEdge(source, target, "")
}

// WithTrueEdge adds an edge followed when its condition source is true
func (w *Workflow) WithTrueEdge(source, target api.NodeID) *Workflow {
	return w.withEdge(source, target, api.HandleTrue)
}

// WithFalseEdge adds an edge followed when its condition source is false
func (w *Workflow) WithFalseEdge(source, target api.NodeID) *Workflow {
	return w.withEdge(source, target, api.HandleFalse)
}

func (w *Workflow) withEdge(
	source, target api.NodeID, handle string,
) *Workflow {
	res := *w
	res.edges = append(slices.Clip(slices.Clone(w.edges)), &api.Edge{
		Source: source,
		Target: target,
		Handle: handle,
	})
	return &res
}

// Build assembles and validates the workflow
func (w *Workflow) Build() (*api.Workflow, error) {
	now := time.Now()
	wf := &api.Workflow{
		CreatedAt: now,
		UpdatedAt: now,
		ID:        w.id,
		Name:      w.name,
		OwnerID:   w.ownerID,
		Nodes:     w.nodes,
		Edges:     w.edges,
		Enabled:   w.enabled,
	}
	if err := wf.Validate(); err != nil {
		return nil, err
	}
	return wf, nil
}
