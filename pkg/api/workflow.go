package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/flowgrid/engine/pkg/util"
)

// Workflow is an automation definition: a directed graph of typed nodes.
// Created and edited by the external editor; read-only to the engine during
// a run
type Workflow struct {
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ID        WorkflowID `json:"id"`
	Name      string     `json:"name"`
	OwnerID   string     `json:"owner_id,omitempty"`
	Nodes     []*Node    `json:"nodes"`
	Edges     []*Edge    `json:"edges"`
	Enabled   bool       `json:"enabled"`
}

var (
	ErrWorkflowIDEmpty   = errors.New("workflow ID empty")
	ErrWorkflowNameEmpty = errors.New("workflow name empty")
	ErrDuplicateNodeID   = errors.New("duplicate node ID")
	ErrUnknownEdgeNode   = errors.New("edge references unknown node")
	ErrDuplicateHandle   = errors.New(
		"condition node has multiple outgoing edges for handle",
	)
)

// Validate checks the workflow's nodes, edges, and graph invariants: node IDs
// are unique, edges reference existing nodes, and a condition node has at
// most one outgoing edge per handle value
func (w *Workflow) Validate() error {
	if w.ID == "" {
		return ErrWorkflowIDEmpty
	}
	if w.Name == "" {
		return ErrWorkflowNameEmpty
	}

	ids := make(util.Set[NodeID], len(w.Nodes))
	for _, node := range w.Nodes {
		if err := node.Validate(); err != nil {
			return err
		}
		if ids.Contains(node.ID) {
			return fmt.Errorf("%w: %s", ErrDuplicateNodeID, node.ID)
		}
		ids.Add(node.ID)
	}

	handles := util.Set[string]{}
	for _, edge := range w.Edges {
		if err := edge.Validate(); err != nil {
			return err
		}
		if !ids.Contains(edge.Source) {
			return fmt.Errorf("%w: %s", ErrUnknownEdgeNode, edge.Source)
		}
		if !ids.Contains(edge.Target) {
			return fmt.Errorf("%w: %s", ErrUnknownEdgeNode, edge.Target)
		}
		if edge.Handle == "" {
			continue
		}
		key := string(edge.Source) + "/" + edge.Handle
		if handles.Contains(key) {
			return fmt.Errorf("%w: %s %q",
				ErrDuplicateHandle, edge.Source, edge.Handle)
		}
		handles.Add(key)
	}

	return nil
}

// NodeByID returns the node with the given ID, if present
func (w *Workflow) NodeByID(id NodeID) (*Node, bool) {
	for _, node := range w.Nodes {
		if node.ID == id {
			return node, true
		}
	}
	return nil, false
}

// EdgesFrom returns the outgoing edges of a node in definition order
func (w *Workflow) EdgesFrom(id NodeID) []*Edge {
	var edges []*Edge
	for _, edge := range w.Edges {
		if edge.Source == id {
			edges = append(edges, edge)
		}
	}
	return edges
}

// TriggerNodes returns the workflow's trigger nodes in definition order
func (w *Workflow) TriggerNodes() []*Node {
	var triggers []*Node
	for _, node := range w.Nodes {
		if node.IsTrigger() {
			triggers = append(triggers, node)
		}
	}
	return triggers
}
