package api

import (
	"errors"
	"fmt"

	"github.com/flowgrid/engine/pkg/util"
)

type (
	// NodeCategory classifies a node as a trigger, condition, action, or
	// data transform
	NodeCategory string

	// NodeSubtype identifies the concrete behavior within a category
	NodeSubtype string

	// Config is the subtype-specific configuration payload of a node
	Config map[string]any

	// Node is a single typed step in a workflow graph
	Node struct {
		Config   Config       `json:"config,omitempty"`
		ID       NodeID       `json:"id"`
		Category NodeCategory `json:"category"`
		Subtype  NodeSubtype  `json:"subtype"`
		Label    string       `json:"label,omitempty"`
	}

	// Edge connects a source node to a target node. Handle is only
	// meaningful on edges leaving a condition node, where it marks which
	// boolean outcome the edge corresponds to
	Edge struct {
		Source NodeID `json:"source"`
		Target NodeID `json:"target"`
		Handle string `json:"handle,omitempty"`
	}
)

const (
	CategoryTrigger   NodeCategory = "trigger"
	CategoryCondition NodeCategory = "condition"
	CategoryAction    NodeCategory = "action"
	CategoryData      NodeCategory = "data"
)

const (
	TriggerManual        NodeSubtype = "manual"
	TriggerRecordCreated NodeSubtype = "record_created"
	TriggerRecordUpdated NodeSubtype = "record_updated"
	TriggerWebhook       NodeSubtype = "webhook"
	TriggerSchedule      NodeSubtype = "schedule"

	ConditionFieldComparison NodeSubtype = "field_comparison"
	ConditionDatetime        NodeSubtype = "datetime_condition"
	ConditionRoleCheck       NodeSubtype = "role_check"

	ActionCreateRecord NodeSubtype = "create_record"
	ActionUpdateRecord NodeSubtype = "update_record"
	ActionDeleteRecord NodeSubtype = "delete_record"
	ActionSendEmail    NodeSubtype = "send_email"
	ActionExternalAPI  NodeSubtype = "external_api"

	DataFieldMapping NodeSubtype = "field_mapping"
	DataCalculation  NodeSubtype = "calculation"
	DataLookup       NodeSubtype = "data_lookup"
)

const (
	// HandleTrue marks a condition edge followed when the result is true
	HandleTrue = "true"

	// HandleFalse marks a condition edge followed when the result is false
	HandleFalse = "false"
)

var (
	ErrNodeIDEmpty         = errors.New("node ID empty")
	ErrInvalidNodeCategory = errors.New("invalid node category")
	ErrInvalidNodeSubtype  = errors.New("invalid node subtype")
	ErrEdgeSourceEmpty     = errors.New("edge source empty")
	ErrEdgeTargetEmpty     = errors.New("edge target empty")
	ErrInvalidEdgeHandle   = errors.New("invalid edge handle")
)

// Subtypes enumerates the closed set of subtypes per node category
var Subtypes = map[NodeCategory]util.Set[NodeSubtype]{
	CategoryTrigger: util.SetOf(
		TriggerManual,
		TriggerRecordCreated,
		TriggerRecordUpdated,
		TriggerWebhook,
		TriggerSchedule,
	),
	CategoryCondition: util.SetOf(
		ConditionFieldComparison,
		ConditionDatetime,
		ConditionRoleCheck,
	),
	CategoryAction: util.SetOf(
		ActionCreateRecord,
		ActionUpdateRecord,
		ActionDeleteRecord,
		ActionSendEmail,
		ActionExternalAPI,
	),
	CategoryData: util.SetOf(
		DataFieldMapping,
		DataCalculation,
		DataLookup,
	),
}

var validHandles = util.SetOf("", HandleTrue, HandleFalse)

// Validate checks that a node has an ID and a recognized category/subtype
// pairing
func (n *Node) Validate() error {
	if n.ID == "" {
		return ErrNodeIDEmpty
	}

	subtypes, ok := Subtypes[n.Category]
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidNodeCategory, n.Category)
	}
	if !subtypes.Contains(n.Subtype) {
		return fmt.Errorf("%w: %s/%s",
			ErrInvalidNodeSubtype, n.Category, n.Subtype)
	}
	return nil
}

// Validate checks that an edge references both endpoints and carries a
// recognized handle
func (e *Edge) Validate() error {
	if e.Source == "" {
		return ErrEdgeSourceEmpty
	}
	if e.Target == "" {
		return ErrEdgeTargetEmpty
	}
	if !validHandles.Contains(e.Handle) {
		return fmt.Errorf("%w: %q", ErrInvalidEdgeHandle, e.Handle)
	}
	return nil
}

// IsTrigger returns true if the node is a graph entry point
func (n *Node) IsTrigger() bool {
	return n.Category == CategoryTrigger
}

// IsCondition returns true if the node selects outgoing edges by handle
func (n *Node) IsCondition() bool {
	return n.Category == CategoryCondition
}
