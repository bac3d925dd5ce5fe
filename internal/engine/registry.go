package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/flowgrid/engine/pkg/api"
	"github.com/flowgrid/engine/pkg/util"
)

type (
	// Executor runs the nodes of a single category. Executors are pure with
	// respect to the execution log: they receive a node and its upstream
	// result and return a structured result or an error. They must be safe
	// to call repeatedly with the same input
	Executor interface {
		Subtypes() util.Set[api.NodeSubtype]
		Execute(
			ctx context.Context, node *api.Node, input api.Result,
		) (api.Result, error)
	}

	// Registry maps node categories to their executors
	Registry map[api.NodeCategory]Executor
)

var (
	ErrUnknownNodeCategory = errors.New("unknown node category")
	ErrUnknownNodeSubtype  = errors.New("unknown node subtype")
	ErrExecutorNil         = errors.New("executor is nil")
	ErrSubtypeNotDeclared  = errors.New(
		"executor subtype not declared for category",
	)
)

// NewRegistry creates a Registry with the built-in executors for every node
// category, validating each executor's subtypes against the category's
// declared set
func NewRegistry() (Registry, error) {
	r := Registry{}
	executors := map[api.NodeCategory]Executor{
		api.CategoryTrigger:   &TriggerExecutor{},
		api.CategoryCondition: &ConditionExecutor{},
		api.CategoryAction:    &ActionExecutor{},
		api.CategoryData:      &DataExecutor{},
	}
	for category, executor := range executors {
		if err := r.Register(category, executor); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds an executor for a category. Every subtype the executor
// claims must belong to the category's declared subtype set, so unknown
// subtypes surface at startup rather than mid-run
func (r Registry) Register(
	category api.NodeCategory, executor Executor,
) error {
	if executor == nil {
		return fmt.Errorf("%w: %s", ErrExecutorNil, category)
	}
	declared, ok := api.Subtypes[category]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNodeCategory, category)
	}
	for subtype := range executor.Subtypes() {
		if !declared.Contains(subtype) {
			return fmt.Errorf("%w: %s/%s",
				ErrSubtypeNotDeclared, category, subtype)
		}
	}
	r[category] = executor
	return nil
}

// Resolve returns the executor for a node, or an error if the node's
// category or subtype is not recognized
func (r Registry) Resolve(node *api.Node) (Executor, error) {
	executor, ok := r[node.Category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNodeCategory, node.Category)
	}
	if !executor.Subtypes().Contains(node.Subtype) {
		return nil, fmt.Errorf("%w: %s/%s",
			ErrUnknownNodeSubtype, node.Category, node.Subtype)
	}
	return executor, nil
}
