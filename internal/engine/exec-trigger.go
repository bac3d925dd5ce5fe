package engine

import (
	"context"
	"time"

	"github.com/flowgrid/engine/pkg/api"
	"github.com/flowgrid/engine/pkg/util"
)

// TriggerExecutor activates workflow entry points. It never fails; the
// trigger payload is carried into the result so downstream conditions and
// transforms can reference it
type TriggerExecutor struct{}

func (*TriggerExecutor) Subtypes() util.Set[api.NodeSubtype] {
	return api.Subtypes[api.CategoryTrigger]
}

func (*TriggerExecutor) Execute(
	_ context.Context, node *api.Node, input api.Result,
) (api.Result, error) {
	return api.Result{
		"activated": true,
		"trigger":   node.Subtype,
		"at":        time.Now().UnixMilli(),
		"payload":   input,
	}, nil
}
