package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/flowgrid/engine/pkg/api"
	"github.com/flowgrid/engine/pkg/util"
)

// DataExecutor runs the transform nodes that reshape upstream results into
// the inputs later nodes expect
type DataExecutor struct{}

const (
	OpAdd      = "add"
	OpSubtract = "subtract"
	OpMultiply = "multiply"
	OpDivide   = "divide"
)

var (
	ErrMappingsRequired = errors.New("field_mapping mappings are required")
	ErrOperandsRequired = errors.New("calculation needs at least one operand")
	ErrTableRequired    = errors.New("data_lookup table is required")
	ErrDivideByZero     = errors.New("division by zero")
	ErrUnknownOperation = errors.New("unknown calculation operation")
)

func (*DataExecutor) Subtypes() util.Set[api.NodeSubtype] {
	return api.Subtypes[api.CategoryData]
}

func (e *DataExecutor) Execute(
	_ context.Context, node *api.Node, input api.Result,
) (api.Result, error) {
	switch node.Subtype {
	case api.DataFieldMapping:
		return e.mapFields(node.Config, input)
	case api.DataCalculation:
		return e.calculate(node.Config, input)
	case api.DataLookup:
		return e.lookup(node.Config, input)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownNodeSubtype, node.Subtype)
	}
}

// mapFields projects dotted paths out of the upstream result into a flat
// set of named fields
func (*DataExecutor) mapFields(
	cfg api.Config, input api.Result,
) (api.Result, error) {
	mappings, _ := cfg["mappings"].(map[string]any)
	if len(mappings) == 0 {
		return nil, ErrMappingsRequired
	}
	fields := map[string]any{}
	for name, path := range mappings {
		fields[name] = lookupField(input, fmt.Sprint(path)).Value()
	}
	return api.Result{
		"data":   api.DataFieldMapping,
		"fields": fields,
	}, nil
}

// calculate folds the configured operation over the operand list. Numeric
// operands are used as-is; string operands are resolved as paths into the
// upstream result
func (*DataExecutor) calculate(
	cfg api.Config, input api.Result,
) (api.Result, error) {
	operation, _ := cfg["operation"].(string)
	switch operation {
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, operation)
	}
	operands, _ := cfg["operands"].([]any)
	if len(operands) == 0 {
		return nil, ErrOperandsRequired
	}

	acc := resolveOperand(input, operands[0])
	for _, raw := range operands[1:] {
		operand := resolveOperand(input, raw)
		switch operation {
		case OpAdd:
			acc += operand
		case OpSubtract:
			acc -= operand
		case OpMultiply:
			acc *= operand
		case OpDivide:
			if operand == 0 {
				return nil, ErrDivideByZero
			}
			acc /= operand
		}
	}
	return api.Result{
		"data":      api.DataCalculation,
		"operation": operation,
		"value":     acc,
	}, nil
}

func (*DataExecutor) lookup(
	cfg api.Config, input api.Result,
) (api.Result, error) {
	table, _ := cfg["table"].(string)
	if table == "" {
		return nil, ErrTableRequired
	}
	key := cfg["key"]
	if path, ok := key.(string); ok {
		if resolved := lookupField(input, path); resolved.Exists() {
			key = resolved.Value()
		}
	}
	return api.Result{
		"data":      api.DataLookup,
		"simulated": true,
		"table":     table,
		"key":       key,
		"found":     false,
	}, nil
}

func resolveOperand(input api.Result, raw any) float64 {
	if path, ok := raw.(string); ok {
		return lookupField(input, path).Float()
	}
	return toFloat(raw)
}
