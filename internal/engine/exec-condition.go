package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/flowgrid/engine/pkg/api"
	"github.com/flowgrid/engine/pkg/util"
)

// ConditionExecutor evaluates condition nodes to a boolean outcome. The
// outcome steers traversal along the "true" or "false" handled edges of the
// node; the node itself never fails on a false outcome, only on a
// malformed configuration or an unparseable operand
type ConditionExecutor struct{}

const (
	OpEquals      = "equals"
	OpNotEquals   = "not_equals"
	OpGreaterThan = "greater_than"
	OpLessThan    = "less_than"
	OpContains    = "contains"

	OpBefore = "before"
	OpAfter  = "after"
)

var (
	ErrFieldRequired   = errors.New("condition field is required")
	ErrRolesRequired   = errors.New("role_check roles are required")
	ErrUnknownOperator = errors.New("unknown condition operator")
	ErrBadTimestamp    = errors.New("unparseable timestamp")
)

func (*ConditionExecutor) Subtypes() util.Set[api.NodeSubtype] {
	return api.Subtypes[api.CategoryCondition]
}

func (e *ConditionExecutor) Execute(
	_ context.Context, node *api.Node, input api.Result,
) (api.Result, error) {
	var outcome bool
	var err error
	switch node.Subtype {
	case api.ConditionFieldComparison:
		outcome, err = e.compareField(node.Config, input)
	case api.ConditionDatetime:
		outcome, err = e.compareDatetime(node.Config, input)
	case api.ConditionRoleCheck:
		outcome, err = e.checkRole(node.Config, input)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownNodeSubtype, node.Subtype)
	}
	if err != nil {
		return nil, err
	}
	return api.Result{
		"condition": node.Subtype,
		"result":    outcome,
	}, nil
}

func (*ConditionExecutor) compareField(
	cfg api.Config, input api.Result,
) (bool, error) {
	field, _ := cfg["field"].(string)
	if field == "" {
		return false, ErrFieldRequired
	}
	operator, _ := cfg["operator"].(string)
	if operator == "" {
		operator = OpEquals
	}
	want := cfg["value"]

	got := lookupField(input, field)
	switch operator {
	case OpEquals:
		return looseEqual(got, want), nil
	case OpNotEquals:
		return !looseEqual(got, want), nil
	case OpGreaterThan:
		return got.Float() > toFloat(want), nil
	case OpLessThan:
		return got.Float() < toFloat(want), nil
	case OpContains:
		return strings.Contains(got.String(), fmt.Sprint(want)), nil
	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownOperator, operator)
	}
}

func (*ConditionExecutor) compareDatetime(
	cfg api.Config, input api.Result,
) (bool, error) {
	operator, _ := cfg["operator"].(string)
	value, _ := cfg["value"].(string)
	pivot, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return false, fmt.Errorf("%w: %q", ErrBadTimestamp, value)
	}

	when := time.Now()
	if field, _ := cfg["field"].(string); field != "" {
		raw := lookupField(input, field).String()
		when, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return false, fmt.Errorf("%w: %q", ErrBadTimestamp, raw)
		}
	}

	switch operator {
	case OpBefore:
		return when.Before(pivot), nil
	case OpAfter:
		return when.After(pivot), nil
	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownOperator, operator)
	}
}

func (*ConditionExecutor) checkRole(
	cfg api.Config, input api.Result,
) (bool, error) {
	roles, _ := cfg["roles"].([]any)
	if len(roles) == 0 {
		return false, ErrRolesRequired
	}
	field, _ := cfg["field"].(string)
	if field == "" {
		field = "payload.role"
	}
	role := lookupField(input, field).String()
	for _, allowed := range roles {
		if role == fmt.Sprint(allowed) {
			return true, nil
		}
	}
	return false, nil
}

// lookupField resolves a dotted path against an upstream result. A path
// that does not exist resolves to a null result rather than an error
func lookupField(input api.Result, path string) gjson.Result {
	data, err := json.Marshal(input)
	if err != nil {
		return gjson.Result{}
	}
	return gjson.GetBytes(data, path)
}

// looseEqual compares a resolved field to a configured value, matching
// numbers numerically and everything else by string form. Configurations
// arrive as decoded JSON, so numeric values are float64
func looseEqual(got gjson.Result, want any) bool {
	if !got.Exists() {
		return want == nil
	}
	switch w := want.(type) {
	case nil:
		return got.Type == gjson.Null
	case bool:
		return got.IsBool() && got.Bool() == w
	case float64:
		return got.Type == gjson.Number && got.Num == w
	case int:
		return got.Type == gjson.Number && got.Num == float64(w)
	default:
		return got.String() == fmt.Sprint(want)
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		return gjson.Parse(n).Float()
	default:
		return 0
	}
}
