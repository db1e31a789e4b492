// Package visibility decides whether a field is rendered and validated given
// the current flat value map. The contract supports a single condition,
// "equals", with strict comparison; unknown conditions hide the field rather
// than failing, and an undefined dependee simply keeps the field hidden.
package visibility

import "github.com/goliatone/go-formflow/pkg/schema"

// Evaluator determines whether a field should be visible given the current
// values. Implementations must be pure: the session re-evaluates on every
// value change.
type Evaluator interface {
	Visible(field schema.FieldDefinition, values map[string]any) bool
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(field schema.FieldDefinition, values map[string]any) bool

// Visible delegates to the underlying function.
func (fn EvaluatorFunc) Visible(field schema.FieldDefinition, values map[string]any) bool {
	return fn(field, values)
}

// Default returns the contract evaluator backed by IsVisible.
func Default() Evaluator {
	return EvaluatorFunc(IsVisible)
}

// IsVisible reports whether the field is currently visible. Fields without a
// visibility rule are always visible.
func IsVisible(field schema.FieldDefinition, values map[string]any) bool {
	rule := field.Visibility
	if rule == nil {
		return true
	}
	if rule.Condition != schema.ConditionEquals {
		return false
	}
	current, ok := values[rule.DependsOn]
	if !ok {
		// An undefined dependee never satisfies equals, even against nil.
		return false
	}
	return strictEquals(current, rule.Value)
}

// strictEquals compares without coercion. Numeric values are compared as
// numbers regardless of Go's concrete type, since the wire format carries a
// single number kind; everything else must match in both type and value.
func strictEquals(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if fa, ok := asNumber(a); ok {
		fb, ok := asNumber(b)
		return ok && fa == fb
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		return false
	}
}

func asNumber(v any) (float64, bool) {
	switch typed := v.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	default:
		return 0, false
	}
}
