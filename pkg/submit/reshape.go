// Package submit converts the flat control-value map into the nested payload
// the remote service expects: group children re-nested under the group's id,
// multi-option checkbox answers coerced to arrays, and the whole wrapped in a
// submission envelope.
package submit

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Payload is the nested submission shape keyed by field ids.
type Payload map[string]any

// ErrReshape is returned in strict mode when reshaping fails.
var ErrReshape = errors.New("submit: reshape failed")

// Reshaper converts flat value maps to nested payloads. The zero value (via
// NewReshaper) recovers from malformed descriptors by logging and passing the
// flat map through unchanged, so a broken schema cannot block submission.
// That lenient fallback can ship a malformed payload; WithStrict trades it
// for a hard submission failure instead.
type Reshaper struct {
	logger *zap.Logger
	strict bool
}

// ReshaperOption configures a Reshaper.
type ReshaperOption func(*Reshaper)

// WithLogger attaches a logger for fallback events.
func WithLogger(logger *zap.Logger) ReshaperOption {
	return func(r *Reshaper) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithStrict makes reshape failures abort the submission instead of falling
// back to the unmodified flat map.
func WithStrict() ReshaperOption {
	return func(r *Reshaper) { r.strict = true }
}

// NewReshaper constructs a Reshaper.
func NewReshaper(options ...ReshaperOption) *Reshaper {
	r := &Reshaper{logger: zap.NewNop()}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Reshape produces the nested payload for the descriptor. Applying it to its
// own output is undefined; callers reshape the flat map exactly once, at
// submit time.
func (r *Reshaper) Reshape(values map[string]any, form schema.FormDescriptor) (payload Payload, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			reason := fmt.Errorf("%w: %v", ErrReshape, recovered)
			if r.strict {
				payload, err = nil, reason
				return
			}
			r.logger.Warn("reshape failed; submitting flat values unmodified", zap.Error(reason))
			payload, err = shallowCopy(values), nil
		}
	}()

	result := shallowCopy(values)
	nestGroups(form.Fields, result)
	normalizeCheckboxes(form.Fields, result)
	return result, nil
}

// Reshape is the package-level convenience using a lenient, silent reshaper.
func Reshape(values map[string]any, form schema.FormDescriptor) Payload {
	payload, _ := NewReshaper().Reshape(values, form)
	return payload
}

// nestGroups moves each group child's answer under the group's id. Groups are
// processed depth-first so an inner group's object is materialised before its
// parent collects it.
func nestGroups(fields []schema.FieldDefinition, result Payload) {
	for _, field := range fields {
		if !field.IsGroup() {
			continue
		}
		nestGroups(field.Children, result)

		nested, ok := result[field.ID].(map[string]any)
		if !ok {
			nested = make(map[string]any)
		}
		for _, child := range field.Children {
			value, defined := result[child.ID]
			if !defined {
				continue
			}
			nested[child.ID] = value
			delete(result, child.ID)
		}
		result[field.ID] = nested
	}
}

// normalizeCheckboxes wraps stray scalar answers of multi-option checkboxes
// in a single-element array. An upstream control occasionally reports a lone
// selection as a scalar.
func normalizeCheckboxes(fields []schema.FieldDefinition, result Payload) {
	for _, field := range fields {
		if field.IsGroup() {
			if nested, ok := result[field.ID].(map[string]any); ok {
				normalizeCheckboxes(field.Children, nested)
			}
			continue
		}
		if !field.MultiValued() {
			continue
		}
		value, ok := result[field.ID]
		if !ok || value == nil {
			continue
		}
		switch typed := value.(type) {
		case []string, []any:
			// already an array
		case string:
			result[field.ID] = []string{typed}
		default:
			result[field.ID] = []any{typed}
		}
	}
}

func shallowCopy(values map[string]any) Payload {
	out := make(Payload, len(values))
	for key, value := range values {
		out[key] = value
	}
	return out
}
