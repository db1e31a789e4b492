// Package plan derives the rendering plan for a form descriptor: an ordered
// list of steps, one per top-level group, with standalone top-level fields
// collected into a leading general step.
package plan

import (
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/visibility"
)

// GeneralStepID identifies the synthetic step that collects standalone
// top-level fields.
const GeneralStepID = "general"

// GeneralStepLabel is the display label of the synthetic general step.
const GeneralStepLabel = "General Information"

// Step is one page of a multi-step form.
type Step struct {
	ID     string                   `json:"id"`
	Label  string                   `json:"label"`
	Fields []schema.FieldDefinition `json:"fields"`
}

// Steps partitions the descriptor's top-level fields into steps. Standalone
// fields keep their relative order inside the general step, and each
// top-level group becomes a step of its own, in descriptor order. The general
// step is omitted when every top-level field is a group.
func Steps(form schema.FormDescriptor) []Step {
	var general []schema.FieldDefinition
	var groups []Step

	for _, field := range form.Fields {
		if field.IsGroup() {
			groups = append(groups, Step{
				ID:     field.ID,
				Label:  field.Label,
				Fields: field.Children,
			})
			continue
		}
		general = append(general, field)
	}

	steps := make([]Step, 0, len(groups)+1)
	if len(general) > 0 {
		steps = append(steps, Step{
			ID:     GeneralStepID,
			Label:  GeneralStepLabel,
			Fields: general,
		})
	}
	return append(steps, groups...)
}

// VisibleSteps is Steps with each step's fields filtered through the
// evaluator against the current values. Steps whose fields are all hidden are
// dropped.
func VisibleSteps(form schema.FormDescriptor, values map[string]any, eval visibility.Evaluator) []Step {
	steps := Steps(form)
	out := make([]Step, 0, len(steps))
	for _, step := range steps {
		fields := visibility.FilterFields(step.Fields, values, eval)
		if len(fields) == 0 {
			continue
		}
		step.Fields = fields
		out = append(out, step)
	}
	return out
}
