package visibility

import "github.com/goliatone/go-formflow/pkg/schema"

// VisibleLeafIDs returns the ids of every leaf field whose own visibility
// rule is currently satisfied, in document order. Group visibility is a
// rendering concern and does not gate a child's validation, so only the
// leaf's own rule is consulted here.
func VisibleLeafIDs(form schema.FormDescriptor, values map[string]any, evaluator Evaluator) []string {
	if evaluator == nil {
		evaluator = Default()
	}
	var out []string
	form.Walk(func(field schema.FieldDefinition) bool {
		if field.IsGroup() {
			return true
		}
		if evaluator.Visible(field, values) {
			out = append(out, field.ID)
		}
		return true
	})
	return out
}

// FilterFields returns the subset of fields visible under the current values,
// recursing into groups. Hiding a group hides its children.
func FilterFields(fields []schema.FieldDefinition, values map[string]any, evaluator Evaluator) []schema.FieldDefinition {
	if evaluator == nil {
		evaluator = Default()
	}
	out := make([]schema.FieldDefinition, 0, len(fields))
	for _, field := range fields {
		if !evaluator.Visible(field, values) {
			continue
		}
		if len(field.Children) > 0 {
			field.Children = FilterFields(field.Children, values, evaluator)
		}
		out = append(out, field)
	}
	return out
}
