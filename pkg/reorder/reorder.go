// Package reorder permutes sibling fields within one group of a form
// descriptor. Moves are index-based (drag gestures map to a from/to pair),
// groups are located depth-first since they may nest, and untouched subtrees
// keep referential identity so the caller can cheaply diff descriptors.
package reorder

import "github.com/goliatone/go-formflow/pkg/schema"

// TopLevelGroupID addresses the descriptor's own top-level field list, which
// has no containing group of its own.
const TopLevelGroupID = ""

// Move returns a new descriptor with the element at fromIndex in groupID's
// children removed and reinserted at toIndex. An unknown groupID, an
// out-of-range index, or a from==to move is a no-op returning the original
// descriptor unchanged; the UI may race with a schema reload and that must
// not surface as an error.
func Move(form schema.FormDescriptor, groupID string, fromIndex, toIndex int) schema.FormDescriptor {
	if fromIndex == toIndex {
		return form
	}
	if groupID == TopLevelGroupID {
		moved, ok := moveWithin(form.Fields, fromIndex, toIndex)
		if !ok {
			return form
		}
		form.Fields = moved
		return form
	}

	fields, changed := moveInFields(form.Fields, groupID, fromIndex, toIndex)
	if !changed {
		return form
	}
	form.Fields = fields
	return form
}

// moveInFields searches depth-first for the group and returns a copied slice
// along the path to it; every sibling and untouched subtree is shared.
func moveInFields(fields []schema.FieldDefinition, groupID string, fromIndex, toIndex int) ([]schema.FieldDefinition, bool) {
	for i, field := range fields {
		if !field.IsGroup() {
			continue
		}
		if field.ID == groupID {
			moved, ok := moveWithin(field.Children, fromIndex, toIndex)
			if !ok {
				return fields, false
			}
			out := make([]schema.FieldDefinition, len(fields))
			copy(out, fields)
			out[i].Children = moved
			return out, true
		}
		if nested, ok := moveInFields(field.Children, groupID, fromIndex, toIndex); ok {
			out := make([]schema.FieldDefinition, len(fields))
			copy(out, fields)
			out[i].Children = nested
			return out, true
		}
	}
	return fields, false
}

// moveWithin performs the standard array move into a fresh slice.
func moveWithin(fields []schema.FieldDefinition, fromIndex, toIndex int) ([]schema.FieldDefinition, bool) {
	if fromIndex < 0 || fromIndex >= len(fields) || toIndex < 0 || toIndex >= len(fields) {
		return nil, false
	}
	out := make([]schema.FieldDefinition, 0, len(fields))
	out = append(out, fields[:fromIndex]...)
	out = append(out, fields[fromIndex+1:]...)
	moved := fields[fromIndex]
	out = append(out[:toIndex], append([]schema.FieldDefinition{moved}, out[toIndex:]...)...)
	return out, true
}
