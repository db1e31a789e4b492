package schema

// WalkFields visits every field in the list depth-first, parents before
// children. The visitor returns false to stop the walk early.
func WalkFields(fields []FieldDefinition, visit func(field FieldDefinition) bool) bool {
	for _, field := range fields {
		if !visit(field) {
			return false
		}
		if len(field.Children) > 0 {
			if !WalkFields(field.Children, visit) {
				return false
			}
		}
	}
	return true
}

// Walk visits every field in the descriptor depth-first.
func (f FormDescriptor) Walk(visit func(field FieldDefinition) bool) {
	WalkFields(f.Fields, visit)
}

// FindField locates a field by id anywhere in the tree.
func (f FormDescriptor) FindField(id string) (FieldDefinition, bool) {
	var found FieldDefinition
	ok := false
	f.Walk(func(field FieldDefinition) bool {
		if field.ID == id {
			found = field
			ok = true
			return false
		}
		return true
	})
	return found, ok
}

// FindGroup locates a group field by id, depth-first. Groups may nest, so the
// search covers the whole tree.
func (f FormDescriptor) FindGroup(id string) (FieldDefinition, bool) {
	field, ok := f.FindField(id)
	if !ok || !field.IsGroup() {
		return FieldDefinition{}, false
	}
	return field, true
}

// Leaves returns every non-group field in document order.
func (f FormDescriptor) Leaves() []FieldDefinition {
	var out []FieldDefinition
	f.Walk(func(field FieldDefinition) bool {
		if !field.IsGroup() {
			out = append(out, field)
		}
		return true
	})
	return out
}
