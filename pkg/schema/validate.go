package schema

import (
	"errors"
	"fmt"
)

var errFormIDMissing = errors.New("schema: form id is required")

// Validate checks the descriptor invariants: a non-empty form id, field ids
// unique across the entire tree, groups with non-empty children (and no
// children outside groups), and dependency references that resolve to a field
// somewhere in the tree. The dependee may live in a different top-level group;
// the runtime resolves it against the full flat value map.
func (f FormDescriptor) Validate() error {
	if f.FormID == "" {
		return errFormIDMissing
	}

	ids := make(map[string]struct{})
	if err := collectIDs(f.Fields, ids); err != nil {
		return err
	}

	var err error
	f.Walk(func(field FieldDefinition) bool {
		if field.DynamicOptions != nil && field.DynamicOptions.DependsOn != "" {
			if _, ok := ids[field.DynamicOptions.DependsOn]; !ok {
				err = fmt.Errorf("schema: field %q: dynamicOptions.dependsOn references unknown field %q", field.ID, field.DynamicOptions.DependsOn)
				return false
			}
		}
		if field.Visibility != nil {
			if _, ok := ids[field.Visibility.DependsOn]; !ok {
				err = fmt.Errorf("schema: field %q: visibility.dependsOn references unknown field %q", field.ID, field.Visibility.DependsOn)
				return false
			}
		}
		return true
	})
	return err
}

func collectIDs(fields []FieldDefinition, ids map[string]struct{}) error {
	for _, field := range fields {
		if field.ID == "" {
			return errors.New("schema: field id is required")
		}
		if _, exists := ids[field.ID]; exists {
			return fmt.Errorf("schema: duplicate field id %q", field.ID)
		}
		ids[field.ID] = struct{}{}

		if field.IsGroup() && len(field.Children) == 0 {
			return fmt.Errorf("schema: group %q has no children", field.ID)
		}
		if !field.IsGroup() && len(field.Children) > 0 {
			return fmt.Errorf("schema: field %q is not a group but declares children", field.ID)
		}
		if len(field.Children) > 0 {
			if err := collectIDs(field.Children, ids); err != nil {
				return err
			}
		}
	}
	return nil
}
