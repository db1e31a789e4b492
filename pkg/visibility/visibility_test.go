package visibility_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/visibility"
)

func field(id string, vis *schema.Visibility) schema.FieldDefinition {
	return schema.FieldDefinition{ID: id, Type: schema.FieldTypeText, Visibility: vis}
}

func equals(dependsOn string, value any) *schema.Visibility {
	return &schema.Visibility{DependsOn: dependsOn, Condition: schema.ConditionEquals, Value: value}
}

func TestIsVisible(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		field  schema.FieldDefinition
		values map[string]any
		want   bool
	}{
		{
			name:  "no rule is always visible",
			field: field("a", nil),
			want:  true,
		},
		{
			name:   "equals match",
			field:  field("state", equals("country", "USA")),
			values: map[string]any{"country": "USA"},
			want:   true,
		},
		{
			name:   "equals mismatch",
			field:  field("state", equals("country", "USA")),
			values: map[string]any{"country": "Canada"},
			want:   false,
		},
		{
			name:   "undefined dependee hides",
			field:  field("state", equals("country", "USA")),
			values: map[string]any{},
			want:   false,
		},
		{
			name:   "unknown condition hides",
			field:  field("state", &schema.Visibility{DependsOn: "country", Condition: "contains", Value: "US"}),
			values: map[string]any{"country": "USA"},
			want:   false,
		},
		{
			name:   "numeric kinds unify",
			field:  field("extra", equals("count", float64(2))),
			values: map[string]any{"count": 2},
			want:   true,
		},
		{
			name:   "no cross-type coercion",
			field:  field("extra", equals("count", "2")),
			values: map[string]any{"count": 2},
			want:   false,
		},
		{
			name:   "bool comparison",
			field:  field("details", equals("hasPet", true)),
			values: map[string]any{"hasPet": true},
			want:   true,
		},
		{
			name:   "nil dependee value never equals non-nil",
			field:  field("state", equals("country", "USA")),
			values: map[string]any{"country": nil},
			want:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := visibility.IsVisible(tc.field, tc.values); got != tc.want {
				t.Fatalf("IsVisible = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestVisibleLeafIDs_GroupRuleDoesNotGateChildren(t *testing.T) {
	t.Parallel()

	form := schema.FormDescriptor{
		FormID: "f",
		Fields: []schema.FieldDefinition{
			{ID: "hasPet", Type: schema.FieldTypeSwitch},
			{
				ID:         "pet",
				Type:       schema.FieldTypeGroup,
				Visibility: equals("hasPet", true),
				Children: []schema.FieldDefinition{
					{ID: "petName", Type: schema.FieldTypeText},
				},
			},
		},
	}

	got := visibility.VisibleLeafIDs(form, map[string]any{"hasPet": false}, nil)
	want := []string{"hasPet", "petName"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("visible leaves mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterFields_HiddenGroupHidesChildren(t *testing.T) {
	t.Parallel()

	fields := []schema.FieldDefinition{
		{ID: "hasPet", Type: schema.FieldTypeSwitch},
		{
			ID:         "pet",
			Type:       schema.FieldTypeGroup,
			Visibility: equals("hasPet", true),
			Children: []schema.FieldDefinition{
				{ID: "petName", Type: schema.FieldTypeText},
			},
		},
	}

	visible := visibility.FilterFields(fields, map[string]any{"hasPet": false}, nil)
	if len(visible) != 1 || visible[0].ID != "hasPet" {
		t.Fatalf("expected only hasPet, got %+v", visible)
	}

	visible = visibility.FilterFields(fields, map[string]any{"hasPet": true}, nil)
	if len(visible) != 2 || len(visible[1].Children) != 1 {
		t.Fatalf("expected group with child, got %+v", visible)
	}
}
