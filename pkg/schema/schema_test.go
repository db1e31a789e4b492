package schema_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/schema"
)

func TestOptionUnmarshalJSON_BareStringsAndObjects(t *testing.T) {
	var opts []schema.Option
	payload := `["USA", {"label": "Canada", "value": "CA"}, {"value": "DE"}]`
	if err := json.Unmarshal([]byte(payload), &opts); err != nil {
		t.Fatalf("unmarshal options: %v", err)
	}

	want := []schema.Option{
		{Label: "USA", Value: "USA"},
		{Label: "Canada", Value: "CA"},
		{Label: "DE", Value: "DE"},
	}
	if diff := cmp.Diff(want, opts); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeOptionList(t *testing.T) {
	raw := []any{
		"Ontario",
		map[string]any{"label": "Quebec", "value": "QC"},
		map[string]any{"label": "", "value": ""},
		42,
	}

	got := schema.NormalizeOptionList(raw)
	want := []schema.Option{
		{Label: "Ontario", Value: "Ontario"},
		{Label: "Quebec", Value: "QC"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("normalised options mismatch (-want +got):\n%s", diff)
	}

	if got := schema.NormalizeOptionList(nil); got == nil {
		t.Fatal("expected non-nil slice for nil input")
	}
}

func TestFormDescriptorValidate(t *testing.T) {
	valid := schema.FormDescriptor{
		FormID: "life-insurance",
		Fields: []schema.FieldDefinition{
			{ID: "country", Type: schema.FieldTypeSelect, Options: []schema.Option{{Label: "USA", Value: "USA"}}},
			{
				ID:   "address",
				Type: schema.FieldTypeGroup,
				Children: []schema.FieldDefinition{
					{
						ID:   "state",
						Type: schema.FieldTypeSelect,
						DynamicOptions: &schema.DynamicOptions{
							DependsOn: "country",
							Endpoint:  "/api/getStates",
						},
					},
				},
			},
		},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid descriptor rejected: %v", err)
	}

	cases := []struct {
		name    string
		form    schema.FormDescriptor
		wantSub string
	}{
		{
			name:    "missing form id",
			form:    schema.FormDescriptor{Fields: []schema.FieldDefinition{{ID: "a", Type: schema.FieldTypeText}}},
			wantSub: "form id",
		},
		{
			name: "duplicate id across groups",
			form: schema.FormDescriptor{
				FormID: "f",
				Fields: []schema.FieldDefinition{
					{ID: "name", Type: schema.FieldTypeText},
					{ID: "g", Type: schema.FieldTypeGroup, Children: []schema.FieldDefinition{
						{ID: "name", Type: schema.FieldTypeText},
					}},
				},
			},
			wantSub: "duplicate",
		},
		{
			name: "group without children",
			form: schema.FormDescriptor{
				FormID: "f",
				Fields: []schema.FieldDefinition{{ID: "g", Type: schema.FieldTypeGroup}},
			},
			wantSub: "no children",
		},
		{
			name: "unknown visibility dependee",
			form: schema.FormDescriptor{
				FormID: "f",
				Fields: []schema.FieldDefinition{
					{ID: "a", Type: schema.FieldTypeText, Visibility: &schema.Visibility{
						DependsOn: "ghost", Condition: schema.ConditionEquals, Value: "x",
					}},
				},
			},
			wantSub: "unknown field",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.form.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

func TestLeavesSkipsGroups(t *testing.T) {
	form := schema.FormDescriptor{
		FormID: "f",
		Fields: []schema.FieldDefinition{
			{ID: "a", Type: schema.FieldTypeText},
			{ID: "g", Type: schema.FieldTypeGroup, Children: []schema.FieldDefinition{
				{ID: "b", Type: schema.FieldTypeText},
				{ID: "c", Type: schema.FieldTypeText},
			}},
		},
	}

	var ids []string
	for _, leaf := range form.Leaves() {
		ids = append(ids, leaf.ID)
	}
	want := []string{"a", "b", "c"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("leaves mismatch (-want +got):\n%s", diff)
	}
}

func TestFindGroupIgnoresLeaves(t *testing.T) {
	form := schema.FormDescriptor{
		FormID: "f",
		Fields: []schema.FieldDefinition{
			{ID: "a", Type: schema.FieldTypeText},
		},
	}
	if _, ok := form.FindGroup("a"); ok {
		t.Fatal("leaf must not resolve as group")
	}
}

func TestSanitizeStripsMarkup(t *testing.T) {
	form := schema.FormDescriptor{
		FormID: "f",
		Title:  `Life <script>alert(1)</script>Insurance`,
		Fields: []schema.FieldDefinition{
			{
				ID:    "name",
				Type:  schema.FieldTypeText,
				Label: `Full <b>Name</b>`,
				Options: []schema.Option{
					{Label: `<img src=x onerror=alert(1)>Plan A`, Value: "a"},
				},
			},
		},
	}

	clean := schema.Sanitize(form)

	if strings.Contains(clean.Title, "<script>") {
		t.Fatalf("title still carries markup: %q", clean.Title)
	}
	if got := clean.Fields[0].Label; strings.Contains(got, "<b>") {
		t.Fatalf("label still carries markup: %q", got)
	}
	if got := clean.Fields[0].Options[0].Label; strings.Contains(got, "<img") {
		t.Fatalf("option label still carries markup: %q", got)
	}
	// Sanitize must not mutate its input.
	if !strings.Contains(form.Title, "<script>") {
		t.Fatal("input descriptor mutated")
	}
}
