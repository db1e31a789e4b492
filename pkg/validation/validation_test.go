package validation_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/validation"
)

func float(v float64) *float64 { return &v }

func testForm() schema.FormDescriptor {
	return schema.FormDescriptor{
		FormID: "health-insurance",
		Fields: []schema.FieldDefinition{
			{ID: "fullName", Label: "Full Name", Type: schema.FieldTypeText, Required: true},
			{ID: "email", Label: "Email", Type: schema.FieldTypeEmail, Required: true},
			{ID: "phone", Label: "Phone", Type: schema.FieldTypeTel},
			{ID: "age", Label: "Age", Type: schema.FieldTypeNumber, Validation: &schema.Validation{Min: float(18), Max: float(99)}},
			{ID: "birthDate", Label: "Birth Date", Type: schema.FieldTypeDate},
			{
				ID: "coverage", Label: "Coverage", Type: schema.FieldTypeCheckbox, Required: true,
				Options: []schema.Option{{Label: "Dental", Value: "dental"}, {Label: "Vision", Value: "vision"}},
			},
			{ID: "smoker", Label: "Smoker", Type: schema.FieldTypeSwitch},
			{
				ID: "smokerDetails", Label: "Details", Type: schema.FieldTypeText, Required: true,
				Visibility: &schema.Visibility{DependsOn: "smoker", Condition: schema.ConditionEquals, Value: true},
			},
		},
	}
}

func TestBuild_ExcludesInvisibleFields(t *testing.T) {
	form := testForm()

	hidden := validation.Build(form, map[string]any{"smoker": false})
	for _, field := range hidden.Fields {
		if field.FieldID == "smokerDetails" {
			t.Fatal("invisible field present in schema")
		}
	}

	shown := validation.Build(form, map[string]any{"smoker": true})
	found := false
	for _, field := range shown.Fields {
		if field.FieldID == "smokerDetails" {
			found = true
		}
	}
	if !found {
		t.Fatal("visible field missing from schema")
	}
}

func TestBuild_InvisibleRequiredFieldNeverBlocks(t *testing.T) {
	form := testForm()
	values := map[string]any{
		"fullName": "Ada Lovelace",
		"email":    "ada@example.com",
		"coverage": []string{"dental"},
		"smoker":   false,
	}

	result := validation.Build(form, values).Validate(values)
	if !result.Valid {
		t.Fatalf("expected valid, got issues: %+v", result.Issues)
	}
}

func TestBuilder_MemoisesOnVisibleSet(t *testing.T) {
	builder := validation.NewBuilder()
	form := testForm()

	a := builder.Build(form, map[string]any{"fullName": "x", "smoker": false})
	b := builder.Build(form, map[string]any{"fullName": "y", "smoker": false})
	if a != b {
		t.Fatal("same visible set must hit the cache")
	}

	c := builder.Build(form, map[string]any{"smoker": true})
	if a == c {
		t.Fatal("changed visible set must rebuild")
	}
}

func TestValidate_Messages(t *testing.T) {
	form := testForm()

	cases := []struct {
		name    string
		values  map[string]any
		fieldID string
		want    string
	}{
		{
			name:    "required text uses label",
			values:  map[string]any{},
			fieldID: "fullName",
			want:    "Full Name is required",
		},
		{
			name:    "required multi checkbox",
			values:  map[string]any{},
			fieldID: "coverage",
			want:    "At least one option must be selected",
		},
		{
			name:    "invalid email",
			values:  map[string]any{"email": "not-an-email"},
			fieldID: "email",
			want:    "Invalid email address",
		},
		{
			name:    "invalid phone",
			values:  map[string]any{"phone": "123"},
			fieldID: "phone",
			want:    "Phone number must be 10 digits",
		},
		{
			name:    "below minimum",
			values:  map[string]any{"age": 17},
			fieldID: "age",
			want:    "Value must be at least 18",
		},
		{
			name:    "above maximum",
			values:  map[string]any{"age": 120},
			fieldID: "age",
			want:    "Value must be at most 99",
		},
		{
			name:    "bad date",
			values:  map[string]any{"birthDate": "01/02/1990"},
			fieldID: "birthDate",
			want:    "Invalid date format (YYYY-MM-DD)",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := validation.Build(form, tc.values).Validate(tc.values)
			msg, ok := result.MessageFor(tc.fieldID)
			if !ok {
				t.Fatalf("no issue recorded for %s; issues: %+v", tc.fieldID, result.Issues)
			}
			if msg != tc.want {
				t.Fatalf("message = %q, want %q", msg, tc.want)
			}
		})
	}
}

func TestValidate_AcceptsWellFormedValues(t *testing.T) {
	form := testForm()
	values := map[string]any{
		"fullName":      "Grace Hopper",
		"email":         "grace@example.com",
		"phone":         "5551234567",
		"age":           "42", // numeric strings coerce
		"birthDate":     "1984-12-09",
		"coverage":      []any{"dental", "vision"},
		"smoker":        true,
		"smokerDetails": "pipe",
	}

	result := validation.Build(form, values).Validate(values)
	if !result.Valid {
		t.Fatalf("expected valid, got issues: %+v", result.Issues)
	}
}

func TestValidate_PatternRule(t *testing.T) {
	form := schema.FormDescriptor{
		FormID: "f",
		Fields: []schema.FieldDefinition{
			{ID: "zip", Label: "Zip", Type: schema.FieldTypeText, Validation: &schema.Validation{Pattern: `^\d{5}$`}},
			{ID: "loose", Label: "Loose", Type: schema.FieldTypeText, Validation: &schema.Validation{Pattern: `([`}},
		},
	}

	values := map[string]any{"zip": "abcde", "loose": "anything"}
	result := validation.Build(form, values).Validate(values)

	msg, ok := result.MessageFor("zip")
	if !ok {
		t.Fatal("pattern violation not reported")
	}
	want := `Invalid format. Expected pattern: ^\d{5}$`
	if msg != want {
		t.Fatalf("message = %q, want %q", msg, want)
	}

	// An uncompilable pattern must not lock the user out.
	if result.HasIssue("loose") {
		t.Fatal("uncompilable pattern reported as a failure")
	}
}

func TestValidate_OneIssuePerField(t *testing.T) {
	form := schema.FormDescriptor{
		FormID: "f",
		Fields: []schema.FieldDefinition{
			{ID: "email", Label: "Email", Type: schema.FieldTypeEmail, Validation: &schema.Validation{Pattern: `@corp\.com$`}},
		},
	}

	values := map[string]any{"email": "nope"}
	result := validation.Build(form, values).Validate(values)

	var got []string
	for _, issue := range result.Issues {
		got = append(got, issue.Message)
	}
	want := []string{"Invalid email address"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_BareCheckboxIsBoolean(t *testing.T) {
	form := schema.FormDescriptor{
		FormID: "f",
		Fields: []schema.FieldDefinition{
			{ID: "accept", Label: "Accept", Type: schema.FieldTypeCheckbox},
		},
	}

	values := map[string]any{"accept": true}
	if result := validation.Build(form, values).Validate(values); !result.Valid {
		t.Fatalf("boolean checkbox rejected: %+v", result.Issues)
	}

	values = map[string]any{"accept": "yes"}
	if result := validation.Build(form, values).Validate(values); result.Valid {
		t.Fatal("string accepted for boolean checkbox")
	}
}
