package schema

import "time"

// FieldType enumerates the input kinds a form descriptor can declare. The set
// mirrors the remote contract; unknown values are tolerated and rendered as
// plain text inputs.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeTel      FieldType = "tel"
	FieldTypePassword FieldType = "password"
	FieldTypeNumber   FieldType = "number"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeSwitch   FieldType = "switch"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeDate     FieldType = "date"
	FieldTypeGroup    FieldType = "group"
)

// IsGroup reports whether the type marks a container of child fields.
func (t FieldType) IsGroup() bool { return t == FieldTypeGroup }

// Known reports whether the type is part of the documented enum. Unknown
// types still produce a working (permissive) field.
func (t FieldType) Known() bool {
	switch t {
	case FieldTypeText, FieldTypeEmail, FieldTypeTel, FieldTypePassword,
		FieldTypeNumber, FieldTypeTextarea, FieldTypeSelect, FieldTypeCheckbox,
		FieldTypeSwitch, FieldTypeRadio, FieldTypeDate, FieldTypeGroup:
		return true
	}
	return false
}

// Option is a single selectable choice. Descriptors may declare options as
// bare strings; decoding normalises those to label==value pairs.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// DynamicOptions describes an option list fetched remotely, optionally keyed
// by another field's current value.
type DynamicOptions struct {
	// DependsOn names the dependee field. When empty the list is fetched
	// unconditionally on mount.
	DependsOn string `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
	// Endpoint is handed verbatim to the option-fetch collaborator.
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	// RefreshIntervalMs re-fires the fetch on this cadence while the field is
	// mounted. Zero disables refresh.
	RefreshIntervalMs int64 `json:"refreshIntervalMs,omitempty" yaml:"refreshIntervalMs,omitempty"`
}

// Interval returns the refresh cadence as a duration, zero when disabled.
func (d DynamicOptions) Interval() time.Duration {
	if d.RefreshIntervalMs <= 0 {
		return 0
	}
	return time.Duration(d.RefreshIntervalMs) * time.Millisecond
}

// ConditionEquals is the only visibility condition the contract defines.
// Anything else is treated as unsatisfiable, not as an error.
const ConditionEquals = "equals"

// Visibility makes a field's presence conditional on another field's value.
type Visibility struct {
	DependsOn string `json:"dependsOn" yaml:"dependsOn"`
	Condition string `json:"condition" yaml:"condition"`
	Value     any    `json:"value" yaml:"value"`
}

// Validation carries the optional per-field constraints a descriptor can set.
type Validation struct {
	Min     *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max     *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Pattern string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// FieldDefinition models one node of the form tree: a leaf input, or a group
// container when Type is "group" and Children is populated.
type FieldDefinition struct {
	ID             string            `json:"id" yaml:"id"`
	Label          string            `json:"label,omitempty" yaml:"label,omitempty"`
	Description    string            `json:"description,omitempty" yaml:"description,omitempty"`
	Type           FieldType         `json:"type" yaml:"type"`
	Required       bool              `json:"required,omitempty" yaml:"required,omitempty"`
	Options        []Option          `json:"options,omitempty" yaml:"options,omitempty"`
	DynamicOptions *DynamicOptions   `json:"dynamicOptions,omitempty" yaml:"dynamicOptions,omitempty"`
	Visibility     *Visibility       `json:"visibility,omitempty" yaml:"visibility,omitempty"`
	Validation     *Validation       `json:"validation,omitempty" yaml:"validation,omitempty"`
	Children       []FieldDefinition `json:"children,omitempty" yaml:"children,omitempty"`
}

// IsGroup reports whether the field is a group container.
func (f FieldDefinition) IsGroup() bool { return f.Type.IsGroup() }

// MultiValued reports whether the field stores an array answer: a checkbox
// with a declared option list. A bare checkbox stores a boolean.
func (f FieldDefinition) MultiValued() bool {
	return f.Type == FieldTypeCheckbox && len(f.Options) > 0
}

// FormDescriptor is the top-level form: an ordered list of standalone fields
// and groups. It is immutable once fetched; the reorder engine produces new
// descriptor values instead of mutating in place.
type FormDescriptor struct {
	FormID string            `json:"formId" yaml:"formId"`
	Title  string            `json:"title,omitempty" yaml:"title,omitempty"`
	Fields []FieldDefinition `json:"fields" yaml:"fields"`
}
