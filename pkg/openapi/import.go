// Package openapi derives form descriptors from OpenAPI 3 documents: an
// operation's JSON request body schema becomes a field tree, with the
// x-formflow extension carrying dynamic-option and visibility metadata that
// plain OpenAPI cannot express.
package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	formschema "github.com/goliatone/go-formflow/pkg/schema"
)

// ExtensionKey is the vendor extension carrying form metadata on a property.
const ExtensionKey = "x-formflow"

// ErrOperationNotFound indicates the document has no operation with the
// requested id.
var ErrOperationNotFound = errors.New("openapi: operation not found")

// Import parses the raw OpenAPI document and converts the request body
// schema of the operation with operationID into a form descriptor. The
// descriptor's id is the operationId and its title the operation summary.
func Import(ctx context.Context, raw []byte, operationID string) (formschema.FormDescriptor, error) {
	if len(raw) == 0 {
		return formschema.FormDescriptor{}, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return formschema.FormDescriptor{}, fmt.Errorf("openapi: load document: %w", err)
	}

	operation := findOperation(doc, operationID)
	if operation == nil {
		return formschema.FormDescriptor{}, fmt.Errorf("%w: %s", ErrOperationNotFound, operationID)
	}

	body := requestSchema(operation)
	if body == nil {
		return formschema.FormDescriptor{}, fmt.Errorf("openapi: operation %s has no JSON request body", operationID)
	}

	form := formschema.FormDescriptor{
		FormID: operationID,
		Title:  operation.Summary,
		Fields: convertProperties(body),
	}
	if err := form.Validate(); err != nil {
		return formschema.FormDescriptor{}, fmt.Errorf("openapi: operation %s: %w", operationID, err)
	}
	return form, nil
}

func findOperation(doc *openapi3.T, operationID string) *openapi3.Operation {
	if doc.Paths == nil {
		return nil
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return op
			}
		}
	}
	return nil
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	media := op.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil
	}
	schema := media.Schema.Value
	if !schema.Type.Is(openapi3.TypeObject) {
		return nil
	}
	return schema
}

// convertProperties maps an object schema's properties to fields in sorted
// property-name order; OpenAPI objects carry no declared ordering.
func convertProperties(obj *openapi3.Schema) []formschema.FieldDefinition {
	names := make([]string, 0, len(obj.Properties))
	for name := range obj.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	required := make(map[string]bool, len(obj.Required))
	for _, name := range obj.Required {
		required[name] = true
	}

	fields := make([]formschema.FieldDefinition, 0, len(names))
	for _, name := range names {
		ref := obj.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		fields = append(fields, convertProperty(name, ref.Value, required[name]))
	}
	return fields
}

func convertProperty(name string, prop *openapi3.Schema, required bool) formschema.FieldDefinition {
	field := formschema.FieldDefinition{
		ID:          name,
		Label:       labelFor(name, prop),
		Description: prop.Description,
		Required:    required,
		Type:        fieldType(prop),
	}

	switch {
	case field.Type == formschema.FieldTypeGroup:
		field.Children = convertProperties(prop)
	case field.Type == formschema.FieldTypeSelect, field.Type == formschema.FieldTypeRadio:
		field.Options = enumOptions(prop.Enum)
	case field.Type == formschema.FieldTypeCheckbox && prop.Type.Is(openapi3.TypeArray):
		if prop.Items != nil && prop.Items.Value != nil {
			field.Options = enumOptions(prop.Items.Value.Enum)
		}
	}

	field.Validation = validationFor(prop)
	applyExtension(&field, prop.Extensions)
	return field
}

func labelFor(name string, prop *openapi3.Schema) string {
	if prop.Title != "" {
		return prop.Title
	}
	return name
}

func fieldType(prop *openapi3.Schema) formschema.FieldType {
	switch {
	case prop.Type.Is(openapi3.TypeObject):
		return formschema.FieldTypeGroup
	case prop.Type.Is(openapi3.TypeBoolean):
		return formschema.FieldTypeCheckbox
	case prop.Type.Is(openapi3.TypeInteger), prop.Type.Is(openapi3.TypeNumber):
		return formschema.FieldTypeNumber
	case prop.Type.Is(openapi3.TypeArray):
		return formschema.FieldTypeCheckbox
	case prop.Type.Is(openapi3.TypeString):
		switch prop.Format {
		case "email":
			return formschema.FieldTypeEmail
		case "date":
			return formschema.FieldTypeDate
		case "password":
			return formschema.FieldTypePassword
		}
		if len(prop.Enum) > 0 {
			return formschema.FieldTypeSelect
		}
		return formschema.FieldTypeText
	default:
		return formschema.FieldTypeText
	}
}

func enumOptions(enum []any) []formschema.Option {
	if len(enum) == 0 {
		return nil
	}
	opts := make([]formschema.Option, 0, len(enum))
	for _, v := range enum {
		s := fmt.Sprint(v)
		opts = append(opts, formschema.Option{Label: s, Value: s})
	}
	return opts
}

func validationFor(prop *openapi3.Schema) *formschema.Validation {
	v := &formschema.Validation{
		Min:     prop.Min,
		Max:     prop.Max,
		Pattern: prop.Pattern,
	}
	if v.Min == nil && v.Max == nil && v.Pattern == "" {
		return nil
	}
	return v
}

// extension is the x-formflow shape: metadata OpenAPI has no vocabulary for.
type extension struct {
	DynamicOptions *formschema.DynamicOptions `json:"dynamicOptions"`
	Visibility     *formschema.Visibility     `json:"visibility"`
}

func applyExtension(field *formschema.FieldDefinition, extensions map[string]any) {
	raw, ok := extensions[ExtensionKey]
	if !ok || raw == nil {
		return
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return
	}
	var ext extension
	if err := json.Unmarshal(data, &ext); err != nil {
		return
	}
	if ext.DynamicOptions != nil && ext.DynamicOptions.Endpoint != "" {
		field.DynamicOptions = ext.DynamicOptions
	}
	if ext.Visibility != nil && ext.Visibility.DependsOn != "" {
		field.Visibility = ext.Visibility
	}
}
