package schema

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	labelPolicyOnce sync.Once
	labelPolicy     *bluemonday.Policy
)

// Sanitize returns a copy of the descriptor with titles, labels, descriptions,
// and option labels stripped of markup. Descriptors arrive from a remote
// service, so display strings are never trusted verbatim.
func Sanitize(form FormDescriptor) FormDescriptor {
	out := form
	out.Title = sanitizeText(form.Title)
	out.Fields = sanitizeFields(form.Fields)
	return out
}

func sanitizeFields(fields []FieldDefinition) []FieldDefinition {
	if len(fields) == 0 {
		return fields
	}
	out := make([]FieldDefinition, len(fields))
	for i, field := range fields {
		field.Label = sanitizeText(field.Label)
		field.Description = sanitizeText(field.Description)
		if len(field.Options) > 0 {
			options := make([]Option, len(field.Options))
			for j, opt := range field.Options {
				opt.Label = sanitizeText(opt.Label)
				options[j] = opt
			}
			field.Options = options
		}
		field.Children = sanitizeFields(field.Children)
		out[i] = field
	}
	return out
}

func sanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(textSanitizer().Sanitize(trimmed))
}

func textSanitizer() *bluemonday.Policy {
	labelPolicyOnce.Do(func() {
		labelPolicy = bluemonday.StrictPolicy()
	})
	return labelPolicy
}
