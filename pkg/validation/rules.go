// Package validation derives a structural validator from a form descriptor
// and the current flat value map. The builder is a visitor mapping each
// visible leaf field to a small list of data-driven rules; the resulting
// Schema is a plain value that can be serialised, inspected in tests, and
// applied repeatedly.
package validation

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Rule kinds. Numeric thresholds live in Params["value"], patterns in
// Params["pattern"], and array minimums in Params["min"].
const (
	RuleString      = "string"
	RuleEmail       = "email"
	RuleTel         = "tel"
	RulePattern     = "pattern"
	RuleNumber      = "number"
	RuleMin         = "min"
	RuleMax         = "max"
	RuleBoolean     = "boolean"
	RuleDate        = "date"
	RuleStringArray = "stringArray"
	RuleMinItems    = "minItems"
	RuleAny         = "any"
)

// Rule is one validation constraint applied to a field value.
type Rule struct {
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

// FieldRules binds a field to its ordered rule list.
type FieldRules struct {
	FieldID  string `json:"fieldId"`
	Label    string `json:"label,omitempty"`
	Required bool   `json:"required,omitempty"`
	Multi    bool   `json:"multi,omitempty"`
	Rules    []Rule `json:"rules"`
}

// Schema is the composite validator produced by the builder. Fields absent
// from the schema (invisible at build time) are never validated, so an
// invisible required field can never block submission.
type Schema struct {
	FormID string       `json:"formId"`
	Fields []FieldRules `json:"fields"`
}

// rulesFor maps a leaf field definition to its rule list.
func rulesFor(field schema.FieldDefinition) []Rule {
	switch field.Type {
	case schema.FieldTypeText, schema.FieldTypeTextarea, schema.FieldTypePassword,
		schema.FieldTypeSelect, schema.FieldTypeRadio:
		return withPattern(field, []Rule{{Kind: RuleString}})
	case schema.FieldTypeEmail:
		return withPattern(field, []Rule{{Kind: RuleString}, {Kind: RuleEmail}})
	case schema.FieldTypeTel:
		return withPattern(field, []Rule{{Kind: RuleString}, {Kind: RuleTel}})
	case schema.FieldTypeNumber:
		rules := []Rule{{Kind: RuleNumber}}
		if v := field.Validation; v != nil {
			if v.Min != nil {
				rules = append(rules, Rule{Kind: RuleMin, Params: map[string]string{"value": formatNumber(*v.Min)}})
			}
			if v.Max != nil {
				rules = append(rules, Rule{Kind: RuleMax, Params: map[string]string{"value": formatNumber(*v.Max)}})
			}
		}
		return rules
	case schema.FieldTypeSwitch:
		return []Rule{{Kind: RuleBoolean}}
	case schema.FieldTypeDate:
		return []Rule{{Kind: RuleDate}}
	case schema.FieldTypeCheckbox:
		if field.MultiValued() {
			rules := []Rule{{Kind: RuleStringArray}}
			if field.Required {
				rules = append(rules, Rule{Kind: RuleMinItems, Params: map[string]string{"min": "1"}})
			}
			return rules
		}
		return []Rule{{Kind: RuleBoolean}}
	default:
		// Unknown types render as plain text and validate permissively.
		return []Rule{{Kind: RuleAny}}
	}
}

func withPattern(field schema.FieldDefinition, rules []Rule) []Rule {
	if field.Validation == nil || field.Validation.Pattern == "" {
		return rules
	}
	return append(rules, Rule{
		Kind:   RulePattern,
		Params: map[string]string{"pattern": field.Validation.Pattern},
	})
}

// messageFor resolves the user-facing failure message for a rule. The strings
// match the portal contract verbatim.
func messageFor(rule Rule) string {
	switch rule.Kind {
	case RuleEmail:
		return "Invalid email address"
	case RuleTel:
		return "Phone number must be 10 digits"
	case RulePattern:
		return fmt.Sprintf("Invalid format. Expected pattern: %s", rule.Params["pattern"])
	case RuleNumber:
		return "Invalid number"
	case RuleMin:
		return fmt.Sprintf("Value must be at least %s", rule.Params["value"])
	case RuleMax:
		return fmt.Sprintf("Value must be at most %s", rule.Params["value"])
	case RuleDate:
		return "Invalid date format (YYYY-MM-DD)"
	case RuleMinItems:
		return "At least one option must be selected"
	default:
		return "Invalid value"
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
