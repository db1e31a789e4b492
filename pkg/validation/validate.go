package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	govalidator "github.com/go-playground/validator/v10"
)

var (
	telPattern  = regexp.MustCompile(`^\d{10}$`)
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	formatChecker = govalidator.New()

	patternMu    sync.Mutex
	patternCache = make(map[string]*regexp.Regexp)
)

// Issue is a single field-level validation failure. Issues are recovered
// locally (inline per field) and never abort validation of other fields.
type Issue struct {
	FieldID string `json:"fieldId"`
	Message string `json:"message"`
}

// Result captures a full validation pass.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// MessageFor returns the first failure message recorded for a field.
func (r Result) MessageFor(fieldID string) (string, bool) {
	for _, issue := range r.Issues {
		if issue.FieldID == fieldID {
			return issue.Message, true
		}
	}
	return "", false
}

// HasIssue reports whether a field failed validation.
func (r Result) HasIssue(fieldID string) bool {
	_, ok := r.MessageFor(fieldID)
	return ok
}

// Validate applies the schema to a flat value map. Each field reports at most
// one issue: the required check first, then its rules in order.
func (s *Schema) Validate(values map[string]any) Result {
	result := Result{Valid: true}
	if s == nil {
		return result
	}

	for _, field := range s.Fields {
		value, present := values[field.FieldID]
		if isEmpty(value, present) {
			if field.Required {
				result.Issues = append(result.Issues, Issue{
					FieldID: field.FieldID,
					Message: requiredMessage(field),
				})
			}
			continue
		}
		for _, rule := range field.Rules {
			if applyRule(rule, value) {
				continue
			}
			result.Issues = append(result.Issues, Issue{
				FieldID: field.FieldID,
				Message: messageFor(rule),
			})
			break
		}
	}

	result.Valid = len(result.Issues) == 0
	return result
}

func requiredMessage(field FieldRules) string {
	if field.Multi {
		return "At least one option must be selected"
	}
	label := strings.TrimSpace(field.Label)
	if label == "" {
		label = field.FieldID
	}
	return fmt.Sprintf("%s is required", label)
}

func isEmpty(value any, present bool) bool {
	if !present || value == nil {
		return true
	}
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed) == ""
	case []string:
		return len(typed) == 0
	case []any:
		return len(typed) == 0
	default:
		return false
	}
}

func applyRule(rule Rule, value any) bool {
	switch rule.Kind {
	case RuleAny:
		return true
	case RuleString:
		_, ok := value.(string)
		return ok
	case RuleEmail:
		s, ok := value.(string)
		return ok && formatChecker.Var(s, "email") == nil
	case RuleTel:
		s, ok := value.(string)
		return ok && telPattern.MatchString(s)
	case RulePattern:
		s, ok := value.(string)
		if !ok {
			return false
		}
		re, err := compilePattern(rule.Params["pattern"])
		if err != nil {
			// The schema producer is trusted; an uncompilable pattern must
			// not lock the user out of submitting.
			return true
		}
		return re.MatchString(s)
	case RuleNumber:
		_, ok := coerceNumber(value)
		return ok
	case RuleMin:
		got, ok := coerceNumber(value)
		if !ok {
			return false
		}
		want, err := strconv.ParseFloat(rule.Params["value"], 64)
		return err == nil && got >= want
	case RuleMax:
		got, ok := coerceNumber(value)
		if !ok {
			return false
		}
		want, err := strconv.ParseFloat(rule.Params["value"], 64)
		return err == nil && got <= want
	case RuleBoolean:
		_, ok := value.(bool)
		return ok
	case RuleDate:
		s, ok := value.(string)
		return ok && datePattern.MatchString(s)
	case RuleStringArray:
		return isStringArray(value)
	case RuleMinItems:
		min, err := strconv.Atoi(rule.Params["min"])
		if err != nil {
			return true
		}
		return arrayLen(value) >= min
	default:
		return true
	}
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	patternMu.Lock()
	defer patternMu.Unlock()
	if re, ok := patternCache[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	patternCache[pattern] = re
	return re, nil
}

// coerceNumber accepts native numbers and numeric strings, mirroring the
// number control which reports its value as a string.
func coerceNumber(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func isStringArray(value any) bool {
	switch typed := value.(type) {
	case []string:
		return true
	case []any:
		for _, entry := range typed {
			if _, ok := entry.(string); !ok {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func arrayLen(value any) int {
	switch typed := value.(type) {
	case []string:
		return len(typed)
	case []any:
		return len(typed)
	default:
		return 0
	}
}
