package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// UnmarshalJSON accepts either a bare string or a {label,value} object. Bare
// strings normalise to label==value, matching the remote contract.
func (o *Option) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("schema: decode option: %w", err)
		}
		o.Label = raw
		o.Value = raw
		return nil
	}

	type alias Option
	var decoded alias
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("schema: decode option: %w", err)
	}
	*o = Option(decoded)
	if o.Label == "" {
		o.Label = o.Value
	}
	return nil
}

// UnmarshalYAML mirrors the JSON behaviour for YAML descriptor files.
func (o *Option) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		o.Label = node.Value
		o.Value = node.Value
		return nil
	}

	type alias Option
	var decoded alias
	if err := node.Decode(&decoded); err != nil {
		return fmt.Errorf("schema: decode option: %w", err)
	}
	*o = Option(decoded)
	if o.Label == "" {
		o.Label = o.Value
	}
	return nil
}

// NormalizeOptionList promotes a raw decoded payload into a clean option
// list. Bare strings become label==value pairs, objects keep their label and
// value keys, and anything unusable is dropped. The result is never nil.
func NormalizeOptionList(raw []any) []Option {
	out := make([]Option, 0, len(raw))
	for _, entry := range raw {
		switch typed := entry.(type) {
		case string:
			if typed == "" {
				continue
			}
			out = append(out, Option{Label: typed, Value: typed})
		case map[string]any:
			opt := Option{
				Label: stringValue(typed["label"]),
				Value: stringValue(typed["value"]),
			}
			if opt.Value == "" {
				opt.Value = opt.Label
			}
			if opt.Label == "" {
				opt.Label = opt.Value
			}
			if opt.Value == "" {
				continue
			}
			out = append(out, opt)
		}
	}
	return out
}

func stringValue(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	default:
		return fmt.Sprint(typed)
	}
}

// OptionValues returns the value column of an option list.
func OptionValues(options []Option) []string {
	out := make([]string, 0, len(options))
	for _, opt := range options {
		out = append(out, opt.Value)
	}
	return out
}

// OptionLabels returns the label column of an option list.
func OptionLabels(options []Option) []string {
	out := make([]string, 0, len(options))
	for _, opt := range options {
		out = append(out, opt.Label)
	}
	return out
}
