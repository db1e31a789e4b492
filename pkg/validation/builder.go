package validation

import (
	"strings"
	"sync"

	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/visibility"
)

// Builder derives validation schemas from form descriptors. Because a field's
// visibility depends on the current values, the schema must be rebuilt when
// the visible-field set changes; the builder memoises on that set rather than
// on the raw values, so per-keystroke rebuilds are cache hits unless a field
// actually appeared or disappeared.
type Builder struct {
	evaluator visibility.Evaluator

	mu    sync.Mutex
	cache map[string]*Schema
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithEvaluator overrides the visibility evaluator used during builds.
func WithEvaluator(evaluator visibility.Evaluator) BuilderOption {
	return func(b *Builder) {
		if evaluator != nil {
			b.evaluator = evaluator
		}
	}
}

// NewBuilder constructs a Builder with the contract evaluator by default.
func NewBuilder(options ...BuilderOption) *Builder {
	b := &Builder{
		evaluator: visibility.Default(),
		cache:     make(map[string]*Schema),
	}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Build walks the descriptor tree and produces a Schema covering every leaf
// field whose visibility rule is currently satisfied. Invisible fields are
// excluded entirely, not merely marked optional. The walk is recursive: the
// current contract guarantees one level of group nesting, but deeper trees
// are handled the same way.
func (b *Builder) Build(form schema.FormDescriptor, values map[string]any) *Schema {
	visible := visibility.VisibleLeafIDs(form, values, b.evaluator)
	key := form.FormID + "\x00" + strings.Join(visible, "\x1f")

	b.mu.Lock()
	if cached, ok := b.cache[key]; ok {
		b.mu.Unlock()
		return cached
	}
	b.mu.Unlock()

	built := build(form, values, b.evaluator)

	b.mu.Lock()
	b.cache[key] = built
	b.mu.Unlock()
	return built
}

// Build is the uncached convenience form.
func Build(form schema.FormDescriptor, values map[string]any) *Schema {
	return build(form, values, visibility.Default())
}

func build(form schema.FormDescriptor, values map[string]any, evaluator visibility.Evaluator) *Schema {
	out := &Schema{FormID: form.FormID}
	collect(form.Fields, values, evaluator, out)
	return out
}

func collect(fields []schema.FieldDefinition, values map[string]any, evaluator visibility.Evaluator, out *Schema) {
	for _, field := range fields {
		if field.IsGroup() {
			collect(field.Children, values, evaluator, out)
			continue
		}
		if !evaluator.Visible(field, values) {
			continue
		}
		out.Fields = append(out.Fields, FieldRules{
			FieldID:  field.ID,
			Label:    field.Label,
			Required: field.Required,
			Multi:    field.MultiValued(),
			Rules:    rulesFor(field),
		})
	}
}
