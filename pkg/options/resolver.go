// Package options resolves dynamically-fetched option lists. A field's
// dynamicOptions descriptor names an endpoint and, optionally, a dependee
// field whose current value parameterises the fetch (states by country).
// Results are cached per (field, dependee value); failures degrade to an
// empty list and never propagate as errors to the caller.
package options

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Fetcher is the external option-fetch collaborator. Implementations may
// return an error; the resolver normalises every failure to an empty list.
type Fetcher interface {
	FetchOptions(ctx context.Context, endpoint, dependeeValue string) ([]schema.Option, error)
}

// FetcherFunc adapts a function into a Fetcher.
type FetcherFunc func(ctx context.Context, endpoint, dependeeValue string) ([]schema.Option, error)

// FetchOptions delegates to the underlying function.
func (fn FetcherFunc) FetchOptions(ctx context.Context, endpoint, dependeeValue string) ([]schema.Option, error) {
	return fn(ctx, endpoint, dependeeValue)
}

// FetchError records a failed option fetch. It is carried on the Result for
// callers that want to show a non-blocking "no options available" indicator;
// the option list itself is already the empty fallback.
type FetchError struct {
	FieldID  string
	Endpoint string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("options: fetch %q for field %q: %v", e.Endpoint, e.FieldID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Result is the outcome of one resolution.
type Result struct {
	// Options is never nil once a fetch has fired; it is the empty list on
	// failure. A nil Options means the fetch did not fire (dependency not
	// yet satisfied).
	Options []schema.Option
	// Cached reports the list came from the cache without a fetch.
	Cached bool
	// Stale reports a concurrent resolution superseded this one; the value
	// was not cached and must not overwrite newer state.
	Stale bool
	// Err is the recorded fetch failure, if any.
	Err error
}

// Resolver fetches and caches dynamic option lists. Each form session owns
// its own Resolver; nothing is shared across instances.
type Resolver struct {
	fetcher Fetcher
	logger  *zap.Logger

	mu          sync.Mutex
	cache       map[cacheKey][]schema.Option
	generations map[string]uint64
}

type cacheKey struct {
	fieldID  string
	dependee string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger attaches a logger for fetch failures. Defaults to a nop logger.
func WithLogger(logger *zap.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver constructs a Resolver around the given fetcher.
func NewResolver(fetcher Fetcher, options ...ResolverOption) *Resolver {
	r := &Resolver{
		fetcher:     fetcher,
		logger:      zap.NewNop(),
		cache:       make(map[cacheKey][]schema.Option),
		generations: make(map[string]uint64),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// ShouldFetch reports whether a resolution would fire for the field under the
// current values: dynamicOptions present, and either no dependee or a defined,
// truthy dependee value.
func ShouldFetch(field schema.FieldDefinition, values map[string]any) bool {
	dyn := field.DynamicOptions
	if dyn == nil || dyn.Endpoint == "" {
		return false
	}
	if dyn.DependsOn == "" {
		return true
	}
	return dependeeValue(dyn, values) != ""
}

// Resolve fetches the option list for the field, consulting the cache first.
// A field whose dependee has no defined value yet resolves without firing.
// A fetch failure logs, records the error on the Result, and resolves to the
// empty list so the field is never stuck loading.
//
// Overlapping resolutions for the same field are serialised by generation: a
// newer call supersedes any in-flight fetch, and the stale result is not
// cached even when it arrives last.
func (r *Resolver) Resolve(ctx context.Context, field schema.FieldDefinition, values map[string]any) Result {
	dyn := field.DynamicOptions
	if dyn == nil || dyn.Endpoint == "" {
		return Result{}
	}

	dependee := dependeeValue(dyn, values)
	if dyn.DependsOn != "" && dependee == "" {
		return Result{}
	}

	key := cacheKey{fieldID: field.ID, dependee: dependee}

	r.mu.Lock()
	if cached, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return Result{Options: cached, Cached: true}
	}
	// A new fetch supersedes any in-flight one for this field; entries for
	// other dependee values are stale by definition.
	r.generations[field.ID]++
	generation := r.generations[field.ID]
	for existing := range r.cache {
		if existing.fieldID == field.ID {
			delete(r.cache, existing)
		}
	}
	r.mu.Unlock()

	raw, err := r.fetcher.FetchOptions(ctx, dyn.Endpoint, dependee)
	var fetchErr error
	if err != nil {
		fetchErr = &FetchError{FieldID: field.ID, Endpoint: dyn.Endpoint, Err: err}
		r.logger.Warn("option fetch failed; falling back to empty list",
			zap.String("field", field.ID),
			zap.String("endpoint", dyn.Endpoint),
			zap.String("dependee", dependee),
			zap.Error(err),
		)
		raw = nil
	}
	resolved := raw
	if resolved == nil {
		resolved = []schema.Option{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.generations[field.ID] != generation {
		return Result{Options: resolved, Stale: true, Err: fetchErr}
	}
	if fetchErr == nil {
		r.cache[key] = resolved
	}
	return Result{Options: resolved, Err: fetchErr}
}

// Invalidate drops every cached list for the field. The session calls this
// when a dependee value changes so the next resolution re-fetches.
func (r *Resolver) Invalidate(fieldID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generations[fieldID]++
	for key := range r.cache {
		if key.fieldID == fieldID {
			delete(r.cache, key)
		}
	}
}

func dependeeValue(dyn *schema.DynamicOptions, values map[string]any) string {
	if dyn.DependsOn == "" {
		return ""
	}
	v, ok := values[dyn.DependsOn]
	if !ok || v == nil {
		return ""
	}
	switch typed := v.(type) {
	case string:
		return typed
	case bool:
		if !typed {
			return ""
		}
		return "true"
	default:
		return fmt.Sprint(typed)
	}
}
