// Package session runs one in-progress form: it holds the working values,
// coordinates validation, visibility, dynamic options, drafts, reordering,
// and the submission lifecycle.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/draft"
	"github.com/goliatone/go-formflow/pkg/options"
	"github.com/goliatone/go-formflow/pkg/plan"
	"github.com/goliatone/go-formflow/pkg/reorder"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/submit"
	"github.com/goliatone/go-formflow/pkg/validation"
	"github.com/goliatone/go-formflow/pkg/visibility"
)

// ErrSubmitInFlight rejects a submit while a previous one is still running.
var ErrSubmitInFlight = errors.New("session: submit already in flight")

// Submitter delivers a finished submission to its destination.
type Submitter interface {
	Submit(ctx context.Context, sub submit.Submission) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, sub submit.Submission) error

func (fn SubmitterFunc) Submit(ctx context.Context, sub submit.Submission) error {
	return fn(ctx, sub)
}

// Session is the runtime for a single form instance. All methods are safe
// for concurrent use.
type Session struct {
	form      schema.FormDescriptor
	evaluator visibility.Evaluator
	builder   *validation.Builder
	resolver  *options.Resolver
	reshaper  *submit.Reshaper
	drafts    draft.Store
	submitter Submitter
	logger    *zap.Logger
	notify    func(fieldID string, res options.Result)

	mu         sync.Mutex
	values     map[string]any
	dirty      bool
	submitting bool
	timers     map[string]options.CancelFunc
	closed     bool
}

// Option configures a Session.
type Option func(*Session)

// WithEvaluator replaces the visibility evaluator.
func WithEvaluator(evaluator visibility.Evaluator) Option {
	return func(s *Session) {
		if evaluator != nil {
			s.evaluator = evaluator
		}
	}
}

// WithResolver wires the dynamic option resolver.
func WithResolver(resolver *options.Resolver) Option {
	return func(s *Session) { s.resolver = resolver }
}

// WithDraftStore enables draft autosave and restore.
func WithDraftStore(store draft.Store) Option {
	return func(s *Session) { s.drafts = store }
}

// WithSubmitter wires the submission destination.
func WithSubmitter(submitter Submitter) Option {
	return func(s *Session) { s.submitter = submitter }
}

// WithReshaper replaces the payload reshaper.
func WithReshaper(reshaper *submit.Reshaper) Option {
	return func(s *Session) {
		if reshaper != nil {
			s.reshaper = reshaper
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRefreshNotify receives option lists produced by background refresh
// timers.
func WithRefreshNotify(notify func(fieldID string, res options.Result)) Option {
	return func(s *Session) { s.notify = notify }
}

// WithValues seeds the initial working values.
func WithValues(values map[string]any) Option {
	return func(s *Session) {
		for k, v := range values {
			s.values[k] = v
		}
	}
}

// New starts a session over the descriptor.
func New(form schema.FormDescriptor, opts ...Option) *Session {
	s := &Session{
		form:      form,
		evaluator: visibility.Default(),
		reshaper:  submit.NewReshaper(),
		logger:    zap.NewNop(),
		values:    make(map[string]any),
		timers:    make(map[string]options.CancelFunc),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.builder = validation.NewBuilder(validation.WithEvaluator(s.evaluator))
	if s.resolver != nil {
		s.reconcileTimers()
	}
	return s
}

// Form returns the session's current descriptor.
func (s *Session) Form() schema.FormDescriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Values returns a copy of the working values.
func (s *Session) Values() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Value returns the working value for fieldID.
func (s *Session) Value(fieldID string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[fieldID]
	return v, ok
}

// SetValue records a field edit. Dependent dynamic-option caches are
// invalidated, and when a draft store is configured the full value snapshot
// is persisted in the background.
func (s *Session) SetValue(fieldID string, value any) {
	s.mu.Lock()
	s.values[fieldID] = value
	s.dirty = true
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.invalidateDependents(fieldID)
	s.autosave(snapshot)
}

// ClearValue removes a field's working value.
func (s *Session) ClearValue(fieldID string) {
	s.mu.Lock()
	delete(s.values, fieldID)
	s.dirty = true
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.invalidateDependents(fieldID)
	s.autosave(snapshot)
}

// Dirty reports whether values changed since the last restore or submit.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Validate builds the schema for the currently visible fields and runs it
// over the working values.
func (s *Session) Validate() validation.Result {
	s.mu.Lock()
	form := s.form
	values := s.snapshotLocked()
	s.mu.Unlock()

	return s.builder.Build(form, values).Validate(values)
}

// Visible reports whether the field with fieldID is currently visible.
// Unknown fields are reported hidden.
func (s *Session) Visible(fieldID string) bool {
	s.mu.Lock()
	form := s.form
	values := s.snapshotLocked()
	s.mu.Unlock()

	field, ok := form.FindField(fieldID)
	if !ok {
		return false
	}
	return s.evaluator.Visible(field, values)
}

// Steps returns the rendering plan filtered to visible fields.
func (s *Session) Steps() []plan.Step {
	s.mu.Lock()
	form := s.form
	values := s.snapshotLocked()
	s.mu.Unlock()

	return plan.VisibleSteps(form, values, s.evaluator)
}

// Options resolves the dynamic option list for fieldID against the current
// values. Fields without dynamic options, or whose dependee is unsatisfied,
// yield an empty Result.
func (s *Session) Options(ctx context.Context, fieldID string) options.Result {
	if s.resolver == nil {
		return options.Result{}
	}
	s.mu.Lock()
	form := s.form
	values := s.snapshotLocked()
	s.mu.Unlock()

	field, ok := form.FindField(fieldID)
	if !ok || !options.ShouldFetch(field, values) {
		return options.Result{}
	}
	return s.resolver.Resolve(ctx, field, values)
}

// Reorder moves the child at fromIndex to toIndex within groupID's children
// (reorder.TopLevelGroupID for the root list). Fields with active validation
// errors stay locked in place.
func (s *Session) Reorder(groupID string, fromIndex, toIndex int) bool {
	s.mu.Lock()
	form := s.form
	values := s.snapshotLocked()
	s.mu.Unlock()

	result := s.builder.Build(form, values).Validate(values)
	siblings := form.Fields
	if groupID != reorder.TopLevelGroupID {
		group, ok := form.FindGroup(groupID)
		if !ok {
			return false
		}
		siblings = group.Children
	}
	if fromIndex < 0 || fromIndex >= len(siblings) {
		return false
	}
	if toIndex < 0 || toIndex >= len(siblings) || toIndex == fromIndex {
		return false
	}
	if !reorder.Reorderable(siblings[fromIndex], result.HasIssue) {
		return false
	}

	moved := reorder.Move(form, groupID, fromIndex, toIndex)

	s.mu.Lock()
	s.form = moved
	s.mu.Unlock()
	return true
}

// RestoreDraft loads a saved draft into the working values. A missing draft
// leaves the session untouched and reports false.
func (s *Session) RestoreDraft(ctx context.Context) (bool, error) {
	if s.drafts == nil {
		return false, nil
	}
	d, err := s.drafts.Load(ctx, s.form.FormID)
	if errors.Is(err, draft.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("session: restore draft: %w", err)
	}

	s.mu.Lock()
	s.values = make(map[string]any, len(d.Values))
	for k, v := range d.Values {
		s.values[k] = v
	}
	s.dirty = false
	s.mu.Unlock()
	return true, nil
}

// Submit validates, reshapes, and delivers the working values. On success
// the values and any saved draft are cleared; on failure both are retained.
// Only one submit may be in flight at a time.
func (s *Session) Submit(ctx context.Context) (submit.Submission, error) {
	if s.submitter == nil {
		return submit.Submission{}, errors.New("session: no submitter configured")
	}

	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return submit.Submission{}, ErrSubmitInFlight
	}
	s.submitting = true
	form := s.form
	values := s.snapshotLocked()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	result := s.builder.Build(form, values).Validate(values)
	if !result.Valid {
		return submit.Submission{}, &ValidationError{Result: result}
	}

	payload, err := s.reshaper.Reshape(values, form)
	if err != nil {
		return submit.Submission{}, fmt.Errorf("session: reshape: %w", err)
	}
	sub := submit.NewSubmission(form.FormID, payload)

	if err := s.submitter.Submit(ctx, sub); err != nil {
		s.logger.Warn("submission failed",
			zap.String("form_id", form.FormID),
			zap.Error(err))
		return submit.Submission{}, fmt.Errorf("session: submit: %w", err)
	}

	s.mu.Lock()
	s.values = make(map[string]any)
	s.dirty = false
	s.mu.Unlock()

	if s.drafts != nil {
		if err := s.drafts.Clear(ctx, form.FormID); err != nil {
			s.logger.Warn("draft clear failed",
				zap.String("form_id", form.FormID),
				zap.Error(err))
		}
	}
	return sub, nil
}

// Close cancels all refresh timers. The session stops autosaving but its
// values remain readable.
func (s *Session) Close() {
	s.mu.Lock()
	timers := s.timers
	s.timers = make(map[string]options.CancelFunc)
	s.closed = true
	s.mu.Unlock()

	for _, cancel := range timers {
		cancel()
	}
}

// ValidationError reports a submit blocked by validation issues.
type ValidationError struct {
	Result validation.Result
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("session: validation failed with %d issue(s)", len(e.Result.Issues))
}

// autosave persists the snapshot in the background. Failures degrade to a
// log line; drafts are convenience state, never load-bearing.
func (s *Session) autosave(snapshot map[string]any) {
	if s.drafts == nil {
		return
	}
	s.mu.Lock()
	closed := s.closed
	formID := s.form.FormID
	s.mu.Unlock()
	if closed {
		return
	}

	go func() {
		d := draft.Draft{FormID: formID, Values: snapshot, SavedAt: nowUTC()}
		if err := s.drafts.Save(context.Background(), d); err != nil {
			s.logger.Warn("draft autosave failed",
				zap.String("form_id", formID),
				zap.Error(err))
		}
	}()
}

func (s *Session) snapshotLocked() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

func nowUTC() time.Time { return time.Now().UTC() }

// invalidateDependents drops cached option lists for every field whose
// dynamic options depend on the edited field, then reconciles refresh
// timers.
func (s *Session) invalidateDependents(fieldID string) {
	if s.resolver == nil {
		return
	}
	s.mu.Lock()
	form := s.form
	s.mu.Unlock()

	form.Walk(func(field schema.FieldDefinition) bool {
		if field.DynamicOptions != nil && field.DynamicOptions.DependsOn == fieldID {
			s.resolver.Invalidate(field.ID)
		}
		return true
	})
	s.reconcileTimers()
}

// reconcileTimers keeps one refresh timer per visible dynamic field with a
// positive interval and a satisfied dependee, and cancels the rest.
func (s *Session) reconcileTimers() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	form := s.form
	values := s.snapshotLocked()
	s.mu.Unlock()

	want := make(map[string]schema.FieldDefinition)
	form.Walk(func(field schema.FieldDefinition) bool {
		dyn := field.DynamicOptions
		if dyn == nil || dyn.Interval() <= 0 {
			return true
		}
		if !s.evaluator.Visible(field, values) || !options.ShouldFetch(field, values) {
			return true
		}
		want[field.ID] = field
		return true
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for id, cancel := range s.timers {
		if _, ok := want[id]; !ok {
			cancel()
			delete(s.timers, id)
		}
	}
	for id, field := range want {
		if _, ok := s.timers[id]; ok {
			continue
		}
		fieldID := id
		s.timers[id] = s.resolver.Refresh(context.Background(), field, s.Values, func(res options.Result) {
			if s.notify != nil {
				s.notify(fieldID, res)
			}
		})
	}
}
