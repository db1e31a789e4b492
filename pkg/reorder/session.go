package reorder

import "github.com/goliatone/go-formflow/pkg/schema"

// Phase is the drag lifecycle of one sibling list.
type Phase int

const (
	// PhaseStable means no drag is in progress.
	PhaseStable Phase = iota
	// PhaseDragging means an eligible field has been picked up.
	PhaseDragging
	// PhaseDropPending means a target index has been hovered.
	PhaseDropPending
)

// Reorderable reports whether a field may be dragged: groups stay locked, and
// so does any field with an active validation error. The errored predicate is
// supplied by the caller (typically validation.Result.HasIssue).
func Reorderable(field schema.FieldDefinition, errored func(fieldID string) bool) bool {
	if field.IsGroup() {
		return false
	}
	if errored != nil && errored(field.ID) {
		return false
	}
	return true
}

// Session tracks one drag gesture over a descriptor. Transitions: stable to
// dragging on DragStart of an eligible field, dragging to drop-pending on
// DragOver, and back to stable on Drop (committing the move) or Cancel (no
// mutation).
type Session struct {
	form    schema.FormDescriptor
	errored func(fieldID string) bool

	phase   Phase
	groupID string
	from    int
	to      int
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithErrored supplies the active-validation-error predicate consulted by
// DragStart.
func WithErrored(errored func(fieldID string) bool) SessionOption {
	return func(s *Session) { s.errored = errored }
}

// NewSession starts a stable session over the descriptor.
func NewSession(form schema.FormDescriptor, options ...SessionOption) *Session {
	s := &Session{form: form}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Form returns the session's current descriptor.
func (s *Session) Form() schema.FormDescriptor { return s.form }

// Phase returns the current drag phase.
func (s *Session) Phase() Phase { return s.phase }

// DragStart picks up the field at index within groupID's children. It reports
// false, leaving the session stable, when the index is invalid or the field
// is not reorderable.
func (s *Session) DragStart(groupID string, index int) bool {
	if s.phase != PhaseStable {
		return false
	}
	siblings := s.siblings(groupID)
	if index < 0 || index >= len(siblings) {
		return false
	}
	if !Reorderable(siblings[index], s.errored) {
		return false
	}
	s.phase = PhaseDragging
	s.groupID = groupID
	s.from = index
	s.to = index
	return true
}

// DragOver records the hovered target index.
func (s *Session) DragOver(index int) {
	if s.phase != PhaseDragging && s.phase != PhaseDropPending {
		return
	}
	s.phase = PhaseDropPending
	s.to = index
}

// Drop commits the pending move and returns the updated descriptor. Without a
// hovered target the gesture cancels.
func (s *Session) Drop() schema.FormDescriptor {
	if s.phase != PhaseDropPending {
		s.Cancel()
		return s.form
	}
	s.form = Move(s.form, s.groupID, s.from, s.to)
	s.reset()
	return s.form
}

// Cancel abandons the gesture without mutating the descriptor.
func (s *Session) Cancel() {
	s.reset()
}

func (s *Session) reset() {
	s.phase = PhaseStable
	s.groupID = ""
	s.from = 0
	s.to = 0
}

func (s *Session) siblings(groupID string) []schema.FieldDefinition {
	if groupID == TopLevelGroupID {
		return s.form.Fields
	}
	group, ok := s.form.FindGroup(groupID)
	if !ok {
		return nil
	}
	return group.Children
}
