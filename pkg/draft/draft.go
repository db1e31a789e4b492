// Package draft persists partially completed form values so a session can be
// resumed later. Drafts are keyed per form and overwrite on every save.
package draft

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates no draft exists for the form.
var ErrNotFound = errors.New("draft: not found")

// Draft is a saved snapshot of in-progress values.
type Draft struct {
	FormID  string         `json:"formId"`
	Values  map[string]any `json:"values"`
	SavedAt time.Time      `json:"savedAt"`
}

// Store saves and restores drafts. Implementations are safe for concurrent
// use.
type Store interface {
	Save(ctx context.Context, d Draft) error
	Load(ctx context.Context, formID string) (Draft, error)
	Clear(ctx context.Context, formID string) error
}

// Key returns the storage key for a form's draft.
func Key(formID string) string {
	return "draft_" + formID
}
