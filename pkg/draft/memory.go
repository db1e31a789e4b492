package draft

import (
	"context"
	"sync"
)

// MemoryStore keeps drafts in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]Draft
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string]Draft)}
}

// Save stores the draft, replacing any previous snapshot for the form.
func (s *MemoryStore) Save(_ context.Context, d Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[Key(d.FormID)] = clone(d)
	return nil
}

// Load returns the draft for formID, or ErrNotFound.
func (s *MemoryStore) Load(_ context.Context, formID string) (Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[Key(formID)]
	if !ok {
		return Draft{}, ErrNotFound
	}
	return clone(d), nil
}

// Clear removes the draft for formID. Clearing a missing draft is not an
// error.
func (s *MemoryStore) Clear(_ context.Context, formID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, Key(formID))
	return nil
}

func clone(d Draft) Draft {
	out := d
	out.Values = make(map[string]any, len(d.Values))
	for k, v := range d.Values {
		out.Values[k] = v
	}
	return out
}
