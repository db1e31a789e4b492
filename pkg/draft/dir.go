package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DirStore persists drafts as JSON files under a directory, one file per
// form named after Key with a .json suffix.
type DirStore struct {
	dir string
}

// NewDirStore returns a store rooted at dir, creating it if needed.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("draft: create dir: %w", err)
	}
	return &DirStore{dir: dir}, nil
}

func (s *DirStore) path(formID string) string {
	return filepath.Join(s.dir, Key(formID)+".json")
}

// Save writes the draft to disk, replacing any previous snapshot.
func (s *DirStore) Save(_ context.Context, d Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("draft: encode: %w", err)
	}
	if err := os.WriteFile(s.path(d.FormID), data, 0o644); err != nil {
		return fmt.Errorf("draft: write: %w", err)
	}
	return nil
}

// Load reads the draft for formID, or returns ErrNotFound.
func (s *DirStore) Load(_ context.Context, formID string) (Draft, error) {
	data, err := os.ReadFile(s.path(formID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Draft{}, ErrNotFound
		}
		return Draft{}, fmt.Errorf("draft: read: %w", err)
	}
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return Draft{}, fmt.Errorf("draft: decode: %w", err)
	}
	return d, nil
}

// Clear removes the draft file for formID if present.
func (s *DirStore) Clear(_ context.Context, formID string) error {
	if err := os.Remove(s.path(formID)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("draft: clear: %w", err)
	}
	return nil
}
