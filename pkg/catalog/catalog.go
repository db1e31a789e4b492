// Package catalog loads form descriptor collections from files, embedded
// filesystems, or HTTP endpoints, and resolves individual forms by id.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// ErrFormNotFound indicates the catalog holds no form with the requested id.
var ErrFormNotFound = errors.New("catalog: form not found")

// Catalog loads, decodes, validates, and sanitizes the form descriptors at
// src. Documents may be a bare JSON/YAML array of descriptors or an object
// with a "forms" key.
func Catalog(ctx context.Context, loader *Loader, src Source) ([]schema.FormDescriptor, error) {
	data, err := loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	forms, err := decode(data, src.Location())
	if err != nil {
		return nil, err
	}
	for i, form := range forms {
		if err := form.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: form %q: %w", form.FormID, err)
		}
		forms[i] = schema.Sanitize(form)
	}
	return forms, nil
}

// Form loads the catalog at src and returns the descriptor whose id matches
// formID, or ErrFormNotFound.
func Form(ctx context.Context, loader *Loader, src Source, formID string) (schema.FormDescriptor, error) {
	forms, err := Catalog(ctx, loader, src)
	if err != nil {
		return schema.FormDescriptor{}, err
	}
	for _, form := range forms {
		if form.FormID == formID {
			return form, nil
		}
	}
	return schema.FormDescriptor{}, fmt.Errorf("%w: %s", ErrFormNotFound, formID)
}

type document struct {
	Forms []schema.FormDescriptor `json:"forms" yaml:"forms"`
}

func decode(data []byte, location string) ([]schema.FormDescriptor, error) {
	if isYAML(location) {
		return decodeYAML(data)
	}
	forms, err := decodeJSON(data)
	if err != nil {
		// Extension-less sources fall back to YAML, which is a JSON
		// superset anyway.
		if yforms, yerr := decodeYAML(data); yerr == nil {
			return yforms, nil
		}
		return nil, err
	}
	return forms, nil
}

func decodeJSON(data []byte) ([]schema.FormDescriptor, error) {
	var forms []schema.FormDescriptor
	if err := json.Unmarshal(data, &forms); err == nil {
		return forms, nil
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: decode json: %w", err)
	}
	return doc.Forms, nil
}

func decodeYAML(data []byte) ([]schema.FormDescriptor, error) {
	var forms []schema.FormDescriptor
	if err := yaml.Unmarshal(data, &forms); err == nil {
		return forms, nil
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: decode yaml: %w", err)
	}
	return doc.Forms, nil
}

func isYAML(location string) bool {
	switch strings.ToLower(path.Ext(location)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
