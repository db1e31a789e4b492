// Package server exposes the form service over HTTP: the descriptor
// catalog, submission intake and history, and the dynamic region options
// component.
package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/components/regions"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/submit"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// Server serves a fixed catalog and keeps submissions in memory.
type Server struct {
	forms  []schema.FormDescriptor
	logger *zap.Logger

	mu          sync.Mutex
	submissions []submit.Submission
}

// Option configures a Server.
type Option func(*Server)

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a Server over the given catalog.
func New(forms []schema.FormDescriptor, options ...Option) *Server {
	s := &Server{
		forms:  forms,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Router builds the chi router with all service routes mounted.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/api/insurance/forms", s.handleForms)
	r.Post("/api/insurance/forms/submit", s.handleSubmit)
	r.Get("/api/insurance/forms/submissions", s.handleSubmissions)

	if _, err := regions.RegisterRoutes(r, ""); err != nil {
		s.logger.Error("mount regions component", zap.Error(err))
	}
	return r
}

func (s *Server) handleForms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.forms)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var sub submit.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		http.Error(w, "invalid submission payload", http.StatusBadRequest)
		return
	}

	form, ok := s.formByID(sub.FormID)
	if !ok {
		http.Error(w, "unknown form", http.StatusNotFound)
		return
	}

	flat := flatten(sub.Data)
	result := validation.Build(form, flat).Validate(flat)
	if !result.Valid {
		s.logger.Info("submission rejected",
			zap.String("form_id", sub.FormID),
			zap.Int("issues", len(result.Issues)))
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}

	s.mu.Lock()
	s.submissions = append(s.submissions, sub)
	s.mu.Unlock()

	s.logger.Info("submission accepted", zap.String("form_id", sub.FormID))
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

func (s *Server) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	subs := append([]submit.Submission(nil), s.submissions...)
	s.mu.Unlock()

	if subs == nil {
		subs = []submit.Submission{}
	}
	writeJSON(w, http.StatusOK, subs)
}

func (s *Server) formByID(formID string) (schema.FormDescriptor, bool) {
	for _, form := range s.forms {
		if form.FormID == formID {
			return form, true
		}
	}
	return schema.FormDescriptor{}, false
}

// flatten undoes the nested-group reshape so submissions can be re-validated
// against the descriptor's flat field ids.
func flatten(payload submit.Payload) map[string]any {
	out := make(map[string]any, len(payload))
	var walk func(m map[string]any)
	walk = func(m map[string]any) {
		for k, v := range m {
			if nested, ok := v.(map[string]any); ok {
				walk(nested)
				continue
			}
			out[k] = v
		}
	}
	walk(payload)
	return out
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
