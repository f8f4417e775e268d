// Package handler implements the HTTP handlers for the mail-merge API.
// All handlers are methods on Server. Methods are split into files by
// endpoint (health.go, merge.go, semester.go) but share the same Server
// struct so they can reach its dependencies.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/assistant-mailmerge/internal/domain"
	"github.com/pkordes/assistant-mailmerge/spec"
)

// MergeServicer defines the merge operations the handlers depend on.
// Defining the interface here, in the consumer package, lets handler tests
// inject a mock without a real profile.
type MergeServicer interface {
	Build(ctx context.Context, table domain.Table, cfg domain.MergeConfig) (domain.Result, error)
	WithDefaults(cfg domain.MergeConfig) domain.MergeConfig
	SemesterCode(d time.Time) string
}

// Server holds the dependencies shared by every handler.
type Server struct {
	merge MergeServicer

	// defaultLink is used when a merge request carries no link parameter.
	defaultLink string
}

// NewServer constructs the Server with all its dependencies.
func NewServer(merge MergeServicer, defaultLink string) *Server {
	return &Server{merge: merge, defaultLink: defaultLink}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, "")
}

// Routes returns a router with every API endpoint registered.
// Mount it on the top-level router after the global middleware.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Get("/semester", s.GetSemester)
	r.Post("/merge", s.PostMerge)
	return r
}

// GetOpenAPI handles GET /openapi.yaml by serving the embedded document.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(spec.OpenAPI)
}
