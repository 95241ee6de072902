// Package server exposes a document store over HTTP, standing in for the hosted document
// database the ledger synchronizes with.
//
//	GET   /v1/users/{user}/document  200 document | 404
//	PATCH /v1/users/{user}/document  204, the fields present in the body are replaced
//	GET   /health
//	GET   /metrics                   when enabled
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/etnz/budget"
	"github.com/etnz/budget/metrics"
	"github.com/etnz/budget/remote"
)

// maxBody bounds the size of a document patch.
const maxBody = 16 << 20

// Store is a document store accepting raw patches.
type Store interface {
	Get(ctx context.Context, user string) (*budget.Document, error)
	Patch(ctx context.Context, user string, p remote.Patch) error
}

// Server is the document API server.
type Server struct {
	store          Store
	metricsEnabled bool
	quiet          bool
}

// New returns a server over the store.
func New(store Store) *Server { return &Server{store: store} }

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Quiet disables the request log.
func (s *Server) Quiet() { s.quiet = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if !s.quiet {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1/users/{user}/document", func(r chi.Router) {
		r.With(instrument("get")).Get("/", s.handleGet)
		r.With(instrument("patch")).Patch("/", s.handlePatch)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	return r
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	doc, err := s.store.Get(r.Context(), user)
	switch {
	case errors.Is(err, budget.ErrNotFound):
		writeError(w, http.StatusNotFound, "no document for "+user)
		return
	case err != nil:
		log.Printf("get %q: %v", user, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handlePatch(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var p remote.Patch
	if err := json.Unmarshal(body, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.store.Patch(r.Context(), user, p); err != nil {
		log.Printf("patch %q: %v", user, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// instrument counts the requests of an operation by status code.
func instrument(op string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			metrics.ServerRequests.WithLabelValues(op, strconv.Itoa(status)).Inc()
		})
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": msg,
			"code":    status,
		},
	})
}
