// Package server exposes the allocation service and the history archive
// over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/abhisek/labgen/internal/allocation"
	"github.com/abhisek/labgen/internal/history"
)

const (
	maxBodyBytes     = 1 << 20
	msgGenerateError = "Failed to generate questions"
)

// Allocator is the part of allocation.Service the handlers use.
type Allocator interface {
	Allocate(ctx context.Context, req allocation.Request) (*allocation.Response, error)
	ModelID() string
}

// Options configures the HTTP surface.
type Options struct {
	// CORSOrigins lists allowed origins. Empty disables CORS headers.
	CORSOrigins []string

	// RequestTimeout bounds each request, including the backend call.
	// Default: 90s.
	RequestTimeout time.Duration
}

// Server holds the HTTP handlers.
type Server struct {
	alloc   Allocator
	archive history.Archive
	opts    Options
}

// New creates a Server. archive may be nil, in which case the history
// routes are not mounted.
func New(alloc Allocator, archive history.Archive, opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 90 * time.Second
	}
	return &Server{alloc: alloc, archive: archive, opts: opts}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(s.opts.RequestTimeout))

	if len(s.opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.opts.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(ar chi.Router) {
		ar.Post("/generate-questions", s.handleGenerate)
		if s.archive != nil {
			ar.Get("/history", s.handleListHistory)
			ar.Delete("/history", s.handleClearHistory)
		}
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", addr, "provider", providerLabel(s.alloc.ModelID()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	slog.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

type errorBody struct {
	Error string `json:"error"`
}

type failureBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req allocation.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return
	}

	resp, err := s.alloc.Allocate(r.Context(), req)
	if err != nil {
		if allocation.IsValidation(err) {
			respondJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}
		slog.Error("allocation failed", "subject", req.Subject, "error", err)
		respondJSON(w, http.StatusInternalServerError, failureBody{
			Error:   msgGenerateError,
			Details: err.Error(),
		})
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	limit := history.Capacity
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondJSON(w, http.StatusBadRequest, errorBody{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	recs, err := s.archive.List(r.Context(), limit)
	if err != nil {
		slog.Error("listing history", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to load history"})
		return
	}
	if recs == nil {
		recs = []history.Record{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"history": recs})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.archive.Clear(r.Context()); err != nil {
		slog.Error("clearing history", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to clear history"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"provider": providerLabel(s.alloc.ModelID()),
	})
}

func providerLabel(modelID string) string {
	if modelID == "" {
		return "fallback-only"
	}
	return modelID
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}
