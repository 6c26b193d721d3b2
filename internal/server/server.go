// Package server implements the pinpoint placement service.
//
// The service keeps registered overlays in a store and computes their
// placements for any camera state on demand. Placement computation is pure,
// so responses are cached by a key derived from the overlay set and the
// camera; any overlay mutation naturally changes the key.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/bailus/pinpoint/pkg/cache"
	"github.com/bailus/pinpoint/pkg/errors"
	"github.com/bailus/pinpoint/pkg/store"
)

// Server wires the HTTP API to the overlay store and the response cache.
type Server struct {
	store  store.Store
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger
}

// New creates a server. A nil cache disables response caching; a nil keyer
// selects the default key derivation.
func New(st store.Store, c cache.Cache, keyer cache.Keyer, ttl time.Duration, logger *log.Logger) *Server {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Server{
		store:  st,
		cache:  c,
		keyer:  keyer,
		ttl:    ttl,
		logger: logger,
	}
}

// Router builds the HTTP route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/overlays", s.handleCreateOverlay)
		r.Get("/overlays", s.handleListOverlays)
		r.Get("/overlays/{id}", s.handleGetOverlay)
		r.Delete("/overlays/{id}", s.handleDeleteOverlay)
		r.Post("/placements", s.handlePlacements)
	})

	return r
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("placement service listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// =============================================================================
// Responses
// =============================================================================

// errorBody is the JSON error envelope.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// writeJSON writes v as a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "err", err)
	}
}

// writeError maps a structured error to an HTTP status and JSON envelope.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := errors.GetCode(err)
	switch code {
	case errors.ErrCodeOverlayNotFound, errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidCoordinate,
		errors.ErrCodeInvalidCamera, errors.ErrCodeInvalidAnchor,
		errors.ErrCodeInvalidOffset, errors.ErrCodeInvalidOpacity:
		status = http.StatusBadRequest
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}

	var body errorBody
	body.Error.Code = string(code)
	body.Error.Message = errors.UserMessage(err)
	s.writeJSON(w, status, body)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
