package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bailus/pinpoint/pkg/errors"
	"github.com/bailus/pinpoint/pkg/store"
)

// handleCreateOverlay registers an overlay. A missing id is assigned; a
// supplied id replaces any existing record.
func (s *Server) handleCreateOverlay(w http.ResponseWriter, r *http.Request) {
	var o store.Overlay
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding overlay"))
		return
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if err := o.Validate(); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.Put(r.Context(), o); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("overlay registered", "id", o.ID, "lng", o.Coordinate.Lng, "lat", o.Coordinate.Lat)
	s.writeJSON(w, http.StatusCreated, o)
}

func (s *Server) handleGetOverlay(w http.ResponseWriter, r *http.Request) {
	o, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, o)
}

func (s *Server) handleDeleteOverlay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("overlay removed", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListOverlays(w http.ResponseWriter, r *http.Request) {
	overlays, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if overlays == nil {
		overlays = []store.Overlay{}
	}
	s.writeJSON(w, http.StatusOK, overlays)
}
