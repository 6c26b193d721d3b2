package server

import (
	"encoding/json"
	"net/http"

	"github.com/bailus/pinpoint/pkg/cache"
	"github.com/bailus/pinpoint/pkg/errors"
	"github.com/bailus/pinpoint/pkg/geo"
	"github.com/bailus/pinpoint/pkg/observability"
	"github.com/bailus/pinpoint/pkg/overlay"
	"github.com/bailus/pinpoint/pkg/store"
	"github.com/bailus/pinpoint/pkg/viewport"
)

// cameraRequest is the camera state a client sends with a placement request.
type cameraRequest struct {
	Lng    float64 `json:"lng"`
	Lat    float64 `json:"lat"`
	Zoom   float64 `json:"zoom"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Globe  bool    `json:"globe,omitempty"`
}

// placementRequest asks for placements of registered overlays under one
// camera. An empty IDs list means all overlays.
type placementRequest struct {
	Camera cameraRequest `json:"camera"`
	IDs    []string      `json:"ids,omitempty"`
}

// placementEntry is one overlay's placement. Skipped overlays (zero content
// size) carry no placement.
type placementEntry struct {
	ID        string             `json:"id"`
	Placement *overlay.Placement `json:"placement,omitempty"`
	Skipped   bool               `json:"skipped,omitempty"`
}

type placementResponse struct {
	Placements []placementEntry `json:"placements"`
	Cached     bool             `json:"cached"`
}

// handlePlacements computes placements for the stored overlays under the
// requested camera. Responses are cached keyed by the overlay set and the
// camera, so repeated requests for an unchanged map view hit the cache.
func (s *Server) handlePlacements(w http.ResponseWriter, r *http.Request) {
	var req placementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding placement request"))
		return
	}
	cam := req.Camera
	if err := errors.ValidateCamera(cam.Lng, cam.Lat, cam.Zoom, cam.Width, cam.Height); err != nil {
		s.writeError(w, err)
		return
	}

	overlays, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if len(req.IDs) > 0 {
		want := make(map[string]bool, len(req.IDs))
		for _, id := range req.IDs {
			want[id] = true
		}
		filtered := overlays[:0]
		for _, o := range overlays {
			if want[o.ID] {
				filtered = append(filtered, o)
			}
		}
		overlays = filtered
	}

	key, err := s.placementKey(overlays, cam)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if data, ok, err := s.cache.Get(r.Context(), key); err == nil && ok {
		observability.Cache().OnHit("placement")
		var resp placementResponse
		if err := json.Unmarshal(data, &resp); err == nil {
			resp.Cached = true
			s.writeJSON(w, http.StatusOK, resp)
			return
		}
	} else {
		observability.Cache().OnMiss("placement")
	}

	resp := placementResponse{Placements: computePlacements(overlays, cam)}

	if data, err := json.Marshal(resp); err == nil {
		if err := s.cache.Set(r.Context(), key, data, s.ttl); err != nil {
			s.logger.Warn("caching placement response", "err", err)
		} else {
			observability.Cache().OnSet("placement", len(data))
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// placementKey derives the cache key for a placement response.
func (s *Server) placementKey(overlays []store.Overlay, cam cameraRequest) (string, error) {
	data, err := json.Marshal(overlays)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hashing overlay set")
	}
	return s.keyer.PlacementKey(cache.Hash(data), cache.PlacementKeyOpts{
		Lng:    cam.Lng,
		Lat:    cam.Lat,
		Zoom:   cam.Zoom,
		Width:  cam.Width,
		Height: cam.Height,
		Globe:  cam.Globe,
	}), nil
}

// computePlacements runs one engine pass per overlay against a fresh camera.
func computePlacements(overlays []store.Overlay, cam cameraRequest) []placementEntry {
	view := viewport.New(geo.LngLat{Lng: cam.Lng, Lat: cam.Lat}, cam.Zoom, cam.Width, cam.Height)
	view.SetGlobe(cam.Globe)

	entries := make([]placementEntry, 0, len(overlays))
	for _, o := range overlays {
		eng := overlay.New(view, o.Options())
		eng.SetContentSize(o.Content.Width, o.Content.Height)
		eng.SetLngLat(o.Coordinate)

		entry := placementEntry{ID: o.ID}
		if pl, ok := eng.Recompute(); ok {
			entry.Placement = &pl
		} else {
			entry.Skipped = true
		}
		entries = append(entries, entry)
	}
	return entries
}
