package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bailus/pinpoint/pkg/cache"
	"github.com/bailus/pinpoint/pkg/geo"
	"github.com/bailus/pinpoint/pkg/store"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	logger := log.New(io.Discard)
	srv := New(store.NewMemoryStore(), cache.NewNullCache(), nil, 0, logger)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return srv, ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Request-ID"); got == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestOverlayCRUD(t *testing.T) {
	_, ts := newTestServer(t)

	created := decode[store.Overlay](t, postJSON(t, ts.URL+"/v1/overlays", store.Overlay{
		Coordinate: geo.LngLat{Lng: 13.4, Lat: 52.5},
		Content:    geo.Size{Width: 100, Height: 50},
	}))
	if created.ID == "" {
		t.Fatal("created overlay has no id")
	}

	got := decode[store.Overlay](t, mustGet(t, ts.URL+"/v1/overlays/"+created.ID))
	if got.Coordinate.Lng != 13.4 {
		t.Errorf("Lng = %v, want 13.4", got.Coordinate.Lng)
	}

	list := decode[[]store.Overlay](t, mustGet(t, ts.URL+"/v1/overlays"))
	if len(list) != 1 {
		t.Fatalf("len(list) = %d, want 1", len(list))
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/v1/overlays/"+created.ID, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/v1/overlays/" + created.ID)
	if err != nil {
		t.Fatalf("GET after delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", resp.StatusCode)
	}
}

func mustGet(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s status = %d, want 200", url, resp.StatusCode)
	}
	return resp
}

func TestCreateOverlayValidation(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/overlays", store.Overlay{
		Coordinate: geo.LngLat{Lng: 0, Lat: 95},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if body.Error.Code == "" {
		t.Error("error body has no code")
	}
}

func TestPlacements(t *testing.T) {
	_, ts := newTestServer(t)

	created := decode[store.Overlay](t, postJSON(t, ts.URL+"/v1/overlays", store.Overlay{
		Coordinate: geo.LngLat{Lng: 0, Lat: 0},
		Content:    geo.Size{Width: 100, Height: 50},
	}))

	resp := decode[placementResponse](t, postJSON(t, ts.URL+"/v1/placements", placementRequest{
		Camera: cameraRequest{Lng: 0, Lat: 0, Zoom: 2, Width: 800, Height: 600},
	}))
	if len(resp.Placements) != 1 {
		t.Fatalf("len(placements) = %d, want 1", len(resp.Placements))
	}
	entry := resp.Placements[0]
	if entry.ID != created.ID {
		t.Errorf("ID = %q, want %q", entry.ID, created.ID)
	}
	if entry.Skipped || entry.Placement == nil {
		t.Fatal("placement was skipped")
	}
	// Camera centered on the coordinate: the point lands mid-viewport and
	// the default anchor applies.
	if entry.Placement.Pos.X != 400 || entry.Placement.Pos.Y != 300 {
		t.Errorf("Pos = %v, want (400, 300)", entry.Placement.Pos)
	}
	if string(entry.Placement.Anchor) != "bottom" {
		t.Errorf("Anchor = %q, want bottom", entry.Placement.Anchor)
	}
}

func TestPlacementsSkipsUnmeasured(t *testing.T) {
	_, ts := newTestServer(t)

	postJSON(t, ts.URL+"/v1/overlays", store.Overlay{
		ID:         "unmeasured",
		Coordinate: geo.LngLat{Lng: 10, Lat: 10},
	}).Body.Close()

	resp := decode[placementResponse](t, postJSON(t, ts.URL+"/v1/placements", placementRequest{
		Camera: cameraRequest{Zoom: 2, Width: 800, Height: 600},
	}))
	if len(resp.Placements) != 1 {
		t.Fatalf("len(placements) = %d, want 1", len(resp.Placements))
	}
	if !resp.Placements[0].Skipped {
		t.Error("expected unmeasured overlay to be skipped")
	}
}

func TestPlacementsInvalidCamera(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/placements", placementRequest{
		Camera: cameraRequest{Zoom: 40, Width: 800, Height: 600},
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestPlacementsCaching(t *testing.T) {
	logger := log.New(io.Discard)
	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	srv := New(store.NewMemoryStore(), fc, nil, time.Hour, logger)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	postJSON(t, ts.URL+"/v1/overlays", store.Overlay{
		ID:         "a",
		Coordinate: geo.LngLat{Lng: 0, Lat: 0},
		Content:    geo.Size{Width: 100, Height: 50},
	}).Body.Close()

	req := placementRequest{Camera: cameraRequest{Zoom: 2, Width: 800, Height: 600}}

	first := decode[placementResponse](t, postJSON(t, ts.URL+"/v1/placements", req))
	if first.Cached {
		t.Error("first response should not be cached")
	}
	second := decode[placementResponse](t, postJSON(t, ts.URL+"/v1/placements", req))
	if !second.Cached {
		t.Error("second response should be cached")
	}

	// Mutating the overlay set changes the key.
	postJSON(t, ts.URL+"/v1/overlays", store.Overlay{
		ID:         "b",
		Coordinate: geo.LngLat{Lng: 5, Lat: 5},
		Content:    geo.Size{Width: 40, Height: 20},
	}).Body.Close()
	third := decode[placementResponse](t, postJSON(t, ts.URL+"/v1/placements", req))
	if third.Cached {
		t.Error("response after mutation should not be cached")
	}
	if len(third.Placements) != 2 {
		t.Errorf("len(placements) = %d, want 2", len(third.Placements))
	}
}
