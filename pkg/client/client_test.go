package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bailus/pinpoint/internal/server"
	"github.com/bailus/pinpoint/pkg/cache"
	"github.com/bailus/pinpoint/pkg/errors"
	"github.com/bailus/pinpoint/pkg/geo"
	"github.com/bailus/pinpoint/pkg/store"
)

func newService(t *testing.T) *Client {
	t.Helper()
	srv := server.New(store.NewMemoryStore(), cache.NewNullCache(), nil, 0, log.New(io.Discard))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return New(ts.URL, WithRetries(1, time.Millisecond))
}

func TestClientRoundTrip(t *testing.T) {
	c := newService(t)
	ctx := context.Background()

	created, err := c.CreateOverlay(ctx, store.Overlay{
		Coordinate: geo.LngLat{Lng: 0, Lat: 0},
		Content:    geo.Size{Width: 100, Height: 50},
	})
	if err != nil {
		t.Fatalf("CreateOverlay: %v", err)
	}
	if created.ID == "" {
		t.Fatal("no id assigned")
	}

	resp, err := c.Placements(ctx, Camera{Zoom: 2, Width: 800, Height: 600})
	if err != nil {
		t.Fatalf("Placements: %v", err)
	}
	if len(resp.Placements) != 1 || resp.Placements[0].Placement == nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if got := resp.Placements[0].Placement.Pos; got.X != 400 || got.Y != 300 {
		t.Errorf("Pos = %v, want (400, 300)", got)
	}

	if err := c.DeleteOverlay(ctx, created.ID); err != nil {
		t.Fatalf("DeleteOverlay: %v", err)
	}
	_, err = c.GetOverlay(ctx, created.ID)
	if !errors.Is(err, errors.ErrCodeOverlayNotFound) {
		t.Fatalf("err = %v, want overlay not found", err)
	}
}

func TestClientHealthy(t *testing.T) {
	c := newService(t)
	if !c.Healthy(context.Background()) {
		t.Error("service should be healthy")
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(ts.Close)

	c := New(ts.URL, WithRetries(3, time.Millisecond))
	if _, err := c.ListOverlays(context.Background()); err != nil {
		t.Fatalf("ListOverlays: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"INVALID_INPUT","message":"bad request"}}`))
	}))
	t.Cleanup(ts.Close)

	c := New(ts.URL, WithRetries(3, time.Millisecond))
	_, err := c.ListOverlays(context.Background())
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want invalid input", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}
