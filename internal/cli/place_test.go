package cli

import (
	"testing"

	"github.com/bailus/pinpoint/pkg/config"
	"github.com/bailus/pinpoint/pkg/overlay"
)

func TestSingleOverlayDefaults(t *testing.T) {
	opts := placeOptions{lng: 13.4, lat: 52.5, contentWidth: 100, contentHeight: 50}

	o, err := singleOverlay(opts, config.Overlay{}, false, false)
	if err != nil {
		t.Fatalf("singleOverlay: %v", err)
	}
	if o.Coordinate.Lng != 13.4 || o.Coordinate.Lat != 52.5 {
		t.Errorf("Coordinate = %v, want camera center", o.Coordinate)
	}
	if o.Anchor != overlay.AnchorAuto {
		t.Errorf("Anchor = %q, want auto", o.Anchor)
	}
	if o.Offset.Radius != nil {
		t.Error("Offset.Radius set without a flag or config default")
	}
}

func TestSingleOverlayOverrides(t *testing.T) {
	opts := placeOptions{
		lng: 0, lat: 0,
		atLng: 139.7, atLat: 35.7,
		contentWidth: 100, contentHeight: 50,
		anchor:       "top-left",
		offsetRadius: 12,
		subpixel:     true,
	}

	o, err := singleOverlay(opts, config.Overlay{}, true, true)
	if err != nil {
		t.Fatalf("singleOverlay: %v", err)
	}
	if o.Coordinate.Lng != 139.7 || o.Coordinate.Lat != 35.7 {
		t.Errorf("Coordinate = %v, want overlay flags", o.Coordinate)
	}
	if o.Anchor != overlay.AnchorTopLeft {
		t.Errorf("Anchor = %q, want top-left", o.Anchor)
	}
	if o.Offset.Radius == nil || *o.Offset.Radius != 12 {
		t.Errorf("Offset.Radius = %v, want 12", o.Offset.Radius)
	}
	if !o.Subpixel {
		t.Error("Subpixel not carried from flags")
	}
}

func TestSingleOverlayConfigDefaults(t *testing.T) {
	opacity := 0.4
	defaults := config.Overlay{
		Anchor:          "bottom",
		OffsetRadius:    8,
		OccludedOpacity: &opacity,
	}
	opts := placeOptions{contentWidth: 100, contentHeight: 50}

	o, err := singleOverlay(opts, defaults, false, false)
	if err != nil {
		t.Fatalf("singleOverlay: %v", err)
	}
	if o.Anchor != overlay.AnchorBottom {
		t.Errorf("Anchor = %q, want config default bottom", o.Anchor)
	}
	if o.Offset.Radius == nil || *o.Offset.Radius != 8 {
		t.Errorf("Offset.Radius = %v, want config default 8", o.Offset.Radius)
	}
	if o.OccludedOpacity == nil || *o.OccludedOpacity != 0.4 {
		t.Errorf("OccludedOpacity = %v, want 0.4", o.OccludedOpacity)
	}
}

func TestSingleOverlayInvalidAnchor(t *testing.T) {
	opts := placeOptions{anchor: "sideways", contentWidth: 10, contentHeight: 10}
	if _, err := singleOverlay(opts, config.Overlay{}, false, false); err == nil {
		t.Fatal("expected error for invalid anchor")
	}
}
