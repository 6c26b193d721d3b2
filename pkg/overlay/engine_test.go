package overlay

import (
	"math"
	"testing"

	"github.com/bailus/pinpoint/pkg/geo"
	"github.com/bailus/pinpoint/pkg/viewport"
)

func TestEngineSkipsWithoutInputs(t *testing.T) {
	cam := viewport.New(geo.LngLat{Lng: 0, Lat: 0}, 3, 800, 600)
	e := New(cam, Options{})

	if _, ok := e.Recompute(); ok {
		t.Error("idle engine must skip the pass")
	}

	// A coordinate without a measured content size still skips.
	e.SetLngLat(geo.LngLat{Lng: 0, Lat: 0})
	if _, ok := e.Recompute(); ok {
		t.Error("unmeasured overlay must skip the pass")
	}

	e.SetContentSize(100, 50)
	pl, ok := e.Recompute()
	if !ok {
		t.Fatal("measured, anchored overlay must place")
	}
	if pl.Anchor != AnchorBottom {
		t.Errorf("anchor = %s, want bottom", pl.Anchor)
	}
	if pl.Pos != (geo.Point{X: 400, Y: 300}) {
		t.Errorf("pos = %v, want viewport center", pl.Pos)
	}
}

func TestEngineZeroContentSizeSkips(t *testing.T) {
	cam := viewport.New(geo.LngLat{Lng: 0, Lat: 0}, 3, 800, 600)
	e := New(cam, Options{})
	e.SetLngLat(geo.LngLat{Lng: 0, Lat: 0})

	// An explicit zero-extent size is still unmeasured.
	e.SetContentSize(0, 0)
	if _, ok := e.Recompute(); ok {
		t.Error("zero content size must skip the pass")
	}

	e.SetContentSize(100, 50)
	if _, ok := e.Recompute(); !ok {
		t.Fatal("measured overlay must place")
	}

	// Shrinking back to zero skips again.
	e.SetContentSize(0, 0)
	if _, ok := e.Recompute(); ok {
		t.Error("pass must skip after the size is cleared")
	}
}

func TestEnginePointerTracking(t *testing.T) {
	cam := viewport.New(geo.LngLat{Lng: 0, Lat: 0}, 3, 800, 600)
	e := New(cam, Options{})
	e.SetContentSize(100, 50)

	e.TrackPointer()
	if _, ok := e.Recompute(); ok {
		t.Error("pointer mode must suppress placement before the first sample")
	}

	e.PointerMoved(geo.Point{X: 120, Y: 220})
	pl, ok := e.Recompute()
	if !ok {
		t.Fatal("pointer sample must allow placement")
	}
	if pl.Pos != (geo.Point{X: 120, Y: 220}) {
		t.Errorf("pos = %v, want the cursor point", pl.Pos)
	}
}

func TestEnginePointerMovedIgnoredOutsideTracking(t *testing.T) {
	cam := viewport.New(geo.LngLat{Lng: 0, Lat: 0}, 3, 800, 600)
	e := New(cam, Options{})
	e.SetContentSize(100, 50)
	e.SetLngLat(geo.LngLat{Lng: 0, Lat: 0})

	e.PointerMoved(geo.Point{X: 10, Y: 10})

	pl, ok := e.Recompute()
	if !ok {
		t.Fatal("expected placement")
	}
	if pl.Pos != (geo.Point{X: 400, Y: 300}) {
		t.Errorf("pos = %v, want the projected coordinate, not the cursor", pl.Pos)
	}
}

func TestEngineModeSwitchClearsPositionState(t *testing.T) {
	cam := viewport.New(geo.LngLat{Lng: 0, Lat: 0}, 3, 800, 600)
	e := New(cam, Options{})
	e.SetContentSize(100, 50)

	e.SetLngLat(geo.LngLat{Lng: 0, Lat: 0})
	if _, ok := e.Recompute(); !ok {
		t.Fatal("expected geo placement")
	}
	if e.pos.flat == nil {
		t.Fatal("geo pass must cache the flat reference point")
	}

	e.TrackPointer()
	if e.pos.flat != nil {
		t.Error("entering pointer mode must clear the flat reference")
	}
	e.PointerMoved(geo.Point{X: 50, Y: 60})

	e.SetLngLat(geo.LngLat{Lng: 0, Lat: 0})
	if e.pos.hasCursor {
		t.Error("leaving pointer mode must clear the cursor sample")
	}

	pl, ok := e.Recompute()
	if !ok {
		t.Fatal("expected geo placement after switching back")
	}
	if pl.Pos == (geo.Point{X: 50, Y: 60}) {
		t.Error("placement reused the stale pointer position")
	}
	if pl.Pos != (geo.Point{X: 400, Y: 300}) {
		t.Errorf("pos = %v, want the projected coordinate", pl.Pos)
	}
}

func TestEngineAntimeridianContinuity(t *testing.T) {
	cam := viewport.New(geo.LngLat{Lng: 170, Lat: 0}, 3, 800, 600)
	e := New(cam, Options{})
	e.Attach()
	defer e.Detach()

	var last Placement
	e.OnPlacement(func(pl Placement) { last = pl })

	e.SetContentSize(100, 50)
	e.SetLngLat(geo.LngLat{Lng: 179, Lat: 0})
	before := last.Pos

	// Pan the camera 20 degrees east; its wrapped center lands at -170 on
	// the far side of the antimeridian.
	cam.SetCenter(geo.LngLat{Lng: -170, Lat: 0})
	after := last.Pos

	// Without wrapping the overlay would jump nearly a full world width
	// (4096 px at zoom 3). With wrapping it moves by the panned distance.
	panned := 20.0 / 360 * geo.WorldSize(3)
	if math.Abs((before.X-after.X)-panned) > 1.0 {
		t.Errorf("overlay moved %v px, want about %v", before.X-after.X, panned)
	}

	// The stored coordinate shifted one whole world west.
	if got := e.LngLat().Lng; got != 179-360 {
		t.Errorf("wrapped lng = %v, want %v", got, 179-360)
	}
	if e.LngLat().Lat != 0 {
		t.Errorf("latitude changed: %v", e.LngLat().Lat)
	}
}

func TestEngineDetachStopsRecomputation(t *testing.T) {
	cam := viewport.New(geo.LngLat{Lng: 0, Lat: 0}, 3, 800, 600)
	e := New(cam, Options{})

	placements := 0
	e.OnPlacement(func(Placement) { placements++ })

	e.Attach()
	e.SetContentSize(100, 50)
	e.SetLngLat(geo.LngLat{Lng: 0, Lat: 0})
	if placements == 0 {
		t.Fatal("expected placements while attached")
	}

	e.Detach()
	seen := placements
	cam.SetCenter(geo.LngLat{Lng: 10, Lat: 10})
	if placements != seen {
		t.Error("camera move after detach triggered a recomputation")
	}
	if e.Mode() != ModeIdle {
		t.Errorf("mode after detach = %v, want idle", e.Mode())
	}
}

func TestEngineOcclusionOpacity(t *testing.T) {
	cam := viewport.New(geo.LngLat{Lng: 0, Lat: 0}, 2, 800, 600)
	cam.SetGlobe(true)

	hidden := 0.2
	e := New(cam, Options{OccludedOpacity: &hidden})
	e.SetContentSize(100, 50)

	// Far side of the globe.
	e.SetLngLat(geo.LngLat{Lng: 150, Lat: 0})
	pl, ok := e.Recompute()
	if !ok {
		t.Fatal("expected placement")
	}
	if pl.Opacity.Action != OpacitySet || pl.Opacity.Value != hidden {
		t.Errorf("opacity = %+v, want forced %v", pl.Opacity, hidden)
	}

	// Visible coordinate clears any forced opacity.
	e.SetLngLat(geo.LngLat{Lng: 10, Lat: 10})
	pl, _ = e.Recompute()
	if pl.Opacity.Action != OpacityClear {
		t.Errorf("opacity action = %v, want clear", pl.Opacity.Action)
	}

	// Without configuration the host's opacity is left alone.
	plain := New(cam, Options{})
	plain.SetContentSize(100, 50)
	plain.SetLngLat(geo.LngLat{Lng: 150, Lat: 0})
	pl, _ = plain.Recompute()
	if pl.Opacity.Action != OpacityLeave {
		t.Errorf("opacity action = %v, want leave", pl.Opacity.Action)
	}
}

func TestEngineForcedAnchorSkipsSelection(t *testing.T) {
	cam := viewport.New(geo.LngLat{Lng: 0, Lat: 0}, 3, 800, 600)
	e := New(cam, Options{Anchor: AnchorTopRight})
	e.SetContentSize(100, 50)
	e.SetLngLat(geo.LngLat{Lng: 0, Lat: 0})

	pl, ok := e.Recompute()
	if !ok {
		t.Fatal("expected placement")
	}
	if pl.Anchor != AnchorTopRight {
		t.Errorf("anchor = %s, want forced top-right", pl.Anchor)
	}
}

func TestEngineSubpixelOption(t *testing.T) {
	// An odd viewport height makes the projected center land on a half
	// pixel.
	cam := viewport.New(geo.LngLat{Lng: 0, Lat: 0}, 3, 800, 601)
	e := New(cam, Options{Subpixel: true})
	e.SetContentSize(100, 50)
	e.SetLngLat(geo.LngLat{Lng: 0, Lat: 0})

	pl, ok := e.Recompute()
	if !ok {
		t.Fatal("expected placement")
	}
	if pl.Rounded {
		t.Error("subpixel placement must not round")
	}
	if pl.Pos.Y != 300.5 {
		t.Errorf("pos.Y = %v, want 300.5", pl.Pos.Y)
	}
}
