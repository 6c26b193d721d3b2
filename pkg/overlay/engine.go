package overlay

import (
	"time"

	"github.com/bailus/pinpoint/pkg/geo"
	"github.com/bailus/pinpoint/pkg/observability"
)

// =============================================================================
// Map - Host Surface Collaborator
// =============================================================================

// Map is the host viewport the engine places overlays against. It supplies
// projection, occlusion, viewport metrics, and move-event registration.
// viewport.Camera satisfies this interface.
type Map interface {
	// Project converts a coordinate to viewport pixels, terrain-aware when
	// the host has terrain.
	Project(c geo.LngLat) geo.Point

	// FlatProject converts a coordinate to viewport pixels ignoring
	// terrain. Its output is the wrap-continuity reference.
	FlatProject(c geo.LngLat) geo.Point

	// IsOccluded reports whether a coordinate is hidden behind the world.
	IsOccluded(c geo.LngLat) bool

	// Center returns the camera center coordinate.
	Center() geo.LngLat

	// Size returns the viewport dimensions in pixels.
	Size() geo.Size

	// OnMove registers a synchronous camera-move observer and returns its
	// unsubscribe function.
	OnMove(fn func()) func()
}

// =============================================================================
// Mode - Position Source State
// =============================================================================

// Mode identifies the engine's position source.
type Mode int

const (
	// ModeIdle means no position source is set and nothing is placed.
	ModeIdle Mode = iota

	// ModeGeoAnchored means the overlay follows a geographic coordinate.
	ModeGeoAnchored

	// ModePointerTracked means the overlay follows the pointer; placement
	// is suppressed until the first cursor sample arrives.
	ModePointerTracked
)

// String returns the mode name for logging.
func (m Mode) String() string {
	switch m {
	case ModeGeoAnchored:
		return "geo-anchored"
	case ModePointerTracked:
		return "pointer-tracked"
	default:
		return "idle"
	}
}

// =============================================================================
// Options
// =============================================================================

// Options is the engine's configuration surface.
type Options struct {
	// Anchor forces a fixed anchor. AnchorAuto (the default) selects one
	// per viewport collision.
	Anchor Anchor

	// Offset is the offset specification, resolved each pass.
	Offset Offset

	// Subpixel keeps fractional pixel precision instead of rounding the
	// final position.
	Subpixel bool

	// OccludedOpacity, when non-nil, is the opacity forced while the
	// anchored coordinate is hidden behind the world. Nil leaves opacity
	// untouched.
	OccludedOpacity *float64
}

// =============================================================================
// Engine
// =============================================================================

// posState consolidates the cached screen-point fields that every
// mode-changing entry point must invalidate together. A stale cursor or
// flat reference must never survive a mode or coordinate change.
type posState struct {
	cursor    geo.Point
	hasCursor bool
	flat      *geo.Point // last unelevated screen point, wrap reference
}

// invalidate resets all cached position state.
func (s *posState) invalidate() { *s = posState{} }

// Engine positions one overlay against a host map. It is single-threaded
// and callback-driven: every mutation runs a synchronous recomputation pass
// and reports the result to the registered listener. All methods must be
// called from the host's event loop.
type Engine struct {
	m    Map
	opts Options

	mode    Mode
	coord   geo.LngLat
	content geo.Size
	sized   bool

	pos posState

	listener func(Placement)
	unsubs   []func()
}

// New creates an engine bound to m. The engine does not observe camera
// moves until Attach is called.
func New(m Map, opts Options) *Engine {
	return &Engine{m: m, opts: opts}
}

// OnPlacement registers the host callback invoked with the result of every
// completed recomputation pass. Skipped passes do not invoke it.
func (e *Engine) OnPlacement(fn func(Placement)) {
	e.listener = fn
}

// Attach registers the engine's camera-move subscription. The unsubscribe
// set collected here is torn down atomically by Detach.
func (e *Engine) Attach() {
	e.unsubs = append(e.unsubs, e.m.OnMove(e.update))
	e.update()
}

// Detach unregisters every event subscription and returns the engine to
// idle. No recomputation pass can fire afterward until re-attachment.
func (e *Engine) Detach() {
	for _, unsub := range e.unsubs {
		unsub()
	}
	e.unsubs = nil
	e.mode = ModeIdle
	e.pos.invalidate()
}

// Mode returns the current position-source state.
func (e *Engine) Mode() Mode { return e.mode }

// LngLat returns the anchored coordinate. Its longitude may differ from the
// value passed to SetLngLat by a multiple of 360 degrees after wrapping.
func (e *Engine) LngLat() geo.LngLat { return e.coord }

// SetLngLat anchors the overlay to a geographic coordinate and enters
// geo-anchored mode. Cached position state is cleared so the next pass
// recomputes from scratch.
func (e *Engine) SetLngLat(c geo.LngLat) {
	e.coord = c
	e.mode = ModeGeoAnchored
	e.pos.invalidate()
	e.update()
}

// TrackPointer switches the overlay to follow the pointer. Placement is
// suppressed until the first PointerMoved sample; cached position state is
// cleared so no geo-anchored point leaks across the mode switch.
func (e *Engine) TrackPointer() {
	e.mode = ModePointerTracked
	e.pos.invalidate()
	e.update()
}

// PointerMoved records a cursor sample. Outside pointer-tracked mode it is
// ignored.
func (e *Engine) PointerMoved(p geo.Point) {
	if e.mode != ModePointerTracked {
		return
	}
	e.pos.cursor = p
	e.pos.hasCursor = true
	e.update()
}

// SetContentSize records the measured overlay box. The engine cannot place
// an unmeasured overlay, so passes before the first call are skipped. A
// zero-extent size counts as unmeasured.
func (e *Engine) SetContentSize(width, height float64) {
	e.content = geo.Size{Width: width, Height: height}
	e.sized = !e.content.IsZero()
	e.update()
}

// SetOffset replaces the offset specification. Cached position state is
// cleared per the invalidation rules for offset changes.
func (e *Engine) SetOffset(o Offset) {
	e.opts.Offset = o
	e.pos.invalidate()
	e.update()
}

// SetAnchor forces an anchor, or restores automatic selection with
// AnchorAuto.
func (e *Engine) SetAnchor(a Anchor) {
	e.opts.Anchor = a
	e.update()
}

// update runs a pass and forwards a completed placement to the listener.
func (e *Engine) update() {
	pl, ok := e.Recompute()
	if ok && e.listener != nil {
		e.listener(pl)
	}
}

// Recompute runs one placement pass from current inputs: wrap longitude,
// obtain the screen point, resolve offsets, select the anchor, and compute
// the final position. It returns false when the pass is skipped, which is a
// valid state: no position source, no cursor sample yet, or no measured
// content size.
func (e *Engine) Recompute() (Placement, bool) {
	start := time.Now()

	pl, ok := e.recompute()
	observability.Engine().OnPass(e.mode.String(), string(pl.Anchor), !ok, time.Since(start))
	return pl, ok
}

func (e *Engine) recompute() (Placement, bool) {
	if e.m == nil || !e.sized {
		return Placement{}, false
	}

	var pos geo.Point
	switch e.mode {
	case ModePointerTracked:
		if !e.pos.hasCursor {
			return Placement{}, false
		}
		pos = e.pos.cursor
	case ModeGeoAnchored:
		// Position derives from geography, so keep the coordinate on the
		// world copy nearest its previous screen position.
		e.coord = SmartWrap(e.coord, e.pos.flat, e.m)
		pos = e.m.Project(e.coord)
		flat := e.m.FlatProject(e.coord)
		e.pos.flat = &flat
	default:
		return Placement{}, false
	}

	offsets := e.opts.Offset.Resolve()

	anchor := e.opts.Anchor
	if anchor == AnchorAuto {
		anchor = SelectAnchor(pos, offsets, e.content, e.m.Size())
	}

	pl := ComputePlacement(pos, offsets, anchor, e.opts.Subpixel)
	pl.Opacity = e.occlusionOpacity()
	return pl, true
}

// occlusionOpacity derives the opacity directive for the current pass. With
// no configured occluded opacity the host's opacity is left alone. Pointer
// tracking has no geography to occlude, so the directive clears.
func (e *Engine) occlusionOpacity() Opacity {
	if e.opts.OccludedOpacity == nil {
		return Opacity{Action: OpacityLeave}
	}
	if e.mode == ModeGeoAnchored && e.m.IsOccluded(e.coord) {
		return Opacity{Action: OpacitySet, Value: *e.opts.OccludedOpacity}
	}
	return Opacity{Action: OpacityClear}
}
