// Package viewport implements the host map surface that overlays anchor to:
// a Web Mercator camera with a pixel viewport, geographic-to-screen
// projection, an optional elevation source, a globe-horizon occlusion
// predicate, and move-observer registration.
//
// The Camera satisfies the overlay engine's Map interface. It is the single
// source of truth for "where does this coordinate land on screen" and
// notifies registered observers synchronously whenever the view changes.
package viewport

import (
	"math"

	"github.com/bailus/pinpoint/pkg/geo"
)

// earthCircumference is the equatorial circumference in meters, used to
// convert sampled elevations to screen pixels.
const earthCircumference = 40075016.686

// horizonAngle is the great-circle angular distance (degrees) from the
// camera center beyond which a coordinate sits on the far side of the globe
// preview and counts as occluded.
const horizonAngle = 90.0

// ElevationSampler supplies terrain height in meters for a coordinate.
// Cameras without terrain leave it nil.
type ElevationSampler interface {
	ElevationAt(c geo.LngLat) float64
}

// Camera is a Web Mercator viewport: a center coordinate, a zoom level, and
// a pixel size. The zero value is not usable; construct with New.
type Camera struct {
	center geo.LngLat
	zoom   float64
	size   geo.Size

	// globe enables the far-side occlusion predicate used by the globe
	// preview projection.
	globe bool

	elevation ElevationSampler

	observers map[int]func()
	nextObs   int
}

// New creates a camera centered on c at the given zoom with a viewport of
// width x height pixels.
func New(c geo.LngLat, zoom, width, height float64) *Camera {
	return &Camera{
		center:    c,
		zoom:      zoom,
		size:      geo.Size{Width: width, Height: height},
		observers: map[int]func(){},
	}
}

// SetGlobe toggles the globe-preview occlusion predicate.
func (c *Camera) SetGlobe(on bool) {
	c.globe = on
	c.notify()
}

// SetElevation installs a terrain elevation source. Passing nil removes it.
func (c *Camera) SetElevation(e ElevationSampler) {
	c.elevation = e
	c.notify()
}

// Center returns the camera's center coordinate.
func (c *Camera) Center() geo.LngLat { return c.center }

// Zoom returns the camera's zoom level.
func (c *Camera) Zoom() float64 { return c.zoom }

// Size returns the viewport dimensions in pixels.
func (c *Camera) Size() geo.Size { return c.size }

// SetCenter moves the camera and notifies observers.
func (c *Camera) SetCenter(center geo.LngLat) {
	c.center = center
	c.notify()
}

// SetZoom changes the zoom level and notifies observers.
func (c *Camera) SetZoom(zoom float64) {
	c.zoom = zoom
	c.notify()
}

// Resize changes the viewport dimensions and notifies observers.
func (c *Camera) Resize(width, height float64) {
	c.size = geo.Size{Width: width, Height: height}
	c.notify()
}

// PanBy moves the camera center by a screen-pixel delta. Positive dx pans
// the view content left (camera moves east).
func (c *Camera) PanBy(dx, dy float64) {
	world := geo.ProjectWorld(c.center, c.zoom)
	c.center = geo.UnprojectWorld(geo.Point{X: world.X + dx, Y: world.Y + dy}, c.zoom)
	c.notify()
}

// =============================================================================
// Projection
// =============================================================================

// FlatProject converts a coordinate to viewport pixels ignoring terrain.
// Longitudes outside [-180, 180] project onto adjacent world copies, so a
// wrapped coordinate lands where its world copy actually sits on screen.
func (c *Camera) FlatProject(coord geo.LngLat) geo.Point {
	world := geo.ProjectWorld(coord, c.zoom)
	origin := geo.ProjectWorld(c.center, c.zoom)
	return geo.Point{
		X: world.X - origin.X + c.size.Width/2,
		Y: world.Y - origin.Y + c.size.Height/2,
	}
}

// Project converts a coordinate to viewport pixels. With an elevation
// source installed the point is raised by the terrain height at the
// coordinate; otherwise it matches FlatProject.
func (c *Camera) Project(coord geo.LngLat) geo.Point {
	p := c.FlatProject(coord)
	if c.elevation == nil {
		return p
	}
	meters := c.elevation.ElevationAt(coord)
	p.Y -= meters * c.pixelsPerMeter(coord.Lat)
	return p
}

// pixelsPerMeter returns the Mercator pixel length of one ground meter at
// the given latitude and the camera's current zoom.
func (c *Camera) pixelsPerMeter(lat float64) float64 {
	return geo.WorldSize(c.zoom) / (earthCircumference * math.Cos(lat*math.Pi/180))
}

// IsOccluded reports whether a coordinate is hidden behind the world. Only
// the globe preview can hide coordinates; the flat projection never does.
func (c *Camera) IsOccluded(coord geo.LngLat) bool {
	if !c.globe {
		return false
	}
	return angularDistance(c.center, coord.Wrapped()) > horizonAngle
}

// angularDistance returns the great-circle angle between two coordinates in
// degrees, via the haversine formula.
func angularDistance(a, b geo.LngLat) float64 {
	const d = math.Pi / 180
	dLat := (b.Lat - a.Lat) * d
	dLng := (b.Lng - a.Lng) * d
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*d)*math.Cos(b.Lat*d)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * math.Asin(math.Min(1, math.Sqrt(h))) / d
}

// =============================================================================
// Observers
// =============================================================================

// OnMove registers fn to run synchronously after every camera change and
// returns an unsubscribe function. Unsubscribing is idempotent.
func (c *Camera) OnMove(fn func()) func() {
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	return func() { delete(c.observers, id) }
}

func (c *Camera) notify() {
	for _, fn := range c.observers {
		fn()
	}
}
