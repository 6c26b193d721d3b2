// Package geo provides the coordinate primitives used throughout pinpoint:
// geographic positions, screen-space points, and Web Mercator projection math.
//
// Two coordinate spaces appear in this package:
//
//   - Geographic: longitude/latitude in degrees (LngLat). Longitudes are
//     deliberately not normalized to [-180, 180]; a longitude of 541 refers
//     to the same physical location as 181, but projects onto a different
//     world copy. Overlay continuity across the antimeridian depends on this.
//   - Screen: floating-point pixels in viewport space (Point), with the
//     origin at the top-left corner and y growing downward.
package geo

import "math"

// =============================================================================
// LngLat - Geographic Coordinate
// =============================================================================

// LngLat is a geographic coordinate in degrees.
type LngLat struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Wrapped returns a copy with longitude normalized to the [-180, 180) range.
// Latitude is never touched.
func (c LngLat) Wrapped() LngLat {
	lng := math.Mod(c.Lng+180, 360)
	if lng < 0 {
		lng += 360
	}
	return LngLat{Lng: lng - 180, Lat: c.Lat}
}

// ShiftWorlds returns a copy with longitude shifted by n full world widths
// (n*360 degrees). The result refers to the same physical location on a
// different world copy.
func (c LngLat) ShiftWorlds(n int) LngLat {
	return LngLat{Lng: c.Lng + float64(n)*360, Lat: c.Lat}
}

// WorldsApart reports how many full world widths separate the longitudes of
// c and other, rounded to the nearest integer.
func (c LngLat) WorldsApart(other LngLat) int {
	return int(math.Round((c.Lng - other.Lng) / 360))
}

// =============================================================================
// Point - Screen Coordinate
// =============================================================================

// Point is a position or vector in screen space, in floating-point pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns the vector sum p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector difference p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Round returns p with both components rounded to the nearest integer pixel.
// Halfway values round away from zero, matching math.Round.
func (p Point) Round() Point {
	return Point{X: math.Round(p.X), Y: math.Round(p.Y)}
}

// DistSq returns the squared euclidean distance between p and q.
// Squared distance is sufficient for nearest-candidate comparisons and
// avoids the square root.
func (p Point) DistSq(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsZero reports whether the size has no measured extent.
func (s Size) IsZero() bool {
	return s.Width == 0 && s.Height == 0
}
