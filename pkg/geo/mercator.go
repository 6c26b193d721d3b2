package geo

import "math"

// TileSize is the side length of a map tile in pixels. The projected world
// at zoom z spans TileSize * 2^z pixels in each axis.
const TileSize = 512.0

// MaxMercatorLat is the latitude bound of the Web Mercator projection,
// arctan(sinh(pi)) in degrees. Latitudes beyond it are clamped.
const MaxMercatorLat = 85.051129

const degToRad = math.Pi / 180

// WorldSize returns the width of one projected world copy, in pixels, at the
// given zoom level.
func WorldSize(zoom float64) float64 {
	return TileSize * math.Pow(2, zoom)
}

// ProjectWorld converts a geographic coordinate to absolute world pixels at
// the given zoom. Longitudes outside [-180, 180] project past the world
// seam rather than wrapping, so coordinates on adjacent world copies yield
// monotonically increasing x values.
func ProjectWorld(c LngLat, zoom float64) Point {
	world := WorldSize(zoom)

	lat := c.Lat
	if lat > MaxMercatorLat {
		lat = MaxMercatorLat
	} else if lat < -MaxMercatorLat {
		lat = -MaxMercatorLat
	}

	x := (c.Lng + 180) / 360 * world

	sinLat := math.Sin(lat * degToRad)
	y := (0.5 - 0.25*math.Log((1+sinLat)/(1-sinLat))/math.Pi) * world

	return Point{X: x, Y: y}
}

// UnprojectWorld converts absolute world pixels back to a geographic
// coordinate at the given zoom. It is the inverse of ProjectWorld for
// latitudes within the Mercator bounds.
func UnprojectWorld(p Point, zoom float64) LngLat {
	world := WorldSize(zoom)

	lng := p.X/world*360 - 180

	n := math.Pi * (1 - 2*p.Y/world)
	lat := math.Atan(math.Sinh(n)) / degToRad

	return LngLat{Lng: lng, Lat: lat}
}
