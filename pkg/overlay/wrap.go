package overlay

import "github.com/bailus/pinpoint/pkg/geo"

// SmartWrap shifts a coordinate's longitude by whole world widths so that
// its projection stays visually continuous as the camera pans across world
// copies. Latitude is never changed, and the longitude only ever moves in
// multiples of 360 degrees.
//
// Two adjustments run in order:
//
//  1. If a prior flat screen point is known, the coordinate is shifted one
//     world east or west when that lands its projection closer to the prior
//     point. This keeps an on-screen overlay from jumping a full world
//     width when the camera crosses the antimeridian.
//  2. While the coordinate is more than half a world from the camera center
//     and projects off screen, it is shifted toward the center. This pulls
//     overlays onto the nearest visible world copy after large jumps.
func SmartWrap(c geo.LngLat, prior *geo.Point, m Map) geo.LngLat {
	original := c

	if prior != nil {
		west := c.ShiftWorlds(-1)
		east := c.ShiftWorlds(1)
		delta := m.FlatProject(c).DistSq(*prior)
		if m.FlatProject(west).DistSq(*prior) < delta {
			c = west
		} else if m.FlatProject(east).DistSq(*prior) < delta {
			c = east
		}
	}

	center := m.Center()
	size := m.Size()
	for abs(c.Lng-center.Lng) > 180 {
		pos := m.FlatProject(c)
		if pos.X >= 0 && pos.Y >= 0 && pos.X <= size.Width && pos.Y <= size.Height {
			break
		}
		if c.Lng > center.Lng {
			c = c.ShiftWorlds(-1)
		} else {
			c = c.ShiftWorlds(1)
		}
	}

	if c.Lng != original.Lng {
		return c
	}
	return original
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
