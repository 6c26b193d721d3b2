package overlay

import "github.com/bailus/pinpoint/pkg/geo"

// SelectAnchor picks the anchor that best keeps an overlay box inside the
// viewport. pos is the anchored screen point, offsets the resolved offset
// map, content the measured overlay box, and view the viewport dimensions.
//
// The heuristic checks each axis independently: the overlay hangs below the
// point by default (anchor "bottom"), flips to "top" when there is no room
// above the point for the box, and gains a "left"/"right" component when the
// point sits within half a box width of a vertical viewport edge.
func SelectAnchor(pos geo.Point, offsets OffsetMap, content, view geo.Size) Anchor {
	var vertical, horizontal string

	if pos.Y+offsets.At(AnchorBottom).Y < content.Height {
		vertical = "top"
	} else if pos.Y > view.Height-content.Height {
		vertical = "bottom"
	}

	if pos.X < content.Width/2 {
		horizontal = "left"
	} else if pos.X > view.Width-content.Width/2 {
		horizontal = "right"
	}

	switch {
	case vertical == "" && horizontal == "":
		return AnchorBottom
	case vertical == "":
		return Anchor(horizontal)
	case horizontal == "":
		return Anchor(vertical)
	default:
		return Anchor(vertical + "-" + horizontal)
	}
}
