package overlay

import (
	"encoding/json"
	"math"

	"github.com/bailus/pinpoint/pkg/geo"
)

// =============================================================================
// Offset - Tagged Offset Specification
// =============================================================================

// offsetKind discriminates the shape of an Offset.
type offsetKind int

const (
	offsetNone offsetKind = iota
	offsetRadius
	offsetVector
	offsetPerAnchor
)

// Offset is an overlay offset specification in one of four shapes: none, a
// scalar radius, a single vector, or a per-anchor mapping. The zero value is
// the "none" shape. Construct with NoOffset, RadiusOffset, VectorOffset, or
// PerAnchorOffset; resolve to a total OffsetMap with Resolve.
//
// Resolution never fails: malformed or missing entries resolve to the zero
// vector.
type Offset struct {
	kind      offsetKind
	radius    float64
	vector    geo.Point
	perAnchor map[Anchor]geo.Point
}

// NoOffset returns the empty offset: zero vector for every anchor.
func NoOffset() Offset { return Offset{} }

// RadiusOffset returns an offset that pushes the overlay r pixels away from
// the anchored point in the direction opposite each anchor.
func RadiusOffset(r float64) Offset {
	return Offset{kind: offsetRadius, radius: r}
}

// VectorOffset returns an offset applying v identically to all anchors.
func VectorOffset(v geo.Point) Offset {
	return Offset{kind: offsetVector, vector: v}
}

// PerAnchorOffset returns an offset with explicit vectors for some or all
// anchors. Unlisted anchors resolve to the zero vector; unrecognized keys
// are dropped.
func PerAnchorOffset(m map[Anchor]geo.Point) Offset {
	clean := make(map[Anchor]geo.Point, len(m))
	for a, v := range m {
		if a.Valid() {
			clean[a] = v
		}
	}
	return Offset{kind: offsetPerAnchor, perAnchor: clean}
}

// Resolve expands the offset specification into a total OffsetMap covering
// all nine anchors.
func (o Offset) Resolve() OffsetMap {
	out := make(OffsetMap, len(Anchors))
	switch o.kind {
	case offsetRadius:
		r := o.radius
		// Corners sit on the diagonal at the same radial distance.
		c := math.Round(math.Abs(r) / math.Sqrt2)
		out[AnchorCenter] = geo.Point{}
		out[AnchorTop] = geo.Point{X: 0, Y: r}
		out[AnchorBottom] = geo.Point{X: 0, Y: -r}
		out[AnchorLeft] = geo.Point{X: r, Y: 0}
		out[AnchorRight] = geo.Point{X: -r, Y: 0}
		out[AnchorTopLeft] = geo.Point{X: c, Y: c}
		out[AnchorTopRight] = geo.Point{X: -c, Y: c}
		out[AnchorBottomLeft] = geo.Point{X: c, Y: -c}
		out[AnchorBottomRight] = geo.Point{X: -c, Y: -c}
	case offsetVector:
		for _, a := range Anchors {
			out[a] = o.vector
		}
	case offsetPerAnchor:
		for _, a := range Anchors {
			out[a] = o.perAnchor[a]
		}
	default:
		for _, a := range Anchors {
			out[a] = geo.Point{}
		}
	}
	return out
}

// =============================================================================
// JSON - Wire Shape
// =============================================================================

// offsetJSON is the wire representation of an Offset. Exactly one field is
// populated; an empty object (or null) is the "none" shape.
type offsetJSON struct {
	Radius  *float64             `json:"radius,omitempty"`
	Vector  *geo.Point           `json:"vector,omitempty"`
	Anchors map[Anchor]geo.Point `json:"anchors,omitempty"`
}

// MarshalJSON encodes the offset in its wire shape.
func (o Offset) MarshalJSON() ([]byte, error) {
	var w offsetJSON
	switch o.kind {
	case offsetRadius:
		w.Radius = &o.radius
	case offsetVector:
		v := o.vector
		w.Vector = &v
	case offsetPerAnchor:
		w.Anchors = o.perAnchor
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the wire shape. When multiple fields are present the
// most specific wins (anchors over vector over radius). Malformed input
// degrades to the "none" shape rather than failing.
func (o *Offset) UnmarshalJSON(data []byte) error {
	var w offsetJSON
	if err := json.Unmarshal(data, &w); err != nil {
		*o = NoOffset()
		return nil
	}
	switch {
	case w.Anchors != nil:
		*o = PerAnchorOffset(w.Anchors)
	case w.Vector != nil:
		*o = VectorOffset(*w.Vector)
	case w.Radius != nil:
		*o = RadiusOffset(*w.Radius)
	default:
		*o = NoOffset()
	}
	return nil
}
