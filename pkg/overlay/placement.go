package overlay

import "github.com/bailus/pinpoint/pkg/geo"

// =============================================================================
// Placement - Final Pixel Result
// =============================================================================

// OpacityAction tells the host what to do with the overlay's opacity after
// a recomputation pass.
type OpacityAction int

const (
	// OpacityLeave means no occlusion opacity is configured; the host must
	// not touch opacity at all.
	OpacityLeave OpacityAction = iota

	// OpacityClear means the anchored coordinate is visible; any previously
	// forced opacity must be removed.
	OpacityClear

	// OpacitySet means the anchored coordinate is hidden behind the world;
	// opacity must be forced to Value.
	OpacitySet
)

// Opacity is the occlusion-driven opacity directive emitted with each
// placement. Value is meaningful only when Action is OpacitySet.
type Opacity struct {
	Action OpacityAction `json:"action"`
	Value  float64       `json:"value,omitempty"`
}

// Placement is the result of one recomputation pass: the chosen anchor, the
// final screen position of the anchored point, whether the position was
// rounded to whole pixels, and the opacity directive.
type Placement struct {
	Anchor  Anchor    `json:"anchor"`
	Pos     geo.Point `json:"pos"`
	Rounded bool      `json:"rounded"`
	Opacity Opacity   `json:"opacity"`
}

// ComputePlacement combines the anchored screen point with the chosen
// anchor's offset vector. Unless subpixel positioning is requested the
// result is rounded to integer pixels, which keeps overlay borders crisp at
// the cost of slightly stepped motion.
func ComputePlacement(pos geo.Point, offsets OffsetMap, anchor Anchor, subpixel bool) Placement {
	final := pos.Add(offsets.At(anchor))
	if !subpixel {
		return Placement{Anchor: anchor, Pos: final.Round(), Rounded: true}
	}
	return Placement{Anchor: anchor, Pos: final}
}
