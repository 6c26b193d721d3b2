// Package overlay implements the placement engine for floating overlays
// anchored to a map viewport: offset resolution, automatic anchor selection
// against viewport collisions, longitude wrapping for world-copy continuity,
// and the final pixel placement with optional subpixel precision.
//
// The engine is pure derived state: every recomputation pass rebuilds the
// placement from current inputs, so intermediate triggers coalesce without
// correctness loss. Painting, DOM/CSS bookkeeping, and content management
// are the host's job; the engine only reports where the overlay goes.
package overlay

import (
	"fmt"

	"github.com/bailus/pinpoint/pkg/geo"
)

// Anchor names which part of the overlay box touches the anchored point.
type Anchor string

// The nine anchor positions. Corner anchors combine a vertical and a
// horizontal edge in that order.
const (
	AnchorCenter      Anchor = "center"
	AnchorTop         Anchor = "top"
	AnchorBottom      Anchor = "bottom"
	AnchorLeft        Anchor = "left"
	AnchorRight       Anchor = "right"
	AnchorTopLeft     Anchor = "top-left"
	AnchorTopRight    Anchor = "top-right"
	AnchorBottomLeft  Anchor = "bottom-left"
	AnchorBottomRight Anchor = "bottom-right"
)

// AnchorAuto selects the anchor automatically per SelectAnchor.
const AnchorAuto Anchor = ""

// Anchors lists all nine anchor positions in a stable order. Downstream
// consumers (CSS classes, transform origins) key off this set exhaustively.
var Anchors = [9]Anchor{
	AnchorCenter,
	AnchorTop,
	AnchorBottom,
	AnchorLeft,
	AnchorRight,
	AnchorTopLeft,
	AnchorTopRight,
	AnchorBottomLeft,
	AnchorBottomRight,
}

// validAnchors is the set of recognized anchor names.
var validAnchors = func() map[Anchor]bool {
	m := make(map[Anchor]bool, len(Anchors))
	for _, a := range Anchors {
		m[a] = true
	}
	return m
}()

// Valid reports whether a is one of the nine anchor positions.
func (a Anchor) Valid() bool { return validAnchors[a] }

// ParseAnchor converts a string to an Anchor. The empty string parses to
// AnchorAuto.
func ParseAnchor(s string) (Anchor, error) {
	if s == "" {
		return AnchorAuto, nil
	}
	a := Anchor(s)
	if !a.Valid() {
		return AnchorAuto, fmt.Errorf("invalid anchor: %q (must be one of: center, top, bottom, left, right, top-left, top-right, bottom-left, bottom-right)", s)
	}
	return a, nil
}

// OffsetMap is a total mapping from anchor position to offset vector. Every
// anchor resolves to a vector; unlisted anchors read as the zero vector.
type OffsetMap map[Anchor]geo.Point

// At returns the offset vector for a, or the zero vector when unset.
func (m OffsetMap) At(a Anchor) geo.Point { return m[a] }
