// Package store persists overlay definitions for the placement service.
//
// An Overlay is everything the engine needs to place one popup: a
// coordinate, a measured content box, and placement options. The service
// keeps overlays in a Store and recomputes placements for any camera on
// demand. Two backends are provided: an in-memory store for single-process
// use and tests, and a MongoDB store for durable deployments.
package store

import (
	"context"

	"github.com/bailus/pinpoint/pkg/errors"
	"github.com/bailus/pinpoint/pkg/geo"
	"github.com/bailus/pinpoint/pkg/overlay"
)

// =============================================================================
// Overlay - Persisted Record
// =============================================================================

// OffsetSpec is the persisted shape of an offset specification. Exactly one
// field should be set; an empty spec means no offset. The anchors map keys
// are anchor names; unrecognized names are ignored at resolution, matching
// the engine's silent-degrade rule.
type OffsetSpec struct {
	Radius  *float64             `json:"radius,omitempty" bson:"radius,omitempty"`
	Vector  *geo.Point           `json:"vector,omitempty" bson:"vector,omitempty"`
	Anchors map[string]geo.Point `json:"anchors,omitempty" bson:"anchors,omitempty"`
}

// Offset converts the persisted spec to an engine offset.
func (s OffsetSpec) Offset() overlay.Offset {
	switch {
	case s.Anchors != nil:
		m := make(map[overlay.Anchor]geo.Point, len(s.Anchors))
		for k, v := range s.Anchors {
			m[overlay.Anchor(k)] = v
		}
		return overlay.PerAnchorOffset(m)
	case s.Vector != nil:
		return overlay.VectorOffset(*s.Vector)
	case s.Radius != nil:
		return overlay.RadiusOffset(*s.Radius)
	default:
		return overlay.NoOffset()
	}
}

// Overlay is one registered overlay definition.
type Overlay struct {
	ID         string     `json:"id" bson:"_id"`
	Coordinate geo.LngLat `json:"coordinate" bson:"coordinate"`
	Content    geo.Size   `json:"content" bson:"content"`

	// Anchor forces a fixed anchor; empty selects automatically.
	Anchor overlay.Anchor `json:"anchor,omitempty" bson:"anchor,omitempty"`

	Offset          OffsetSpec `json:"offset,omitempty" bson:"offset,omitempty"`
	Subpixel        bool       `json:"subpixel,omitempty" bson:"subpixel,omitempty"`
	OccludedOpacity *float64   `json:"occluded_opacity,omitempty" bson:"occluded_opacity,omitempty"`
}

// Validate checks the record before it enters a store.
func (o Overlay) Validate() error {
	if o.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "overlay id is required")
	}
	if err := errors.ValidateCoordinate(o.Coordinate.Lng, o.Coordinate.Lat); err != nil {
		return err
	}
	if err := errors.ValidateContentSize(o.Content.Width, o.Content.Height); err != nil {
		return err
	}
	if o.Anchor != overlay.AnchorAuto && !o.Anchor.Valid() {
		return errors.New(errors.ErrCodeInvalidAnchor, "invalid anchor: %q", o.Anchor)
	}
	if o.OccludedOpacity != nil {
		if err := errors.ValidateOpacity(*o.OccludedOpacity); err != nil {
			return err
		}
	}
	return nil
}

// Options returns the engine options encoded in the record.
func (o Overlay) Options() overlay.Options {
	return overlay.Options{
		Anchor:          o.Anchor,
		Offset:          o.Offset.Offset(),
		Subpixel:        o.Subpixel,
		OccludedOpacity: o.OccludedOpacity,
	}
}

// =============================================================================
// Store Interface
// =============================================================================

// Store persists overlay records.
type Store interface {
	// Put inserts or replaces an overlay.
	Put(ctx context.Context, o Overlay) error

	// Get returns the overlay with the given id, or an
	// ErrCodeOverlayNotFound error.
	Get(ctx context.Context, id string) (Overlay, error)

	// Delete removes an overlay. Deleting a missing id returns an
	// ErrCodeOverlayNotFound error.
	Delete(ctx context.Context, id string) error

	// List returns all overlays sorted by id.
	List(ctx context.Context) ([]Overlay, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
