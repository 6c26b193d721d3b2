// Package pkg provides the core libraries for pinpoint overlay placement.
//
// # Overview
//
// Pinpoint places floating overlays anchored to geographic coordinates on a
// Web Mercator viewport. The pkg directory is organized into four main
// areas:
//
//  1. [geo], [viewport] - Projection math and camera state
//  2. [overlay] - The placement engine (anchors, offsets, wrapping)
//  3. [store], [cache], [client] - Service infrastructure
//  4. [config], [errors], [observability] - Ambient concerns
//
// # Architecture
//
// The typical data flow through pinpoint:
//
//	Geographic coordinate + camera state
//	         ↓
//	    [overlay] wrap longitude to the nearest world copy
//	         ↓
//	    [viewport] project to screen coordinates
//	         ↓
//	    [overlay] resolve offsets, select an anchor
//	         ↓
//	    Placement (anchor, position, opacity directive)
//
// # Quick Start
//
// Place one overlay against a camera:
//
//	import (
//	    "github.com/bailus/pinpoint/pkg/geo"
//	    "github.com/bailus/pinpoint/pkg/overlay"
//	    "github.com/bailus/pinpoint/pkg/viewport"
//	)
//
//	view := viewport.New(geo.LngLat{Lng: 0, Lat: 0}, 2, 800, 600)
//	eng := overlay.New(view, overlay.Options{Offset: overlay.RadiusOffset(10)})
//	eng.SetContentSize(240, 120)
//	eng.SetLngLat(geo.LngLat{Lng: 13.4, Lat: 52.5})
//	placement, ok := eng.Recompute()
//
// The HTTP service in internal/server exposes the same computation over
// REST; [client] is its Go client.
package pkg
