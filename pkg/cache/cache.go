// Package cache provides the placement-response cache for the pinpoint
// service. Every placement computation is pure, so responses can be cached
// aggressively: a key derived from the overlay set and the camera state
// fully determines the result.
//
// Three backends share one interface: a file cache for single-host
// deployments, a Redis cache for shared deployments, and a null cache that
// disables caching entirely.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented cache with per-entry TTLs.
type Cache interface {
	// Get retrieves a value. The second result reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// =============================================================================
// Keyer - Cache Key Derivation
// =============================================================================

// PlacementKeyOpts captures everything that influences a placement response:
// the camera state and the rendering options. Combined with the overlay set
// hash it fully determines the output.
type PlacementKeyOpts struct {
	Lng      float64 `json:"lng"`
	Lat      float64 `json:"lat"`
	Zoom     float64 `json:"zoom"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Globe    bool    `json:"globe"`
	Subpixel bool    `json:"subpixel"`
}

// Keyer derives cache keys for the placement service.
type Keyer interface {
	// PlacementKey generates a key for a placement response. overlaysHash
	// is the content hash of the overlay records involved.
	PlacementKey(overlaysHash string, opts PlacementKeyOpts) string
}

// DefaultKeyer is the standard key derivation.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// PlacementKey generates a key for a placement response.
func (k *DefaultKeyer) PlacementKey(overlaysHash string, opts PlacementKeyOpts) string {
	return hashKey("placement", overlaysHash, opts)
}

// =============================================================================
// Scoped Keys
// =============================================================================

// ScopedKeyer wraps a Keyer with a prefix so multiple tenants or map styles
// can share one backend without key collisions.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// PlacementKey generates a prefixed key for a placement response.
func (k *ScopedKeyer) PlacementKey(overlaysHash string, opts PlacementKeyOpts) string {
	return k.prefix + k.inner.PlacementKey(overlaysHash, opts)
}
