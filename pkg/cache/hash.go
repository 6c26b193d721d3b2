package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey generates a cache key by hashing the components into a single
// digest. The key format is: prefix:hash(parts...). The full SHA-256 digest
// (64 hex chars) is kept to rule out collisions between camera states that
// differ only in low-order float bits.
func hashKey(prefix string, parts ...any) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, p := range parts {
		_ = enc.Encode(p)
	}
	return prefix + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
