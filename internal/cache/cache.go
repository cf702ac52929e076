// Package cache provides the fetch cache: memory in front of disk, keyed
// by URL hash, so repeated runs against the same documents skip the
// network entirely.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the byte-store interface shared by all layers
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a stable cache key from a URL. The version segment
// invalidates everything when the cached representation changes.
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "factline:v1:" + hex.EncodeToString(hash[:])
}
