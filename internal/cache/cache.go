package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a TTL'd byte cache. The fetch layer uses it to avoid
// re-downloading a source within one refresh window; entries are meant
// to expire before the next refresh cycle begins.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Delete(key string)
	Clear()
}

// Key generates a cache key from a URL.
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "crisiswatch:v1:" + hex.EncodeToString(hash[:])
}
