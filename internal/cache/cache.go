package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching raw completion bytes
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from prompt material. Identical prompts within
// the TTL reuse the cached completion instead of calling the provider again.
func Key(material string) string {
	hash := sha256.Sum256([]byte(material))
	return "motionscope:v1:" + hex.EncodeToString(hash[:])
}
