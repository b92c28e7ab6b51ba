package cache

import (
	"time"
)

// CacheService represents a generic cache service. The pipeline uses it
// as a rate-limit guard: a key present for a host means no further
// requests should be sent to it until the entry expires.
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}
