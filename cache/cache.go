package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// MaxKeyLength bounds slug keys; anything longer is a caller bug.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// Cache is the interface for page caching.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Get never errors; it returns (nil, false) on miss. Backend
//   failures on Get degrade to a miss so pages still render.
type Cache interface {
	// Get retrieves a cached page. Returns (nil, false) on miss.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a page with the given TTL. TTL<=0 means no caching.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a cached page. Idempotent, no error on miss.
	Delete(ctx context.Context, key string) error
}

// ValidateKey checks that a slug is usable as a cache key.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
