// Package cache stores proxied image responses. The in-memory backend is a
// bounded LRU; the Redis backend shares entries between replicas.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Entry is one cached upstream response.
type Entry struct {
	ContentType string
	Body        []byte
}

// Size is the number of bytes an entry holds.
func (e Entry) Size() int {
	return len(e.ContentType) + len(e.Body)
}

// Cache stores entries by key.
type Cache interface {
	// Get returns the entry for key. A miss is (Entry{}, false, nil).
	Get(ctx context.Context, key string) (Entry, bool, error)
	// Set stores e under key.
	Set(ctx context.Context, key string, e Entry) error
	// Len is the number of entries currently held, or -1 when unknown.
	Len(ctx context.Context) int
}

// Key derives a fixed-length cache key from an upstream URL.
func Key(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:])
}
