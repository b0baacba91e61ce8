package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Default memory cache configuration constants.
const (
	defaultMaxEntries = 256
	defaultTTL        = time.Hour
)

// Memory is an LRU cache bounded by entry count with a per-entry TTL.
type Memory struct {
	lru        *expirable.LRU[string, Entry]
	maxEntries int
	ttl        time.Duration
}

// Option applies a configuration option to Memory.
type Option func(*Memory)

// WithMaxEntries bounds the number of cached entries.
func WithMaxEntries(n int) Option {
	return func(m *Memory) {
		if n > 0 {
			m.maxEntries = n
		}
	}
}

// WithTTL sets how long entries stay valid.
func WithTTL(ttl time.Duration) Option {
	return func(m *Memory) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// NewMemory creates an in-memory LRU cache. Expired entries are swept in
// the background for the lifetime of the process.
func NewMemory(opts ...Option) *Memory {
	m := &Memory{
		maxEntries: defaultMaxEntries,
		ttl:        defaultTTL,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.lru = expirable.NewLRU[string, Entry](m.maxEntries, nil, m.ttl)
	return m
}

// Get implements Cache.
func (m *Memory) Get(_ context.Context, key string) (Entry, bool, error) {
	e, ok := m.lru.Get(key)
	return e, ok, nil
}

// Set implements Cache.
func (m *Memory) Set(_ context.Context, key string, e Entry) error {
	m.lru.Add(key, e)
	return nil
}

// Len implements Cache. Expired entries count until they are swept.
func (m *Memory) Len(_ context.Context) int {
	return m.lru.Len()
}
