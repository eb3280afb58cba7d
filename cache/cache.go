// Package cache remembers published documents by payload fingerprint so
// that identical publish requests reuse the stored object.
package cache

import (
	"context"
	"sync"
	"time"
)

// Entry is a cached publish result.
type Entry struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Cache stores entries with a time to live. A zero ttl never expires.
type Cache interface {
	Get(ctx context.Context, fingerprint string) (Entry, bool, error)
	Set(ctx context.Context, fingerprint string, e Entry, ttl time.Duration) error
	Close() error
}

// DefaultMaxEntries bounds a Memory cache.
const DefaultMaxEntries = 10000

type item struct {
	entry   Entry
	added   time.Time
	expires time.Time
}

// Memory is an in-process Cache holding at most DefaultMaxEntries entries.
// Expired entries are dropped when read and swept when the cache is full;
// if it is still full, the oldest entry is evicted.
type Memory struct {
	mu    sync.Mutex
	items map[string]item
	max   int
	now   func() time.Time
}

var _ Cache = (*Memory)(nil)

// NewMemory returns an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]item), max: DefaultMaxEntries, now: time.Now}
}

func (it item) expired(now time.Time) bool {
	return !it.expires.IsZero() && !now.Before(it.expires)
}

// makeRoom must be called with mu held.
func (m *Memory) makeRoom(now time.Time) {
	if len(m.items) < m.max {
		return
	}
	for k, it := range m.items {
		if it.expired(now) {
			delete(m.items, k)
		}
	}
	for len(m.items) >= m.max {
		var oldest string
		var at time.Time
		for k, it := range m.items {
			if oldest == "" || it.added.Before(at) || (it.added.Equal(at) && k < oldest) {
				oldest, at = k, it.added
			}
		}
		delete(m.items, oldest)
	}
}

func (m *Memory) Get(_ context.Context, fingerprint string) (Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[fingerprint]
	if !ok {
		return Entry{}, false, nil
	}
	if it.expired(m.now()) {
		delete(m.items, fingerprint)
		return Entry{}, false, nil
	}
	return it.entry, true, nil
}

func (m *Memory) Set(_ context.Context, fingerprint string, e Entry, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if _, ok := m.items[fingerprint]; !ok {
		m.makeRoom(now)
	}
	it := item{entry: e, added: now}
	if ttl > 0 {
		it.expires = now.Add(ttl)
	}
	m.items[fingerprint] = it
	return nil
}

func (m *Memory) Close() error { return nil }
