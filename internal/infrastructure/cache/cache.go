// Package cache holds normalized availability scrapes in memory, keyed by operator, destination and date.
package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/charter-search/charter-availability/internal/domain"
	"github.com/charter-search/charter-availability/internal/infrastructure/timeutil"
)

// Memory is an in-process availability cache.
//
// Entries are replaced whole on Put and never mutated in place; values are copied
// on the way in and out. A zero TTL keeps entries until Clear or process exit.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	clock   timeutil.Clock
}

type entry struct {
	value      []domain.FlightAvailability
	insertedAt time.Time
}

// New creates a cache. ttl <= 0 disables expiry; a nil clock uses the system time.
func New(ttl time.Duration, clock timeutil.Clock) *Memory {
	if clock == nil {
		clock = timeutil.NewRealClock()
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Memory{
		entries: make(map[string]entry),
		ttl:     ttl,
		clock:   clock,
	}
}

// Get returns the cached availability for key, or false when absent or expired.
// An expired entry is removed.
func (m *Memory) Get(key domain.CacheKey) ([]domain.FlightAvailability, bool) {
	k := key.String()

	m.mu.RLock()
	e, ok := m.entries[k]
	m.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if m.expired(e) {
		m.mu.Lock()
		if cur, still := m.entries[k]; still && m.expired(cur) {
			delete(m.entries, k)
		}
		m.mu.Unlock()
		return nil, false
	}
	return domain.CloneAll(e.value), true
}

// Put stores value under key, replacing any previous entry.
func (m *Memory) Put(key domain.CacheKey, value []domain.FlightAvailability) {
	stored := domain.CloneAll(value)
	if stored == nil {
		stored = []domain.FlightAvailability{}
	}

	m.mu.Lock()
	m.entries[key.String()] = entry{value: stored, insertedAt: m.clock.Now()}
	m.mu.Unlock()
}

// Clear drops every entry.
func (m *Memory) Clear() {
	m.mu.Lock()
	m.entries = make(map[string]entry)
	m.mu.Unlock()
}

// Entries lists the live entries ordered by key, for diagnostics.
func (m *Memory) Entries() []domain.CacheEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.CacheEntry, 0, len(m.entries))
	for k, e := range m.entries {
		if m.expired(e) {
			continue
		}
		out = append(out, domain.CacheEntry{
			Key:        k,
			Value:      domain.CloneAll(e.value),
			InsertedAt: e.insertedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Prune removes expired entries and returns how many were dropped.
func (m *Memory) Prune() int {
	if m.ttl == 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for k, e := range m.entries {
		if m.expired(e) {
			delete(m.entries, k)
			removed++
		}
	}
	return removed
}

// StartJanitor prunes expired entries every interval until the returned stop
// function is called. It does nothing when the cache has no TTL.
func (m *Memory) StartJanitor(interval time.Duration) (stop func()) {
	if m.ttl == 0 || interval <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				m.Prune()
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// TTL returns the configured time to live.
func (m *Memory) TTL() time.Duration {
	return m.ttl
}

func (m *Memory) expired(e entry) bool {
	return m.ttl > 0 && m.clock.Now().Sub(e.insertedAt) >= m.ttl
}

var _ domain.AvailabilityCache = (*Memory)(nil)
