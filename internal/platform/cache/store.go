package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/matchlens/matchlens/internal/platform/resilience"
)

// Entry is one cached payload with its provenance. An entry is valid while
// now - CreatedAt <= TTL; a zero TTL never expires.
type Entry struct {
	Key        string
	Payload    any
	Source     string
	Confidence string
	CreatedAt  time.Time
	TTL        time.Duration
}

func (e Entry) expired(now time.Time) bool {
	if e.TTL <= 0 {
		return false
	}
	return now.Sub(e.CreatedAt) > e.TTL
}

// Store is the process-wide tiered cache. Expiry is lazy: expired entries
// are treated as absent and deleted on the read that discovers them, which
// bounds storage growth without a sweeper goroutine. Writes always
// overwrite; there are no merge semantics.
//
// The store is an explicitly owned, injectable object so tests can build
// isolated instances; production wires one per process.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry
	flight  resilience.SingleFlight
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

// Get returns the entry for key, or false when absent or past its TTL.
func (s *Store) Get(_ context.Context, key string) (Entry, bool) {
	if key == "" {
		return Entry{}, false
	}

	now := s.now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return Entry{}, false
	}
	if e.expired(now) {
		s.mu.Lock()
		// Re-check under the write lock: a fresher write may have raced in.
		if current, stillThere := s.entries[key]; stillThere && current.expired(s.now()) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return Entry{}, false
	}

	return e, true
}

// Set stores payload under key with the given TTL and provenance. The source
// and confidence travel with the entry so a later hit can report where the
// data originally came from.
func (s *Store) Set(_ context.Context, key string, payload any, ttl time.Duration, source, confidence string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	s.entries[key] = Entry{
		Key:        key,
		Payload:    payload,
		Source:     source,
		Confidence: confidence,
		CreatedAt:  s.now(),
		TTL:        ttl,
	}
	s.mu.Unlock()
}

// InvalidatePrefix removes every entry whose key starts with prefix and
// returns how many were dropped. Used for "clear all cached searches".
func (s *Store) InvalidatePrefix(_ context.Context, prefix string) int {
	if prefix == "" {
		return 0
	}

	removed := 0
	s.mu.Lock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			removed++
		}
	}
	s.mu.Unlock()

	return removed
}

// Clear drops every entry and returns the prior count.
func (s *Store) Clear(_ context.Context) int {
	s.mu.Lock()
	n := len(s.entries)
	s.entries = make(map[string]Entry)
	s.mu.Unlock()
	return n
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// GetOrLoad returns the cached entry for key or runs loader exactly once
// across concurrent callers, caching its result on success.
func (s *Store) GetOrLoad(
	ctx context.Context,
	key string,
	ttl time.Duration,
	loader func(context.Context) (any, string, error),
) (Entry, error) {
	if loader == nil {
		return Entry{}, fmt.Errorf("loader is required")
	}
	if key == "" {
		payload, source, err := loader(ctx)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Payload: payload, Source: source, CreatedAt: s.now(), TTL: ttl}, nil
	}

	if e, ok := s.Get(ctx, key); ok {
		return e, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		payload, source, loadErr := loader(ctx)
		if loadErr != nil {
			return Entry{}, loadErr
		}
		s.Set(ctx, key, payload, ttl, source, "")
		e, _ := s.Get(ctx, key)
		return e, nil
	})
	if err != nil {
		return Entry{}, err
	}

	e, ok := value.(Entry)
	if !ok {
		return Entry{}, fmt.Errorf("unexpected cached value type %T", value)
	}
	return e, nil
}

// Export copies out every live entry, for snapshotting. Expired entries are
// skipped but not deleted; the next read handles that.
func (s *Store) Export() []Entry {
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.expired(now) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Restore merges snapshot entries into the store, keeping whichever copy of
// a key is fresher. Invalid or expired snapshot rows are silently dropped:
// snapshot loss degrades to cold-cache behavior, never to an error.
func (s *Store) Restore(entries []Entry) int {
	now := s.now()
	restored := 0

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if e.Key == "" || e.expired(now) {
			continue
		}
		if current, ok := s.entries[e.Key]; ok && current.CreatedAt.After(e.CreatedAt) {
			continue
		}
		s.entries[e.Key] = e
		restored++
	}
	return restored
}
