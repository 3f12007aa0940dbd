// Package session keeps one search controller per browser session in memory.
package session

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/reelscout/reelscout/internal/search"
)

// Config holds store configuration.
type Config struct {
	TTL         time.Duration
	MaxSessions int
}

// DefaultConfig returns default store configuration.
func DefaultConfig() Config {
	return Config{
		TTL:         30 * time.Minute,
		MaxSessions: 1000,
	}
}

// Factory builds the controller for a new session.
type Factory func() *search.Controller

// Store maps session IDs to controllers. Entries expire after TTL without
// access and the oldest are evicted when the store is full.
type Store struct {
	mu          sync.RWMutex
	items       map[string]*entry
	ttl         time.Duration
	maxSessions int
	factory     Factory
	logger      zerolog.Logger
	now         func() time.Time

	// called with the IDs of dropped sessions, outside the lock
	onRemove func(id string)
}

type entry struct {
	controller *search.Controller
	expiresAt  time.Time
}

// NewStore creates a new store.
func NewStore(cfg Config, factory Factory, logger zerolog.Logger) *Store {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 1000
	}

	return &Store{
		items:       make(map[string]*entry),
		ttl:         cfg.TTL,
		maxSessions: cfg.MaxSessions,
		factory:     factory,
		logger:      logger.With().Str("component", "session").Logger(),
		now:         time.Now,
	}
}

// OnRemove registers fn to be called for every session the store drops,
// whether deleted, expired or evicted. Must be set before the store is used.
func (s *Store) OnRemove(fn func(id string)) {
	s.onRemove = fn
}

func (s *Store) notifyRemoved(ids []string) {
	if s.onRemove == nil {
		return
	}
	for _, id := range ids {
		s.onRemove(id)
	}
}

// Get returns the controller of a live session and extends its lifetime.
func (s *Store) Get(id string) (*search.Controller, bool) {
	s.mu.Lock()
	e, ok := s.items[id]
	if !ok {
		s.mu.Unlock()
		return nil, false
	}
	now := s.now()
	if now.After(e.expiresAt) {
		delete(s.items, id)
		s.mu.Unlock()
		s.notifyRemoved([]string{id})
		return nil, false
	}
	e.expiresAt = now.Add(s.ttl)
	s.mu.Unlock()
	return e.controller, true
}

// GetOrCreate returns the controller for id, creating a session when id is
// unknown or expired. The returned ID is the one the caller must use from
// now on: a malformed id is replaced with a fresh UUID.
func (s *Store) GetOrCreate(id string) (*search.Controller, string) {
	if c, ok := s.Get(id); ok {
		return c, id
	}

	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	s.mu.Lock()
	var evicted []string
	defer func() {
		s.mu.Unlock()
		s.notifyRemoved(evicted)
	}()

	// another request for the same session may have won the race
	if e, ok := s.items[id]; ok {
		return e.controller, id
	}

	if len(s.items) >= s.maxSessions {
		evicted = s.evictOldest()
	}

	now := s.now()
	e := &entry{
		controller: s.factory(),
		expiresAt:  now.Add(s.ttl),
	}
	s.items[id] = e

	s.logger.Debug().Str("session", id).Int("sessions", len(s.items)).Msg("Session created")
	return e.controller, id
}

// Delete removes a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	_, ok := s.items[id]
	delete(s.items, id)
	s.mu.Unlock()

	if ok {
		s.notifyRemoved([]string{id})
	}
}

// Len returns the number of sessions held, including expired ones not yet swept.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Sweep removes expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	removed := s.removeExpired()
	remaining := len(s.items)
	s.mu.Unlock()

	if len(removed) > 0 {
		s.logger.Debug().Int("removed", len(removed)).Int("sessions", remaining).Msg("Expired sessions swept")
	}
	s.notifyRemoved(removed)
	return len(removed)
}

func (s *Store) removeExpired() []string {
	now := s.now()
	var removed []string
	for id, e := range s.items {
		if now.After(e.expiresAt) {
			delete(s.items, id)
			removed = append(removed, id)
		}
	}
	return removed
}

// evictOldest makes room for one session (must be called with lock held)
// and returns the dropped IDs. Expired sessions go first, then the least
// recently used 10%.
func (s *Store) evictOldest() []string {
	removed := s.removeExpired()
	if len(s.items) < s.maxSessions {
		return removed
	}

	toRemove := max(s.maxSessions/10, 1)

	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		return s.items[a].expiresAt.Compare(s.items[b].expiresAt)
	})

	for _, id := range ids[:min(toRemove, len(ids))] {
		delete(s.items, id)
		removed = append(removed, id)
	}
	s.logger.Warn().Int("evicted", toRemove).Int("max", s.maxSessions).Msg("Session store full, evicted oldest sessions")
	return removed
}
