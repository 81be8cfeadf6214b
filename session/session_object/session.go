package session_object

import (
	"sync"
	"time"

	"github.com/mohammad-safakhou/khobor/models"
)

// Session holds one conversation's headline cache. Replacing the cache swaps
// a pointer, so readers always observe either the old or the new listing.
type Session struct {
	id        string
	createdAt time.Time
	expiresAt time.Time
	cache     *HeadlineCache
	mu        sync.RWMutex
}

func NewSession(id string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{id: id, createdAt: now, expiresAt: now.Add(ttl), cache: NewHeadlineCache(nil)}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Expire(ttl time.Duration) {
	s.mu.Lock()
	s.expiresAt = time.Now().Add(ttl)
	s.mu.Unlock()
}

func (s *Session) Expired(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return now.After(s.expiresAt)
}

func (s *Session) Cache() *HeadlineCache {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache
}

// Replace installs a new listing, discarding the previous one entirely.
func (s *Session) Replace(headlines []models.Headline) {
	cache := NewHeadlineCache(headlines)
	s.mu.Lock()
	s.cache = cache
	s.mu.Unlock()
}
