package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mohammad-safakhou/khobor/models"
	"github.com/mohammad-safakhou/khobor/session/session_object"
)

// Store keeps sessions in process memory. Sessions expire after ttl without
// access; expired entries are dropped lazily on lookup and on Create.
type Store struct {
	sessions map[string]*session_object.Session
	ttl      time.Duration
	now      func() time.Time
	mu       sync.RWMutex
}

func NewInMemorySessionStore(ttl time.Duration) *Store {
	return &Store{sessions: make(map[string]*session_object.Session), ttl: ttl, now: time.Now}
}

func (store *Store) Create(_ context.Context) (string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.sweepLocked()

	sess := session_object.NewSession(uuid.NewString(), store.ttl)
	store.sessions[sess.ID()] = sess
	return sess.ID(), nil
}

func (store *Store) Cache(_ context.Context, id string) (*session_object.HeadlineCache, error) {
	sess, err := store.get(id)
	if err != nil {
		return nil, err
	}
	return sess.Cache(), nil
}

func (store *Store) Replace(_ context.Context, id string, headlines []models.Headline) error {
	sess, err := store.get(id)
	if err != nil {
		return err
	}
	sess.Replace(headlines)
	return nil
}

func (store *Store) Delete(_ context.Context, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if _, ok := store.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", models.ErrSessionNotFound, id)
	}
	delete(store.sessions, id)
	return nil
}

// Len reports live sessions.
func (store *Store) Len() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return len(store.sessions)
}

func (store *Store) get(id string) (*session_object.Session, error) {
	store.mu.RLock()
	sess, ok := store.sessions[id]
	store.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrSessionNotFound, id)
	}
	if store.ttl > 0 && sess.Expired(store.now()) {
		store.mu.Lock()
		delete(store.sessions, id)
		store.mu.Unlock()
		return nil, fmt.Errorf("%w: %s expired", models.ErrSessionNotFound, id)
	}
	if store.ttl > 0 {
		sess.Expire(store.ttl)
	}
	return sess, nil
}

func (store *Store) sweepLocked() {
	if store.ttl <= 0 {
		return
	}
	now := store.now()
	for id, sess := range store.sessions {
		if sess.Expired(now) {
			delete(store.sessions, id)
		}
	}
}
