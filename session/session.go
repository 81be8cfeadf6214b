package session

import (
	"context"
	"fmt"
	"time"

	"github.com/mohammad-safakhou/khobor/config"
	"github.com/mohammad-safakhou/khobor/models"
	"github.com/mohammad-safakhou/khobor/session/inmemory"
	"github.com/mohammad-safakhou/khobor/session/redis_session"
	"github.com/mohammad-safakhou/khobor/session/session_object"
)

// Store keeps one headline cache per conversation. Unknown or expired ids
// yield models.ErrSessionNotFound. Replace overwrites a session's cache as a
// single step; readers never see a mix of two listings.
type Store interface {
	Create(ctx context.Context) (string, error)
	Cache(ctx context.Context, id string) (*session_object.HeadlineCache, error)
	Replace(ctx context.Context, id string, headlines []models.Headline) error
	Delete(ctx context.Context, id string) error
}

type StoreType string

const (
	InMemoryStore StoreType = "inmemory"
	RedisStore    StoreType = "redis"
)

// NewStore builds the backend selected by cfg.Session.Backend.
func NewStore(ctx context.Context, cfg *config.Config) (Store, error) {
	ttl := cfg.Session.TTL
	switch StoreType(cfg.Session.Backend) {
	case InMemoryStore, "":
		return inmemory.NewInMemorySessionStore(ttl), nil
	case RedisStore:
		r := cfg.Storage.Redis
		store := redis_session.NewRedisSessionStore(r.Addr(), r.Password, r.DB, ttl)
		pingCtx, cancel := context.WithTimeout(ctx, redisTimeout(r.Timeout))
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			return nil, fmt.Errorf("redis session store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported session backend: %s", cfg.Session.Backend)
	}
}

func redisTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return 5 * time.Second
	}
	return d
}
