package redis_session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mohammad-safakhou/khobor/models"
	"github.com/mohammad-safakhou/khobor/session/session_models"
	"github.com/mohammad-safakhou/khobor/session/session_object"
	"github.com/redis/go-redis/v9"
)

// Store keeps each session as one JSON value under session:<id>:headlines.
// Every write is a single SET, so a replaced listing is never partially visible.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(addr, password string, db int, ttl time.Duration) *Store {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, ttl)
}

func NewFromClient(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func key(id string) string { return fmt.Sprintf("session:%s:headlines", id) }

func (store *Store) Ping(ctx context.Context) error {
	return store.client.Ping(ctx).Err()
}

func (store *Store) Close() error { return store.client.Close() }

func (store *Store) Create(ctx context.Context) (string, error) {
	now := time.Now().UTC()
	rec := session_models.Record{ID: uuid.NewString(), Headlines: []models.Headline{}, CreatedAt: now, UpdatedAt: now}
	data, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	ok, err := store.client.SetNX(ctx, key(rec.ID), data, store.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("create session: id collision on %s", rec.ID)
	}
	return rec.ID, nil
}

func (store *Store) Cache(ctx context.Context, id string) (*session_object.HeadlineCache, error) {
	rec, err := store.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return session_object.NewHeadlineCache(rec.Headlines), nil
}

// Replace overwrites the stored listing only if the session still exists (SET XX).
func (store *Store) Replace(ctx context.Context, id string, headlines []models.Headline) error {
	rec, err := store.load(ctx, id)
	if err != nil {
		return err
	}
	rec.Headlines = session_object.NewHeadlineCache(headlines).All()
	rec.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	err = store.client.SetArgs(ctx, key(id), data, redis.SetArgs{Mode: "XX", TTL: store.ttl}).Err()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: %s", models.ErrSessionNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("replace session %s: %w", id, err)
	}
	return nil
}

func (store *Store) Delete(ctx context.Context, id string) error {
	n, err := store.client.Del(ctx, key(id)).Result()
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", models.ErrSessionNotFound, id)
	}
	return nil
}

// load reads the record and refreshes its idle TTL.
func (store *Store) load(ctx context.Context, id string) (session_models.Record, error) {
	var rec session_models.Record
	var (
		val string
		err error
	)
	if store.ttl > 0 {
		val, err = store.client.GetEx(ctx, key(id), store.ttl).Result()
	} else {
		val, err = store.client.Get(ctx, key(id)).Result()
	}
	if errors.Is(err, redis.Nil) {
		return rec, fmt.Errorf("%w: %s", models.ErrSessionNotFound, id)
	}
	if err != nil {
		return rec, fmt.Errorf("load session %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return rec, fmt.Errorf("decode session %s: %w", id, err)
	}
	return rec, nil
}
