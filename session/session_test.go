package session

import (
	"context"
	"testing"
	"time"

	"github.com/mohammad-safakhou/khobor/config"
	"github.com/mohammad-safakhou/khobor/session/inmemory"
)

func TestNewStoreSelectsBackend(t *testing.T) {
	cfg := &config.Config{}
	cfg.Session.Backend = "inmemory"
	cfg.Session.TTL = time.Hour

	store, err := NewStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, ok := store.(*inmemory.Store); !ok {
		t.Fatalf("expected in-memory store, got %T", store)
	}

	cfg.Session.Backend = "etcd"
	if _, err := NewStore(context.Background(), cfg); err == nil {
		t.Fatal("expected error for unsupported backend")
	}
}
