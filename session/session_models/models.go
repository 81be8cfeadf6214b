package session_models

import (
	"time"

	"github.com/mohammad-safakhou/khobor/models"
)

// Record is the persisted form of a session's headline cache.
type Record struct {
	ID        string            `json:"id"`
	Headlines []models.Headline `json:"headlines"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
