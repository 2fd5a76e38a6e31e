// Package store persists extraction records so intake batches survive
// restarts and downstream generation can re-read source content.
package store

import (
	"context"
	"errors"
	"time"

	"courseforge/internal/content"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("content record not found")

// Record wraps one extracted file with its storage identity.
type Record struct {
	ID        string                    `json:"id"`
	Content   *content.ExtractedContent `json:"content"`
	CreatedAt time.Time                 `json:"created_at"`
}

// ContentStore is the persistence boundary for extraction records.
type ContentStore interface {
	// Put stores c under a fresh id and returns the stored record.
	Put(ctx context.Context, c *content.ExtractedContent) (*Record, error)
	Get(ctx context.Context, id string) (*Record, error)
	Delete(ctx context.Context, id string) error
	// List returns all records, newest first.
	List(ctx context.Context) ([]*Record, error)
}
