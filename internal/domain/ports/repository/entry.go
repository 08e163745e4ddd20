package repository

import (
	"context"

	"telegram-data-bot/internal/domain/model"
)

// -----------------------------
// Stored entries (user_data)
// -----------------------------

type EntryRepository interface {
	// EnsureSchema creates the backing table if it does not exist. Idempotent.
	EnsureSchema(ctx context.Context) error
	// Insert stores e and fills in its ID and CreatedAt.
	Insert(ctx context.Context, tx Tx, e *model.Entry) error
	// ListRecent returns at most limit entries, newest first.
	ListRecent(ctx context.Context, tx Tx, limit int) ([]*model.Entry, error)
	// IsConnected reports whether the store is currently reachable. It never fails.
	IsConnected(ctx context.Context) bool
}
