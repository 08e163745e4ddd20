//go:build !integration

package usecase_test

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"telegram-data-bot/internal/domain/model"
	"telegram-data-bot/internal/domain/ports/repository"
)

// --- Mock EntryRepository ---

type MockEntryRepo struct {
	EnsureSchemaFunc func(ctx context.Context) error
	InsertFunc       func(ctx context.Context, tx repository.Tx, e *model.Entry) error
	ListRecentFunc   func(ctx context.Context, tx repository.Tx, limit int) ([]*model.Entry, error)
	IsConnectedFunc  func(ctx context.Context) bool
}

var _ repository.EntryRepository = (*MockEntryRepo)(nil)

func (m *MockEntryRepo) EnsureSchema(ctx context.Context) error {
	if m.EnsureSchemaFunc != nil {
		return m.EnsureSchemaFunc(ctx)
	}
	return nil
}

func (m *MockEntryRepo) Insert(ctx context.Context, tx repository.Tx, e *model.Entry) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, tx, e)
	}
	e.ID = 1
	return nil
}

func (m *MockEntryRepo) ListRecent(ctx context.Context, tx repository.Tx, limit int) ([]*model.Entry, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, tx, limit)
	}
	return []*model.Entry{}, nil
}

func (m *MockEntryRepo) IsConnected(ctx context.Context) bool {
	if m.IsConnectedFunc != nil {
		return m.IsConnectedFunc(ctx)
	}
	return true
}

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
