package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"telegram-data-bot/internal/domain/model"
	"telegram-data-bot/internal/domain/ports/repository"
	"telegram-data-bot/internal/infra/logging"
)

// Compile-time check
var _ EntryUseCase = (*entryUC)(nil)

type EntryUseCase interface {
	// Save stores text for the chat and marks the process status as successful.
	Save(ctx context.Context, chatID int64, username, text string) (*model.Entry, error)
	// Recent returns the newest entries across all chats, newest first.
	Recent(ctx context.Context) ([]*model.Entry, error)
}

type entryUC struct {
	entries repository.EntryRepository
	status  *StatusTracker
	limit   int
	now     func() time.Time

	log *zerolog.Logger
}

func NewEntryUseCase(entries repository.EntryRepository, status *StatusTracker, fetchLimit int, logger *zerolog.Logger) *entryUC {
	if fetchLimit <= 0 {
		fetchLimit = 5
	}
	return &entryUC{entries: entries, status: status, limit: fetchLimit, now: time.Now, log: logger}
}

func (u *entryUC) Save(ctx context.Context, chatID int64, username, text string) (*model.Entry, error) {
	defer logging.TraceDuration(u.log, "EntryUC.Save")()

	e, err := model.NewEntry(chatID, username, text)
	if err != nil {
		return nil, err
	}
	if err := u.entries.Insert(ctx, repository.NoTX, e); err != nil {
		return nil, fmt.Errorf("save entry: %w", err)
	}
	st := u.status.Record(model.StatusSuccess, u.now())
	logging.With(ctx, u.log).Info().
		Int64("entry_id", e.ID).
		Str("username", e.Username).
		Uint64("status_version", st.Version).
		Msg("entry saved")
	return e, nil
}

func (u *entryUC) Recent(ctx context.Context) ([]*model.Entry, error) {
	defer logging.TraceDuration(u.log, "EntryUC.Recent")()

	list, err := u.entries.ListRecent(ctx, repository.NoTX, u.limit)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return list, nil
}
