package application

import (
	"context"

	"telegram-data-bot/internal/domain/model"
	"telegram-data-bot/internal/usecase"
)

// ---- small interfaces to decouple the facade from concrete usecase structs ----

type EntryUseCaseIface interface {
	Save(ctx context.Context, chatID int64, username, text string) (*model.Entry, error)
	Recent(ctx context.Context) ([]*model.Entry, error)
}

type StatusUseCaseIface interface {
	Report(ctx context.Context) usecase.StatusReport
}

// Translator resolves reply texts; *i18n.Translator satisfies it.
type Translator interface {
	T(key string, args ...interface{}) string
}
