package telegram

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"telegram-data-bot/internal/domain/ports/adapter"
)

var _ adapter.TelegramBotAdapter = (*NoopBotAdapter)(nil)

// NoopBotAdapter implements adapter.TelegramBotAdapter for local/dev runs.
// It logs messages instead of sending real Telegram messages.
type NoopBotAdapter struct {
	log   *zerolog.Logger
	delay time.Duration
}

func NewNoopBotAdapter(logger *zerolog.Logger) *NoopBotAdapter {
	return &NoopBotAdapter{log: logger, delay: 100 * time.Millisecond}
}

func (b *NoopBotAdapter) SendMessage(ctx context.Context, chatID int64, text string) error {
	return b.emit(ctx, chatID, text, "")
}

func (b *NoopBotAdapter) SendMarkdown(ctx context.Context, chatID int64, text string) error {
	return b.emit(ctx, chatID, text, "Markdown")
}

// emit simulates a round trip and respects ctx.
func (b *NoopBotAdapter) emit(ctx context.Context, chatID int64, text, parseMode string) error {
	select {
	case <-time.After(b.delay):
	case <-ctx.Done():
		return ctx.Err()
	}
	b.log.Info().
		Int64("chat_id", chatID).
		Str("parse_mode", parseMode).
		Str("text", text).
		Msg("[noop-telegram] reply")
	return nil
}
