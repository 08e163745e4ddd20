// File: internal/domain/ports/adapter/telegram.go
package adapter

import "context"

// TelegramBotAdapter is the outbound side of the bot: everything a handler may send to a chat.
type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	// SendMarkdown sends text with Telegram's legacy Markdown parse mode.
	SendMarkdown(ctx context.Context, chatID int64, text string) error
}
