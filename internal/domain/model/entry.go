package model

import (
	"strings"
	"time"

	"telegram-data-bot/internal/domain"
)

// UnknownUsername is stored when the sender has no Telegram username.
const UnknownUsername = "N/A"

// Entry is a single piece of text a user asked the bot to keep.
// ID and CreatedAt are assigned by the store on insert.
type Entry struct {
	ID        int64
	ChatID    int64
	Username  string
	Text      string
	CreatedAt time.Time
}

// NewEntry trims text and rejects it when nothing is left.
func NewEntry(chatID int64, username, text string) (*Entry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyPayload
	}
	username = strings.TrimSpace(username)
	if username == "" {
		username = UnknownUsername
	}
	return &Entry{
		ChatID:   chatID,
		Username: username,
		Text:     text,
	}, nil
}
