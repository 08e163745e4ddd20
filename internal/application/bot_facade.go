package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"telegram-data-bot/internal/domain"
	"telegram-data-bot/internal/domain/model"
	"telegram-data-bot/internal/infra/metrics"
)

// BotFacade composes usecases into bot commands. Methods return the reply text
// so the Telegram adapter only forwards it to the chat. When an error is
// returned the text is the generic failure reply for that command.
type BotFacade struct {
	EntryUC    EntryUseCaseIface
	StatusUC   StatusUseCaseIface
	tr         Translator
	fetchLimit int
}

func NewBotFacade(entryUC EntryUseCaseIface, statusUC StatusUseCaseIface, tr Translator, fetchLimit int) *BotFacade {
	if fetchLimit <= 0 {
		fetchLimit = 5
	}
	return &BotFacade{EntryUC: entryUC, StatusUC: statusUC, tr: tr, fetchLimit: fetchLimit}
}

func (b *BotFacade) HandleStart(ctx context.Context) string {
	return b.tr.T("welcome")
}

// HandleSave stores args for the chat. Blank args produce the usage hint
// without touching the store.
func (b *BotFacade) HandleSave(ctx context.Context, chatID int64, username, args string) (string, error) {
	_, err := b.EntryUC.Save(ctx, chatID, username, args)
	switch {
	case err == nil:
		metrics.IncEntrySave("saved")
		return b.tr.T("save_ok"), nil
	case errors.Is(err, domain.ErrEmptyPayload):
		metrics.IncEntrySave("rejected")
		return b.tr.T("save_usage"), nil
	default:
		metrics.IncEntrySave("failed")
		return b.tr.T("save_failed"), err
	}
}

func (b *BotFacade) HandleFetch(ctx context.Context) (string, error) {
	list, err := b.EntryUC.Recent(ctx)
	if err != nil {
		return b.tr.T("fetch_failed"), err
	}
	if len(list) == 0 {
		return b.tr.T("fetch_empty"), nil
	}
	sb := strings.Builder{}
	sb.WriteString(b.tr.T("fetch_header", b.fetchLimit))
	for _, e := range list {
		sb.WriteByte('\n')
		sb.WriteString(b.tr.T("fetch_line", e.ID, e.Text, e.CreatedAt.Format(model.StatusTimeLayout)))
	}
	return sb.String(), nil
}

type statusView struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp,omitempty"`
	Version     uint64 `json:"version"`
	DBConnected bool   `json:"db_connected"`
}

// HandleStatus renders the status snapshot as a Markdown code block.
func (b *BotFacade) HandleStatus(ctx context.Context) (string, error) {
	r := b.StatusUC.Report(ctx)
	body, err := json.MarshalIndent(statusView{
		Status:      r.Status.Label,
		Timestamp:   r.Status.Timestamp,
		Version:     r.Status.Version,
		DBConnected: r.DBConnected,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render status: %w", err)
	}
	return fmt.Sprintf("%s\n```json\n%s\n```", b.tr.T("status_header"), body), nil
}

// FailureReply is the generic text sent when a command could not complete.
func (b *BotFacade) FailureReply(command string) string {
	switch command {
	case "save":
		return b.tr.T("save_failed")
	case "fetch":
		return b.tr.T("fetch_failed")
	default:
		return b.tr.T("error_generic")
	}
}

func (b *BotFacade) HandleEcho(ctx context.Context, text string) string {
	return b.tr.T("echo", text)
}
