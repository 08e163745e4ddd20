package telegram

import (
	"context"
	"errors"
	"strings"
	"unicode"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-data-bot/internal/application"
	"telegram-data-bot/internal/domain/ports/adapter"
	"telegram-data-bot/internal/infra/logging"
	"telegram-data-bot/internal/infra/metrics"
)

// Dispatcher routes one inbound update to its command handler. It is
// synchronous: Dispatch returns once the reply has been sent or dropped.
type Dispatcher struct {
	facade *application.BotFacade
	bot    adapter.TelegramBotAdapter
	log    *zerolog.Logger
	dev    bool
	routes map[string]commandHandler
}

type commandHandler func(ctx context.Context, message *tgbotapi.Message, args string) error

func NewDispatcher(facade *application.BotFacade, bot adapter.TelegramBotAdapter, logger *zerolog.Logger, dev bool) (*Dispatcher, error) {
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	if bot == nil {
		return nil, errors.New("bot adapter is nil")
	}
	d := &Dispatcher{facade: facade, bot: bot, log: logger, dev: dev}
	d.routes = d.commandRoutes()
	return d, nil
}

// commandRoutes defines all available bot commands and their handlers.
func (d *Dispatcher) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start":  d.handleStartCommand,
		"save":   d.handleSaveCommand,
		"fetch":  d.handleFetchCommand,
		"status": d.handleStatusCommand,
	}
}

// Dispatch handles update.Message only. Errors are returned solely when a
// reply for start, status or echo could not be delivered.
func (d *Dispatcher) Dispatch(ctx context.Context, update tgbotapi.Update) error {
	ctx = logging.WithUpdateID(ctx, update.UpdateID)
	msg := update.Message
	if msg == nil || msg.Chat == nil || msg.Text == "" {
		return nil
	}
	ctx = logging.WithChatID(ctx, msg.Chat.ID)
	log := logging.With(ctx, d.log)

	cmd, args, isCmd := parseCommand(msg)
	if !isCmd {
		metrics.IncTelegramCommand("echo")
		return d.handleEcho(ctx, msg)
	}
	handler, ok := d.routes[cmd]
	if !ok {
		metrics.IncTelegramCommand("unknown")
		log.Debug().Str("command", cmd).Msg("unknown command dropped")
		return nil
	}
	metrics.IncTelegramCommand(cmd)
	log.Debug().Str("command", cmd).Str("args", logging.Redact(args, d.dev)).Msg("command received")
	return handler(ctx, msg, args)
}

// parseCommand prefers Telegram's bot_command entity and falls back to a
// leading slash when the message carries no entities. A trailing @botname is
// stripped. Slash-prefixed text with other entities is not a command but is
// not echoed either, so it reports ("", "", true).
func parseCommand(msg *tgbotapi.Message) (cmd, args string, isCmd bool) {
	if msg.IsCommand() {
		return msg.Command(), strings.TrimSpace(msg.CommandArguments()), true
	}
	if !strings.HasPrefix(msg.Text, "/") {
		return "", "", false
	}
	if len(msg.Entities) > 0 {
		return "", "", true
	}
	head, rest := msg.Text[1:], ""
	if i := strings.IndexFunc(head, unicode.IsSpace); i >= 0 {
		head, rest = head[:i], head[i+1:]
	}
	if at := strings.IndexByte(head, '@'); at >= 0 {
		head = head[:at]
	}
	return head, strings.TrimSpace(rest), true
}

func (d *Dispatcher) handleStartCommand(ctx context.Context, message *tgbotapi.Message, _ string) error {
	return d.bot.SendMessage(ctx, message.Chat.ID, d.facade.HandleStart(ctx))
}

func (d *Dispatcher) handleSaveCommand(ctx context.Context, message *tgbotapi.Message, args string) error {
	username := ""
	if message.From != nil {
		username = message.From.UserName
	}
	text, err := d.facade.HandleSave(ctx, message.Chat.ID, username, args)
	if err != nil {
		logging.With(ctx, d.log).Error().Err(err).Msg("save failed")
		d.trySend(ctx, message.Chat.ID, text)
		return nil
	}
	if err := d.bot.SendMessage(ctx, message.Chat.ID, text); err != nil {
		logging.With(ctx, d.log).Error().Err(err).Msg("save reply not delivered")
		d.trySend(ctx, message.Chat.ID, d.facade.FailureReply("save"))
		return nil
	}
	return nil
}

func (d *Dispatcher) handleFetchCommand(ctx context.Context, message *tgbotapi.Message, _ string) error {
	text, err := d.facade.HandleFetch(ctx)
	if err != nil {
		logging.With(ctx, d.log).Error().Err(err).Msg("fetch failed")
		d.trySend(ctx, message.Chat.ID, text)
		return nil
	}
	if err := d.bot.SendMessage(ctx, message.Chat.ID, text); err != nil {
		logging.With(ctx, d.log).Error().Err(err).Msg("fetch reply not delivered")
		d.trySend(ctx, message.Chat.ID, d.facade.FailureReply("fetch"))
	}
	return nil
}

func (d *Dispatcher) handleStatusCommand(ctx context.Context, message *tgbotapi.Message, _ string) error {
	text, err := d.facade.HandleStatus(ctx)
	if err != nil {
		return err
	}
	return d.bot.SendMarkdown(ctx, message.Chat.ID, text)
}

func (d *Dispatcher) handleEcho(ctx context.Context, message *tgbotapi.Message) error {
	return d.bot.SendMessage(ctx, message.Chat.ID, d.facade.HandleEcho(ctx, message.Text))
}

// trySend delivers a failure notice; its own error is only logged.
func (d *Dispatcher) trySend(ctx context.Context, chatID int64, text string) {
	if err := d.bot.SendMessage(ctx, chatID, text); err != nil {
		logging.With(ctx, d.log).Warn().Err(err).Msg("failure notice not delivered")
	}
}
