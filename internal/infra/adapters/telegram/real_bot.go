package telegram

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"telegram-data-bot/internal/config"
	"telegram-data-bot/internal/domain/ports/adapter"
	"telegram-data-bot/internal/infra/metrics"
)

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// RealTelegramBotAdapter sends replies through the Bot API. Outbound calls
// share one HTTP client with bounded timeouts and are paced by a token bucket.
type RealTelegramBotAdapter struct {
	bot     *tgbotapi.BotAPI
	limiter *rate.Limiter
	log     *zerolog.Logger
}

// NewRealTelegramBotAdapter authenticates against the Bot API (getMe) and
// fails when the token is rejected or Telegram is unreachable.
func NewRealTelegramBotAdapter(cfg *config.BotConfig, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	return newRealTelegramBotAdapter(cfg, tgbotapi.APIEndpoint, logger)
}

func newRealTelegramBotAdapter(cfg *config.BotConfig, endpoint string, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	bot, err := tgbotapi.NewBotAPIWithClient(cfg.Token, endpoint, newHTTPClient(cfg.RequestTimeout))
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	burst := int(cfg.SendRate)
	if burst < 1 {
		burst = 1
	}
	return &RealTelegramBotAdapter{
		bot:     bot,
		limiter: rate.NewLimiter(rate.Limit(cfg.SendRate), burst),
		log:     logger,
	}, nil
}

// newHTTPClient applies timeout to connect, TLS handshake and the whole exchange.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}).DialContext
	transport.TLSHandshakeTimeout = timeout
	transport.ResponseHeaderTimeout = timeout
	return &http.Client{Timeout: timeout, Transport: transport}
}

// Username is the bot's own @handle as reported by getMe.
func (r *RealTelegramBotAdapter) Username() string {
	return r.bot.Self.UserName
}

func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, chatID int64, text string) error {
	return r.send(ctx, tgbotapi.NewMessage(chatID, text))
}

func (r *RealTelegramBotAdapter) SendMarkdown(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	return r.send(ctx, msg)
}

func (r *RealTelegramBotAdapter) send(ctx context.Context, msg tgbotapi.MessageConfig) error {
	if err := r.limiter.Wait(ctx); err != nil {
		metrics.IncSendFailure()
		return fmt.Errorf("send to chat %d: %w", msg.ChatID, err)
	}
	if _, err := r.bot.Send(msg); err != nil {
		metrics.IncSendFailure()
		return fmt.Errorf("send to chat %d: %w", msg.ChatID, err)
	}
	return nil
}

// WebhookInfo returns the currently registered webhook.
func (r *RealTelegramBotAdapter) WebhookInfo() (tgbotapi.WebhookInfo, error) {
	return r.bot.GetWebhookInfo()
}

// SetWebhook points Telegram at url.
func (r *RealTelegramBotAdapter) SetWebhook(url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("build webhook config: %w", err)
	}
	resp, err := r.bot.Request(wh)
	if err != nil {
		return fmt.Errorf("setWebhook: %w", err)
	}
	if !resp.Ok {
		return fmt.Errorf("setWebhook rejected: %s", resp.Description)
	}
	return nil
}
