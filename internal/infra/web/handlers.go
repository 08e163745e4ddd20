package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-data-bot/internal/infra/logging"
	"telegram-data-bot/internal/infra/metrics"
)

type ack struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type outcome int

const (
	outcomeOK outcome = iota
	outcomeDuplicate
	outcomeNotReady
	outcomeFailed
)

func (o outcome) String() string {
	switch o {
	case outcomeOK:
		return "ok"
	case outcomeDuplicate:
		return "duplicate"
	case outcomeNotReady:
		return "not_ready"
	default:
		return "internal_error"
	}
}

// ackFor is the only place a webhook outcome becomes a response body.
func ackFor(o outcome) ack {
	switch o {
	case outcomeOK, outcomeDuplicate:
		return ack{Status: "ok"}
	case outcomeNotReady:
		return ack{Status: "error", Message: "Service not ready"}
	default:
		return ack{Status: "internal_error", Message: "Update processed with error."}
	}
}

var livenessAck = ack{Status: "ok", Message: "Bot is alive and waiting for updates on /webhook"}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, livenessAck)
}

// handleWebhook always answers 200; Telegram retries anything else.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	o := outcomeNotReady
	if d := s.dispatcher(); d != nil {
		o = s.process(r.Context(), d, r.Body)
	}
	metrics.IncWebhookUpdate(o.String())
	writeJSON(w, ackFor(o))
}

var errEmptyBody = errors.New("empty update body")

func (s *Server) process(ctx context.Context, d Dispatcher, body io.Reader) (o outcome) {
	log := logging.With(ctx, s.log)
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Msg("update handler panicked")
			o = outcomeFailed
		}
	}()

	upd, err := decodeUpdate(io.LimitReader(body, s.maxBody))
	if err != nil {
		log.Error().Err(err).Msg("cannot decode update")
		return outcomeFailed
	}
	ctx = logging.WithUpdateID(ctx, upd.UpdateID)

	if s.dedup != nil && !s.dedup.FirstSeen(ctx, upd.UpdateID) {
		metrics.IncDuplicateUpdate()
		logging.With(ctx, s.log).Info().Msg("duplicate update skipped")
		return outcomeDuplicate
	}
	if err := d.Dispatch(ctx, upd); err != nil {
		logging.With(ctx, s.log).Error().Err(err).Msg("update processed with error")
		return outcomeFailed
	}
	return outcomeOK
}

func decodeUpdate(r io.Reader) (tgbotapi.Update, error) {
	var upd tgbotapi.Update
	if err := json.NewDecoder(r).Decode(&upd); err != nil {
		if errors.Is(err, io.EOF) {
			return upd, errEmptyBody
		}
		return upd, fmt.Errorf("decode update: %w", err)
	}
	return upd, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
