package web

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Dispatcher processes one decoded update; see telegram.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, update tgbotapi.Update) error
}

// UpdateDeduper reports whether an update id is seen for the first time.
type UpdateDeduper interface {
	FirstSeen(ctx context.Context, updateID int) bool
}

type dispatcherRef struct{ d Dispatcher }

// Server is the webhook receiver. It answers liveness probes at once and
// acknowledges webhook deliveries as not ready until MarkReady is called.
type Server struct {
	log     *zerolog.Logger
	ready   atomic.Pointer[dispatcherRef]
	dedup   UpdateDeduper
	maxBody int64
}

func NewServer(logger *zerolog.Logger) *Server {
	return &Server{log: logger, maxBody: 1 << 20}
}

// WithDeduper enables update_id de-duplication. Call before serving.
func (s *Server) WithDeduper(d UpdateDeduper) *Server {
	s.dedup = d
	return s
}

// MarkReady publishes the dispatcher; later calls are ignored.
func (s *Server) MarkReady(d Dispatcher) {
	if d == nil {
		return
	}
	if s.ready.CompareAndSwap(nil, &dispatcherRef{d: d}) {
		s.log.Info().Msg("webhook receiver is ready")
	}
}

func (s *Server) Ready() bool { return s.ready.Load() != nil }

func (s *Server) dispatcher() Dispatcher {
	if ref := s.ready.Load(); ref != nil {
		return ref.d
	}
	return nil
}

// Routes builds the HTTP handler with the guard middlewares applied.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.handleLiveness)
	r.Post("/webhook", s.handleWebhook)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return Chain(r,
		TraceID(s.log),
		RequestLog(s.log),
		Recover(s.log),
	)
}
