package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"telegram-data-bot/internal/infra/metrics"
)

// DBProbe is what the worker samples; *postgres.PostgresEntryRepo implements it.
type DBProbe interface {
	IsConnected(ctx context.Context) bool
	PoolStats() (total, idle, inUse int32)
}

// PoolStatsWorker periodically publishes pool gauges and the connectivity flag.
type PoolStatsWorker struct {
	interval  time.Duration
	probe     DBProbe
	log       *zerolog.Logger
	connected bool
}

func NewPoolStatsWorker(interval time.Duration, probe DBProbe, logger *zerolog.Logger) *PoolStatsWorker {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	wLog := logger.With().Str("component", "PoolStatsWorker").Logger()
	return &PoolStatsWorker{interval: interval, probe: probe, log: &wLog, connected: true}
}

func (w *PoolStatsWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting pool stats worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sample(ctx)
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping pool stats worker")
			return ctx.Err()
		case <-ticker.C:
			w.sample(ctx)
		}
	}
}

func (w *PoolStatsWorker) sample(ctx context.Context) {
	total, idle, inUse := w.probe.PoolStats()
	metrics.SetDBPoolStats(total, idle, inUse)

	ok := w.probe.IsConnected(ctx)
	metrics.SetDBConnected(ok)
	if ok != w.connected {
		if ok {
			w.log.Info().Msg("database connection restored")
		} else {
			w.log.Warn().Msg("database unreachable")
		}
		w.connected = ok
	}
}
