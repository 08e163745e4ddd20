package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"

	"telegram-data-bot/internal/application"
	"telegram-data-bot/internal/config"
	"telegram-data-bot/internal/domain/ports/adapter"
	"telegram-data-bot/internal/domain/ports/repository"
	tele "telegram-data-bot/internal/infra/adapters/telegram"
	"telegram-data-bot/internal/infra/db/memstore"
	pg "telegram-data-bot/internal/infra/db/postgres"
	"telegram-data-bot/internal/infra/i18n"
	"telegram-data-bot/internal/infra/sched"
	"telegram-data-bot/internal/usecase"
)

// resources is everything bootstrap creates that outlives it.
type resources struct {
	dispatcher *tele.Dispatcher
	pool       *pgxpool.Pool
	probe      *sched.PoolStatsWorker
}

func (r *resources) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}

// bootstrap connects the store and the bot, then builds the dispatcher.
func bootstrap(ctx context.Context, cfg *config.Config, tr *i18n.Translator, logger *zerolog.Logger) (*resources, error) {
	res := &resources{}

	// ---- Store ----
	var entries repository.EntryRepository
	if cfg.Runtime.Dev && !cfg.Database.Configured() {
		logger.Warn().Msg("no database configured; using in-memory store")
		entries = memstore.NewEntryStore()
	} else {
		pool, err := pg.NewPgxPool(ctx, cfg.Database.DSN(), cfg.Database.MaxConns, cfg.Database.ConnectTimeout)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		res.pool = pool
		repo := pg.NewPostgresEntryRepo(pool, cfg.Database.StatementTimeout)
		if err := repo.EnsureSchema(ctx); err != nil {
			res.Close()
			return nil, fmt.Errorf("postgres schema: %w", err)
		}
		logger.Info().Msg("database connected, user_data table ready")
		entries = repo
		res.probe = sched.NewPoolStatsWorker(15*time.Second, repo, logger)
	}

	// ---- Telegram ----
	var bot adapter.TelegramBotAdapter
	realBot, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, logger)
	switch {
	case err == nil:
		logger.Info().Str("bot", realBot.Username()).Msg("telegram bot authorized")
		bot = realBot
	case cfg.Runtime.Dev:
		logger.Warn().Err(err).Msg("telegram unavailable; replies will be logged only")
		bot = tele.NewNoopBotAdapter(logger)
	default:
		res.Close()
		return nil, err
	}

	// ---- Use cases & facade ----
	tracker := usecase.NewStatusTracker()
	entryUC := usecase.NewEntryUseCase(entries, tracker, cfg.Bot.FetchLimit, logger)
	statusUC := usecase.NewStatusUseCase(tracker, entries, logger)
	facade := application.NewBotFacade(entryUC, statusUC, tr, cfg.Bot.FetchLimit)

	d, err := tele.NewDispatcher(facade, bot, logger, cfg.Runtime.Dev)
	if err != nil {
		res.Close()
		return nil, err
	}
	res.dispatcher = d
	return res, nil
}
