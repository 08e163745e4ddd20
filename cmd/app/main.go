// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"telegram-data-bot/internal/config"
	httpinfra "telegram-data-bot/internal/infra/http"
	"telegram-data-bot/internal/infra/i18n"
	"telegram-data-bot/internal/infra/logging"
	"telegram-data-bot/internal/infra/metrics"
	red "telegram-data-bot/internal/infra/redis"
	"telegram-data-bot/internal/infra/web"
)

// set via -ldflags "-X main.version=... -X main.commit=..."
var (
	version = "dev"
	commit  = "none"
)

func main() {
	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file (optional)")
	devMode := flag.Bool("dev", false, "developer mode: console logs, unredacted text, in-memory store without a database")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	tr, err := i18n.NewTranslator(i18n.LocalesFS, cfg.Bot.Language)
	if err != nil {
		logger.Fatal().Err(err).Str("language", cfg.Bot.Language).Msg("load translations")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- Webhook receiver (not ready until bootstrap completes) ----
	receiver := web.NewServer(logger)
	if cfg.Redis.URL != "" {
		rc, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable; update de-duplication disabled")
		} else {
			defer rc.Close()
			receiver.WithDeduper(red.NewUpdateDeduper(rc, cfg.Redis.TTL, logger))
		}
	}
	httpSrv := httpinfra.NewServer(cfg.HTTP.Port, receiver.Routes(), logger)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(httpSrv.Start)
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info().Msg("shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	var res *resources
	g.Go(func() error {
		var err error
		res, err = bootstrap(gCtx, cfg, tr, logger)
		if err != nil {
			// keep serving liveness; webhook deliveries stay "not ready"
			logger.WithLevel(zerolog.FatalLevel).Err(err).Msg("bot initialization failed")
			return nil
		}
		receiver.MarkReady(res.dispatcher)
		if res.probe != nil {
			g.Go(func() error {
				_ = res.probe.Run(gCtx)
				return nil
			})
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("service stopped with error")
	}
	if res != nil {
		res.Close()
	}
	logger.Info().Msg("bye")
}
