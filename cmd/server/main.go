package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/user/streamflix-go/internal/catalog"
	"github.com/user/streamflix-go/internal/config"
	"github.com/user/streamflix-go/internal/enrich"
	"github.com/user/streamflix-go/internal/live"
	"github.com/user/streamflix-go/internal/notify"
	"github.com/user/streamflix-go/internal/scheduler"
	"github.com/user/streamflix-go/internal/server"
	"github.com/user/streamflix-go/internal/store"
	"github.com/user/streamflix-go/internal/views"
	"github.com/user/streamflix-go/internal/watchlist"
)

const (
	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout = 30 * time.Second
)

func main() {
	// Structured JSON logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Local store first: it must always be available as the fallback
	localStore, err := store.NewBadgerStore(&cfg.Local)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open local store")
	}
	log.Info().Str("dir", cfg.Local.Dir).Msg("Local store opened")

	// The remote store is optional: a failed connection degrades the
	// whole data layer to local-only instead of aborting startup
	var remoteStore *store.MySQLStore
	if cfg.DB.Enabled {
		remoteStore, err = store.NewMySQLStore(&cfg.DB)
		if err != nil {
			log.Warn().Err(err).Msg("Remote store unavailable, running local-only")
			remoteStore = nil
		} else {
			log.Info().Msg("Remote store connection established")
		}
	} else {
		log.Info().Msg("Remote store disabled, running local-only")
	}

	var primary store.WatchStore
	if remoteStore != nil {
		primary = remoteStore
	}
	fallback := store.NewFallback(primary, localStore, &cfg.Store)

	cat := catalog.New(fallback)
	cat.Seed(ctx)

	// Optional Telegram admin notifier
	var notifier live.Notifier
	if cfg.Notify.BotToken != "" {
		tg, err := notify.NewTelegram(cfg.Notify.BotToken, cfg.Notify.AdminChatID)
		if err != nil {
			log.Warn().Err(err).Msg("Telegram notifier unavailable")
		} else {
			notifier = tg
			log.Info().Msg("Telegram notifier initialized")
		}
	}

	listeners := live.New(fallback, notifier, func(section string) {
		log.Debug().Str("section", section).Msg("Mirror refreshed")
	})
	if err := listeners.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start live listeners")
	}

	counter := views.NewCounter(cat, nil)

	watch := watchlist.New(localStore)

	var fetcher *enrich.Fetcher
	if cfg.Enrich.Enabled {
		fetcher = enrich.NewFetcher(&cfg.Enrich)
		log.Info().Msg("Metadata enrichment enabled")
	}

	var remoteForMirror store.Store
	if remoteStore != nil {
		remoteForMirror = remoteStore
	}
	sched := scheduler.NewScheduler(remoteForMirror, localStore, &cfg.Mirror)

	httpServer := server.NewServer(cat, listeners, counter, watch, fetcher)
	fallback.SetFallbackHook(server.RecordFallback)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpServer.Start(cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()

	sched.Start(ctx)

	log.Info().Msg("StreamFlix data service started successfully")

	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer shutdownCancel()

	log.Info().Msg("Starting graceful shutdown...")

	sched.Stop()
	log.Info().Msg("Mirror scheduler stopped")

	if err := httpServer.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping HTTP server")
	} else {
		log.Info().Msg("HTTP server stopped")
	}

	counter.Close()
	listeners.Stop()
	log.Info().Msg("Listeners stopped")

	if err := fallback.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing stores")
	} else {
		log.Info().Msg("Stores closed")
	}

	cancel()

	select {
	case <-shutdownCtx.Done():
		if shutdownCtx.Err() == context.DeadlineExceeded {
			log.Warn().Msg("Shutdown timeout exceeded, forcing exit")
		}
	default:
		log.Info().Msg("Graceful shutdown completed")
	}
}
