// SPDX-License-Identifier: MIT

// Command daemon runs the catalog filtering proxy.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xtreamgate/xtreamgate/internal/api"
	"github.com/xtreamgate/xtreamgate/internal/cache"
	"github.com/xtreamgate/xtreamgate/internal/catalog"
	"github.com/xtreamgate/xtreamgate/internal/config"
	"github.com/xtreamgate/xtreamgate/internal/detail"
	"github.com/xtreamgate/xtreamgate/internal/log"
	"github.com/xtreamgate/xtreamgate/internal/metrics"
	"github.com/xtreamgate/xtreamgate/internal/refresh"
	"github.com/xtreamgate/xtreamgate/internal/xtream"
)

func main() {
	app := config.FromEnv()
	log.Configure(log.Config{Level: app.LogLevel})
	logger := log.WithComponent("daemon")

	settings, err := loadSettings(app)
	if err != nil {
		logger.Fatal().Err(err).Msg("no usable settings")
	}
	holder := config.NewHolder(settings, app.SettingsPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if app.WatchSettings {
		if err := holder.StartWatcher(ctx); err != nil {
			logger.Warn().Err(err).Msg("settings watcher unavailable, continuing without hot reload")
		}
	}

	published := &cache.Published{}
	store := cache.NewStore(app.DataDir)

	// Serve the previous snapshot across restarts; refreshes replace it.
	if snap := store.Load(); snap != nil {
		published.Swap(cache.NewView(snap))
		for _, t := range catalog.All() {
			metrics.RecordCatalogCounts(t.String(), len(snap.Data[t]), len(snap.Categories[t]))
		}
		logger.Info().
			Str("event", "cache.loaded").
			Time("last_updated", snap.Meta.LastUpdated).
			Msg("snapshot loaded from disk")
	}

	client := xtream.New(func() xtream.Account {
		acc := holder.Upstream()
		return xtream.Account{BaseURL: acc.BaseURL, Username: acc.Username, Password: acc.Password}
	}, xtream.Options{
		CatalogTimeout: app.CatalogTimeout,
		DetailTimeout:  app.DetailTimeout,
		RPS:            app.UpstreamRPS,
	})

	runner := refresh.NewRunner(client, store, published, holder.FilterPrefixes, refresh.RunnerConfig{
		Timeout: app.RefreshTimeout,
	})
	details := detail.NewService(client, published)
	server := api.NewServer(holder, runner, published, details, app)

	if app.RefreshOnStart {
		if err := runner.Trigger(); err != nil {
			logger.Warn().Err(err).Msg("initial refresh not started")
		}
	}

	httpSrv := &http.Server{
		Addr:              app.Listen,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("event", "http.listen").Str("addr", app.Listen).Msg("serving")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Str("event", "daemon.shutdown").Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown incomplete")
	}
	holder.Stop()
}

// loadSettings reads the settings file, falling back to XTG_XTREAM_*
// environment variables when no file exists yet.
func loadSettings(app config.App) (config.Settings, error) {
	if s, err := config.LoadSettings(app.SettingsPath); err == nil {
		return s, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return config.Settings{}, err
	}

	s := config.Settings{
		Xtream: config.Upstream{
			BaseURL:  config.ParseString("XTG_XTREAM_BASE_URL", ""),
			Username: config.ParseString("XTG_XTREAM_USERNAME", ""),
			Password: config.ParseString("XTG_XTREAM_PASSWORD", ""),
		},
		Filters: config.Filters{
			Live:   config.SplitPrefixes(config.ParseString("XTG_LIVE_FILTERS", "")),
			VOD:    config.SplitPrefixes(config.ParseString("XTG_VOD_FILTERS", "")),
			Series: config.SplitPrefixes(config.ParseString("XTG_SERIES_FILTERS", "")),
		},
	}
	if err := s.Validate(); err != nil {
		return config.Settings{}, err
	}
	return s, nil
}
