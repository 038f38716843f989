// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/msafzal/scholarsite/internal/cache"
	"github.com/msafzal/scholarsite/internal/config"
	"github.com/msafzal/scholarsite/internal/http/routes"
	"github.com/msafzal/scholarsite/internal/scholar"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("load config")
	}

	logger := newLogger(cfg.Log)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}
	if !cfg.HasAPIKey() {
		logger.Warn().Msg("SERPAPI_API_KEY not set, serving fallback data until upstream accepts requests")
	}
	if cfg.Cache.UpstreamTimeout == 0 {
		logger.Warn().Msg("UPSTREAM_TIMEOUT not set, a hanging upstream call blocks its request")
	}

	client, err := scholar.New(cfg.Scholar.AuthorID, cfg.Scholar.APIKey,
		scholar.WithBaseURL(cfg.Scholar.BaseURL),
		scholar.WithLocale(cfg.Scholar.Locale),
		scholar.WithLimit(cfg.Scholar.Limit),
		scholar.WithSort(cfg.Scholar.Sort),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("scholar client")
	}

	data := cache.New(client, cfg.Cache.FreshnessWindow,
		cache.WithLogger(logger.With().Str("component", "cache").Logger()),
		cache.WithTimeout(cfg.Cache.UpstreamTimeout),
	)

	// The index page is optional; without it "/" answers 404.
	var tmpl *template.Template
	if t, err := template.ParseFiles(cfg.IndexPath); err != nil {
		logger.Warn().Err(err).Str("path", cfg.IndexPath).Msg("index template not loaded")
	} else {
		tmpl = t
	}

	s := routes.New(routes.ServerOptions{
		Data:      data,
		Tmpl:      tmpl,
		StaticDir: cfg.StaticDir,
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", srv.Addr).Str("author_id", cfg.Scholar.AuthorID).Dur("freshness_window", cfg.Cache.FreshnessWindow).Msg("starting app")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(level).With().Timestamp().Logger()
}
