package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/towradar/backend/internal/config"
	"github.com/towradar/backend/internal/db"
	httpapi "github.com/towradar/backend/internal/http"
	"github.com/towradar/backend/internal/ingest"
	"github.com/towradar/backend/internal/notify"
	"github.com/towradar/backend/internal/service"
	"github.com/towradar/backend/internal/sources"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "towradar-backend").Logger()

	ctx := context.Background()
	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect db")
	}
	defer store.Close()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("REDIS_ADDR not set, in-app alerts disabled")
	}

	pipeline := &ingest.Pipeline{
		Sources: []sources.Source{
			&sources.NCTims{County: cfg.NCTimsCounty},
			&sources.TomTom{APIKey: cfg.TomTomAPIKey, BBox: cfg.TomTomBBox, City: "Charlotte", State: "NC"},
			&sources.DOTFeed{URL: cfg.DOTFeedURL},
		},
		Store:  store,
		Logger: logger,
	}

	inApp := &notify.InAppChannel{Client: redisClient}
	channels := []notify.Channel{
		inApp,
		&notify.EmailChannel{
			APIKey:     cfg.ResendAPIKey,
			From:       cfg.AlertFromEmail,
			FallbackTo: cfg.AlertToFallback,
			Logger:     logger,
		},
		&notify.SMSChannel{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			FromNumber: cfg.TwilioFromNumber,
			Logger:     logger,
		},
	}
	if cfg.PushWebhookURL != "" {
		channels = append(channels, &notify.PushChannel{URL: cfg.PushWebhookURL})
	}

	alerts := &service.AlertEngine{
		Store:    store,
		Channels: channels,
		Window:   cfg.AlertWindow,
		Logger:   logger,
	}
	claims := &service.Claims{Store: store, Logger: logger}

	router := httpapi.Router(cfg, store, pipeline, alerts, claims, inApp, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
