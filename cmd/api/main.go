// Package main is the entry point for the Serra Caronas API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/pkordes/serra-caronas/internal/auth"
	"github.com/pkordes/serra-caronas/internal/broker/kafka"
	"github.com/pkordes/serra-caronas/internal/cache/rediscache"
	"github.com/pkordes/serra-caronas/internal/config"
	"github.com/pkordes/serra-caronas/internal/domain"
	"github.com/pkordes/serra-caronas/internal/handler"
	"github.com/pkordes/serra-caronas/internal/middleware"
	"github.com/pkordes/serra-caronas/internal/repo"
	"github.com/pkordes/serra-caronas/internal/service"
	"github.com/pkordes/serra-caronas/internal/whatsapp"
	"github.com/pkordes/serra-caronas/migrations"
	"github.com/pkordes/serra-caronas/spec"
)

// rateWindow is the window CONTACT_RATE_LIMIT is counted over.
const rateWindow = time.Minute

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if cfg.MigrateOnStart {
		if err := migrate(ctx, pool); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
	}

	// --- Optional collaborators -------------------------------------------
	opts := []service.Option{service.WithLogger(logger)}
	if len(cfg.KafkaBrokers) > 0 {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer func() {
			if err := producer.Close(); err != nil {
				slog.Error("kafka producer close", "error", err)
			}
		}()
		opts = append(opts, service.WithEvents(producer))
		slog.Info("publishing domain events", "topic", cfg.KafkaTopic)
	}

	var contactThrottle, ratingThrottle func(http.Handler) http.Handler
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()

		limiter := rediscache.NewRateLimiter(rdb, cfg.ContactRateLimit, rateWindow)
		if err := limiter.Ping(ctx); err != nil {
			// The limiter fails open, so an unreachable Redis only loses throttling.
			slog.Warn("redis unreachable, rate limiting degraded", "error", err)
		}
		contactThrottle = middleware.NewRateLimiter("contact", limiter, rateWindow, logger)
		ratingThrottle = middleware.NewRateLimiter("rating", limiter, rateWindow, logger)
	}

	// --- Services ---------------------------------------------------------
	policy := domain.ExpiryPolicy{Location: cfg.ListingLocation, Grace: cfg.ExpiryGrace}

	drivers := repo.NewDriverRepo(pool)
	trips := repo.NewTripRepo(pool)
	ratings := repo.NewRatingRepo(pool)
	profiles := repo.NewProfileRepo(pool)

	server := handler.NewServer(handler.Services{
		Drivers:  service.NewDriverService(drivers, policy, opts...),
		Trips:    service.NewTripService(trips, policy, opts...),
		Contacts: service.NewContactService(drivers, trips, profiles, whatsapp.NewBuilder(cfg.WhatsAppCountryCode), policy, opts...),
		Ratings:  service.NewRatingService(ratings, drivers, trips, opts...),
		Stats:    service.NewStatsService(drivers, trips, profiles, policy, opts...),
		Profiles: service.NewProfileService(profiles),
		OpenAPI:  spec.OpenAPI,
		Logger:   logger,

		ContactThrottle: contactThrottle,
		RatingThrottle:  ratingThrottle,
	})

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → body limit → authentication.
	// The authenticator only attaches a caller; routes that need one reject
	// anonymous requests themselves.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Use(middleware.NewAuthenticator(auth.NewVerifier(cfg.JWTSecret), logger))
	r.Mount("/", server.Routes())

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// migrate applies every pending goose migration through a database/sql
// handle borrowed from the pool.
func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return err
	}
	for _, res := range results {
		slog.Info("migration applied", "version", res.Source.Version, "duration", res.Duration)
	}
	return nil
}
