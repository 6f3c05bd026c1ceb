package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/AlejandroPortugal/portal-agenda/internal/agenda"
	"github.com/AlejandroPortugal/portal-agenda/internal/api/router"
	appconfig "github.com/AlejandroPortugal/portal-agenda/internal/config"
	"github.com/AlejandroPortugal/portal-agenda/internal/http/handlers"
	"github.com/AlejandroPortugal/portal-agenda/internal/interviews"
	"github.com/AlejandroPortugal/portal-agenda/internal/observability/metrics"
	"github.com/AlejandroPortugal/portal-agenda/internal/portal"
	"github.com/AlejandroPortugal/portal-agenda/pkg/logging"
)

func main() {
	// In development a .env file is convenient; in other environments the
	// process environment is the source of truth.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting portal-agenda API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to reach database", "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	bookingMetrics := metrics.NewBookingMetrics(reg)

	// The shared agenda-full signal lives in redis. Without redis the API
	// still runs; only the cross-process advisory signal is lost.
	var signals agenda.Store
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, agenda signals disabled", "error", err)
		} else {
			signals = agenda.NewRedisStore(rdb)
		}
	}

	store := interviews.NewStore(pool)
	svc := portal.NewService(store, signals, bookingMetrics, logger)
	interviewsHandler := handlers.NewInterviewsHandler(svc, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		Interviews:         interviewsHandler,
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		WriteRateLimit:     5,
		WriteRateBurst:     30,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
