package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/user/threat-monitor/internal/adapter/api"
	"github.com/user/threat-monitor/internal/adapter/api/middleware"
	"github.com/user/threat-monitor/internal/adapter/completion/groq"
	"github.com/user/threat-monitor/internal/adapter/metrics"
	"github.com/user/threat-monitor/internal/adapter/redact"
	postgresrepo "github.com/user/threat-monitor/internal/adapter/repository/postgres"
	redisrepo "github.com/user/threat-monitor/internal/adapter/repository/redis"
	"github.com/user/threat-monitor/internal/domain"
	"github.com/user/threat-monitor/internal/pkg/config"
	"github.com/user/threat-monitor/internal/pkg/logger"
	"github.com/user/threat-monitor/internal/usecase"

	_ "github.com/lib/pq" // postgres driver
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	m := metrics.NewMonitorMetrics()

	// --- Admin and metrics server ---
	adminMux := http.NewServeMux()
	adminMux.Handle("/metrics", promhttp.Handler())

	adminServer := &http.Server{
		Addr:    cfg.AdminAddr,
		Handler: adminMux,
	}

	go func() {
		log.Info("starting admin & metrics server", "addr", adminServer.Addr)
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("admin & metrics server failed", "error", err)
		}
	}()

	// --- Graceful shutdown context ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Snapshot storage backend ---
	var snapshots domain.SnapshotStore
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		db, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			log.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		repo := postgresrepo.NewSnapshotRepository(db, cfg.SnapshotKeyPrefix, log)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Error("failed to ensure snapshots schema", "error", err)
			os.Exit(1)
		}
		snapshots = repo

	case config.BackendRedis:
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Error("failed to parse redis url", "error", err)
			os.Exit(1)
		}
		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		snapshots = redisrepo.NewSnapshotRepository(redisClient, cfg.SnapshotKeyPrefix, log)
	}

	// --- Core wiring ---
	completer := groq.NewClient(&http.Client{}, cfg.GroqBaseURL, cfg.GroqModel, cfg.GroqAPIKey, log)
	classifier := usecase.NewThreatClassifier(completer, cfg.ClassifyTemperature, log)
	store := usecase.NewEventStore(snapshots, log)
	redactor := redact.NewRedactor(strings.Split(cfg.RedactionFields, ","), log)
	monitor := usecase.NewSecurityMonitor(store, classifier, redactor, m, cfg.ClassifyTimeout, log)

	// --- HTTP server ---
	router := api.NewRouter(cfg, log, monitor)
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      middleware.Logging(log)(router),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second, // classification can take a while
		IdleTimeout:  15 * time.Second,
	}

	go func() {
		log.Info("starting monitor server", "addr", server.Addr, "storage_backend", cfg.StorageBackend)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("monitor server failed", "error", err)
			stop()
		}
	}()

	// --- Wait for shutdown signal ---
	<-ctx.Done()
	log.Info("shutting down servers...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := adminServer.Shutdown(shutdownCtx); err != nil {
		log.Error("admin server shutdown failed", "error", err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("monitor server shutdown failed", "error", err)
	}

	log.Info("servers shut down gracefully")
}
