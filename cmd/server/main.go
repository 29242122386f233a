package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jobboard/backend/config"
	"github.com/jobboard/backend/internal/authtoken"
	"github.com/jobboard/backend/internal/domain"
	"github.com/jobboard/backend/internal/email"
	"github.com/jobboard/backend/internal/health"
	"github.com/jobboard/backend/internal/infrastructure/postgres"
	redisinfra "github.com/jobboard/backend/internal/infrastructure/redis"
	ctxlog "github.com/jobboard/backend/internal/log"
	"github.com/jobboard/backend/internal/metrics"
	httptransport "github.com/jobboard/backend/internal/transport/http"
	"github.com/jobboard/backend/internal/transport/http/handler"
	"github.com/jobboard/backend/internal/usecase"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	rdb, err := redisinfra.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		stop()
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	// Magic-link tokens live in process memory; the janitor reclaims expired
	// entries. A multi-instance deployment needs this moved to shared storage.
	tokens := authtoken.NewStore()
	tokens.StartJanitor(ctx, authtoken.DefaultSweepInterval)

	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	dispatcher := email.NewDispatcher(sender, logger, 64)
	go dispatcher.Start(ctx)

	authUsecase := usecase.NewAdminAuthUsecase(
		tokens, dispatcher, cfg.AdminEmail, []byte(cfg.JWTSecret), cfg.MagicLinkBase, logger,
	)
	authHandler := handler.NewAuthHandler(authUsecase, logger)

	jobPostRepo := postgres.NewJobPostRepository(pool)
	counter := redisinfra.NewUsageCounter(rdb)
	feedUsecase := usecase.NewJobFeedUsecase(jobPostRepo, counter, logger)
	jobHandler := handler.NewJobHandler(feedUsecase, logger)

	limits := domain.Limits{
		Unregistered: cfg.LimitUnregistered,
		Free:         cfg.LimitFree,
		Paid:         cfg.LimitPaid,
	}

	metrics.Register()
	checker := health.NewChecker(pool, redisinfra.Pinger{Client: rdb}, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, authHandler, jobHandler, counter, limits, []byte(cfg.JWTSecret)),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
