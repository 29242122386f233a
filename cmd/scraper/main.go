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

	"github.com/jobboard/backend/config"
	"github.com/jobboard/backend/internal/health"
	"github.com/jobboard/backend/internal/infrastructure/postgres"
	ctxlog "github.com/jobboard/backend/internal/log"
	"github.com/jobboard/backend/internal/metrics"
	"github.com/jobboard/backend/internal/scrape"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.SerpAPIKey == "" {
		log.Fatal("SERP_API_KEY is required for the scraper")
	}
	if len(cfg.JobTitles) == 0 {
		log.Fatal("JOB_TITLES is empty, nothing to scrape")
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	logger.Info("db connected")

	metrics.Register()
	checker := health.NewChecker(pool, nil, logger, prometheus.DefaultRegisterer)

	repo := postgres.NewJobPostRepository(pool)
	serp := scrape.NewSerpClient(cfg.SerpBaseURL, cfg.SerpAPIKey)
	runner := scrape.NewRunner(serp, repo, cfg.JobTitles, logger)

	// Six-field cron expression, seconds first (the default schedule fires
	// daily at 06:31:00).
	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(cfg.ScrapeCron, func() { runner.Run(ctx) }); err != nil {
		stop()
		log.Fatalf("schedule scrape: %v", err)
	}
	c.Start()
	logger.Info("scrape schedule registered", "cron", cfg.ScrapeCron, "titles", len(cfg.JobTitles))

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)
	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	cronCtx := c.Stop()
	<-cronCtx.Done() // let an in-flight run finish

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}

	logger.Info("scraper shut down")
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
