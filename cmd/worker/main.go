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

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/softsell/softsell/internal/app"
	"github.com/softsell/softsell/internal/contact"
	jobmetrics "github.com/softsell/softsell/internal/jobs"
	"github.com/softsell/softsell/internal/mailer"
	"github.com/softsell/softsell/internal/platform/db"
	"github.com/softsell/softsell/jobs"
)

// purgeSchedule runs the lead retention job daily at 03:00 UTC.
const purgeSchedule = "0 3 * * *"

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadWorkerConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	metrics := jobmetrics.NewMetrics(nil)

	sender := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}, logger)
	emailJob := &jobs.SendEmailJob{Sender: sender, Logger: logger, Metrics: metrics}

	handlers := []jobs.TaskHandler{
		{Type: jobs.TaskTypeSendEmail, Handler: emailJob.Handle},
	}
	var cron []jobs.CronRegistration

	if cfg.LeadStorageEnabled() {
		pool, err := db.New(ctx, cfg.PGDSN, db.Options{MaxConns: 2})
		if err != nil {
			return err
		}
		defer pool.Close()

		service := contact.NewService(contact.NewRepository(pool), nil)
		purgeJob := &jobs.ContactPurgeJob{Purger: service, Logger: logger, Metrics: metrics}
		purgeTask, err := jobs.NewContactPurgeTask(cfg.LeadRetention)
		if err != nil {
			return err
		}
		handlers = append(handlers, jobs.TaskHandler{Type: jobs.TaskContactPurge, Handler: purgeJob.Handle})
		cron = append(cron, jobs.CronRegistration{
			Spec:    purgeSchedule,
			Task:    purgeTask,
			Options: []asynq.Option{asynq.MaxRetry(3)},
		})
	} else {
		logger.Info("PG_DSN not set, lead purge disabled")
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers:  handlers,
		Cron:      cron,
	})
	if err != nil {
		return err
	}
	metricsServer := &http.Server{
		Addr:              cfg.WorkerMetricsAddr,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting worker", slog.Int("handlers", len(handlers)))
		return worker.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("serving worker metrics", slog.String("addr", cfg.WorkerMetricsAddr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return metricsServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
