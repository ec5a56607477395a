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
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/softsell/softsell/internal/app"
	"github.com/softsell/softsell/internal/contact"
	"github.com/softsell/softsell/internal/landing"
	"github.com/softsell/softsell/internal/observability"
	"github.com/softsell/softsell/internal/platform/cache"
	"github.com/softsell/softsell/internal/platform/db"
	"github.com/softsell/softsell/internal/shared"
	"github.com/softsell/softsell/internal/view"
	"github.com/softsell/softsell/jobs"
	"github.com/softsell/softsell/migrations"
)

const sessionCookieName = "softsell_session"

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	var repo contact.Repository
	if cfg.LeadStorageEnabled() {
		pool, err := db.New(ctx, cfg.PGDSN, db.Options{MaxConns: 4})
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := migrate(ctx, pool, logger); err != nil {
			return err
		}
		repo = contact.NewRepository(pool)
	} else {
		logger.Info("PG_DSN not set, leads will not be stored")
	}

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	var notifier contact.LeadNotifier
	if cfg.LeadNotificationsEnabled() {
		client := jobs.NewClient(redisOpts)
		defer func() {
			if err := client.Close(); err != nil {
				logger.Warn("asynq client close", slog.Any("error", err))
			}
		}()
		notifier = jobs.NewLeadNotifier(client, cfg.LeadNotifyTo)
	}

	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	templates, err := view.NewEngine()
	if err != nil {
		return err
	}
	content, err := landing.Load()
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics()
	sessionManager := shared.NewSessionManager(redisClient, sessionCookieName, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	contactHandler := contact.NewHandler(contact.HandlerConfig{
		Logger:    logger,
		Templates: templates,
		CSRF:      csrfManager,
		Content:   content,
		Service:   contact.NewService(repo, notifier),
		Observer:  metrics,
		RateLimit: cfg.ContactRateLimit,
	})

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		ContactHandler: contactHandler,
		JobHandler:     jobs.NewHandler(inspector, logger),
		Metrics:        metrics,
		HealthCheck: func(ctx context.Context) error {
			return cache.Ready(ctx, redisClient)
		},
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func migrate(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	applied, err := db.Migrate(ctx, pool, migrations.FS)
	if err != nil {
		return err
	}
	for _, name := range applied {
		logger.Info("migration applied", slog.String("file", name))
	}
	return nil
}
