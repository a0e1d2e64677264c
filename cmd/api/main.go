package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"collector_backend/internal/analytics"
	"collector_backend/internal/attribution"
	"collector_backend/internal/auth"
	"collector_backend/internal/collectors"
	"collector_backend/internal/events"
	apphttp "collector_backend/internal/http"
	"collector_backend/internal/http/router"
	leadsrepo "collector_backend/internal/leads/repository"
	leadssvc "collector_backend/internal/leads/service"
	"collector_backend/internal/notification"
	"collector_backend/internal/notification/telegram"
	"collector_backend/internal/vk"
	"collector_backend/migrations"
	"collector_backend/platform/config"
	"collector_backend/platform/db"
	"collector_backend/platform/logger"
	"collector_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	vkClient := vk.NewClient(cfg, log)
	if vkClient != nil {
		log.Info("vk profile lookup enabled", "api_version", cfg.GetVKAPIVersion())
	}

	tgClient := telegram.NewClient(cfg, log)
	if tgClient != nil {
		log.Info("telegram notifications enabled", "chats", len(cfg.GetTelegramAdminChatIDs()))
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	leadRegistry := leadssvc.New(leadsrepo.New(pool), log)

	authModule := auth.NewModule(pool, cfg, log)
	collectorsModule := collectors.NewModule(pool, vkClient, val, log)
	attributionModule := attribution.NewModule(
		pool, leadRegistry, collectorsModule.Service(), vkClient, eventBus, val, log,
	)
	analyticsModule := analytics.NewModule(pool, collectorsModule.Repository(), log)

	// Notification module subscribes to domain events (not HTTP-facing)
	notification.NewModule(eventBus, tgClient, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	engine := router.New(router.Options{
		Config:         cfg,
		Logger:         log,
		AuthMiddleware: authModule.Middleware(),
		Modules: []apphttp.Module{
			authModule,
			collectorsModule,
			attributionModule,
			analyticsModule,
		},
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
