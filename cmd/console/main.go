package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/telecom-ops/admin-console/internal/api/http"
	"github.com/telecom-ops/admin-console/internal/api/http/handlers"
	"github.com/telecom-ops/admin-console/internal/backend"
	"github.com/telecom-ops/admin-console/internal/config"
	"github.com/telecom-ops/admin-console/internal/domain"
	"github.com/telecom-ops/admin-console/internal/events"
	"github.com/telecom-ops/admin-console/internal/guard"
	"github.com/telecom-ops/admin-console/internal/observability"
	"github.com/telecom-ops/admin-console/internal/persistence"
	"github.com/telecom-ops/admin-console/internal/session"
	"github.com/telecom-ops/admin-console/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := persistence.OpenTokenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open token store", zap.String("store", cfg.Session.Store), zap.Error(err))
	}
	defer closeStore()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartSessionAuditWorker(dispatcher, logger)

	client := backend.NewClient(cfg.Backend, &http.Client{Timeout: cfg.Backend.Timeout()}, logger, metrics)
	sessions := session.NewManager(session.Dependencies{
		Store:      store,
		API:        client,
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metrics,
	}, session.Options{ProfileTimeout: cfg.Backend.Timeout()})
	watcher := worker.StartSessionWatchWorker(ctx, sessions, logger)
	sessions.Start(ctx)

	admin := backend.NewAdminClient(client, sessions)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	var adminOnly fiber.Handler
	if cfg.Session.RequireAdmin {
		adminOnly = guard.RequireRole(sessions, domain.RoleAdmin)
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version,
			map[string]handlers.Pinger{"token_store": store}, metrics),
		Auth:      handlers.NewAuthHandler(sessions, logger),
		Dashboard: handlers.NewDashboardHandler(sessions, admin),
		Users:     handlers.NewUsersHandler(admin),
		Packages:  handlers.NewPackagesHandler(admin),
		Inquiries: handlers.NewInquiriesHandler(admin),
		Guard:     guard.New(sessions, sessions.LoginPath()),
		AdminOnly: adminOnly,
		LoginPath: sessions.LoginPath(),
	})

	logger.Info("console starting",
		zap.String("addr", cfg.App.Addr()),
		zap.String("backend", client.BaseURL()),
		zap.String("token_store", cfg.Session.Store))

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	sessions.Wait()
	cancel()
	<-watcher.Done()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
