package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/telecom-ops/admin-console/internal/config"
	"github.com/telecom-ops/admin-console/internal/observability"
	"github.com/telecom-ops/admin-console/internal/stub"
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

	srv, err := stub.New(cfg.Stub, logger)
	if err != nil {
		logger.Fatal("failed to build stub backend", zap.Error(err))
	}

	logger.Info("stub backend starting",
		zap.String("addr", cfg.Stub.Addr()),
		zap.String("api", "http://"+cfg.Stub.Addr()+stub.APIPrefix),
		zap.String("admin", cfg.Stub.AdminUsername))

	go func() {
		if err := srv.Listen(cfg.Stub.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))

	_ = srv.Shutdown()
}
