package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/thingmesh/telemetry-go/internal/api"
	"github.com/thingmesh/telemetry-go/internal/auth"
	"github.com/thingmesh/telemetry-go/internal/config"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	privateKey, err := auth.LoadPrivateKey(cfg.PrivateKeyPath)
	if err != nil {
		logger.Fatal("load signing key", zap.Error(err))
	}

	authority := auth.NewAuthority(privateKey, cfg.Issuer, cfg.TokenTTL)
	if err := authority.RegisterClient(cfg.AuthClientID, cfg.AuthClientSecret); err != nil {
		logger.Fatal("register client", zap.Error(err))
	}
	logger.Info("client registered", zap.String("client_id", cfg.AuthClientID))

	srv := &http.Server{
		Addr:              cfg.AuthAddr,
		Handler:           api.NewTokenRouter(authority, logger),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("authd listening", zap.String("addr", cfg.AuthAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger(cfg config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
	return logger
}
