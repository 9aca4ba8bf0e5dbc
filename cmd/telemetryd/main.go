package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/thingmesh/telemetry-go/internal/api"
	"github.com/thingmesh/telemetry-go/internal/auth"
	"github.com/thingmesh/telemetry-go/internal/broker"
	"github.com/thingmesh/telemetry-go/internal/config"
	"github.com/thingmesh/telemetry-go/internal/ingest"
	"github.com/thingmesh/telemetry-go/internal/store"
	"github.com/thingmesh/telemetry-go/migrations"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := store.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	for _, migFile := range []string{"001_init.sql"} {
		migrationSQL, err := migrations.FS.ReadFile(migFile)
		if err != nil {
			logger.Fatal("read migration file", zap.String("file", migFile), zap.Error(err))
		}
		if err := store.RunMigrations(ctx, pool, string(migrationSQL)); err != nil {
			logger.Fatal("migration failed", zap.String("file", migFile), zap.Error(err))
		}
		logger.Info("migration applied", zap.String("file", migFile))
	}

	publicKey, err := auth.LoadPublicKey(cfg.PublicKeyPath)
	if err != nil {
		logger.Fatal("load verification key", zap.Error(err))
	}
	verifier := auth.NewVerifier(publicKey, cfg.Issuer)

	repo := store.NewPostgresRepo(pool)
	pipeline := ingest.New(repo, cfg.Topics, cfg.QoS, cfg.InsertTimeout, logger)

	client, err := broker.Connect(broker.Options{
		BrokerURL: cfg.BrokerURL,
		ClientID:  cfg.ClientID,
		OnConnect: pipeline.OnConnect,
	}, logger)
	if err != nil {
		logger.Fatal("broker connection failed", zap.Error(err))
	}
	defer client.Disconnect(250)

	publisher := broker.NewPublisher(client, cfg.QoS)
	router := api.NewRouter(repo, publisher, verifier, cfg, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("telemetryd listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server error", zap.Error(err))
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
