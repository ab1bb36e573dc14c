package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kestrelhq/model-registry/cmd"
	"github.com/kestrelhq/model-registry/internal/analytics"
	"github.com/kestrelhq/model-registry/internal/config"
	"github.com/kestrelhq/model-registry/internal/core/ports"
	"github.com/kestrelhq/model-registry/internal/core/services"
	"github.com/kestrelhq/model-registry/internal/gateway"
	"github.com/kestrelhq/model-registry/internal/modeldata"
	"github.com/kestrelhq/model-registry/internal/platform/logger"
	"github.com/kestrelhq/model-registry/internal/platform/otel"
	"github.com/kestrelhq/model-registry/internal/server"
	"github.com/kestrelhq/model-registry/internal/store/cache"
	"github.com/kestrelhq/model-registry/internal/store/sqlite"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	logger.Initialize(logger.DefaultConfig())
	log := logger.Get()
	defer logger.Sync()

	shutdownTracer, err := otel.InitTracer("model-registry", log, os.Stdout)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}

	repo, err := sqlite.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		log.Fatal("failed to open storage", zap.Error(err))
	}

	var cacheSvc ports.CacheService = cache.NewMemoryCache()
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("redis unreachable, falling back to in-memory cache", zap.Error(err))
		} else {
			cacheSvc = redisCache
			log.Info("using redis cache", zap.String("addr", cfg.Redis.Addr))
		}
	}

	providerSet := gateway.Bootstrap(cfg.EnabledProviders(), log)
	overlay := services.NewCuratedOverlay(modeldata.Curated())
	registry := services.NewModelRegistry(
		providerSet.Adapters(),
		providerSet.Factory(),
		overlay,
		services.RegistryConfig{
			MetadataTTL: cfg.Registry.MetadataTTL,
			LearnedTTL:  cfg.Registry.LearnedTTL,
		},
		log,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The ingestor outlives the signal context: entries logged while the
	// server drains in-flight requests still need a running worker.
	ingestor := analytics.NewIngestor(log, repo)
	ingestor.Start()

	gatewaySvc := gateway.NewService(log, providerSet.Factory(), registry, services.NewCostEstimator(overlay), ingestor)

	srv := server.New(cfg, log, server.Deps{
		Registry:  registry,
		Router:    services.NewModelRouter(),
		Gateway:   gatewaySvc,
		Analytics: analytics.NewService(repo, cacheSvc),
		Version:   cmd.AppVersion,
	})

	go cmd.CheckForUpdates(log)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening",
			zap.String("port", cfg.Server.Port),
			zap.String("env", cfg.Server.Env),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	ingestor.Stop()
	if err := repo.Close(); err != nil {
		log.Error("failed to close storage", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error("failed to flush traces", zap.Error(err))
	}
}
