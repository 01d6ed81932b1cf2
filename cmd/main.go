package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"syfw-todo/internal/cache"
	"syfw-todo/internal/config"
	"syfw-todo/internal/controller"
	"syfw-todo/internal/database"
	"syfw-todo/internal/queue"
	"syfw-todo/internal/repository"
	"syfw-todo/internal/routes"
	"syfw-todo/internal/worker"
	"syfw-todo/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	ctx := context.Background()
	cfg, err := config.Load(".env")
	if err != nil {
		logger.Error(ctx, "Config load failed", "error", err)
		os.Exit(1)
	}
	logger.SetDefault(logger.New(os.Stdout, cfg.LogLevel))

	db, err := database.Open(ctx, cfg)
	if err != nil {
		logger.Error(ctx, "Database not available; exiting", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := database.MigrateOrCreateSchema(ctx, db); err != nil {
		logger.Error(ctx, "Schema migration failed", "error", err)
		os.Exit(1)
	}
	store := repository.New(db)

	// Cache is optional; reads fall through to the database without it.
	var c *cache.Cache
	if cfg.RedisURL != "" {
		c, err = cache.New(ctx, cfg.RedisURL, cfg.RedisPoolSize, cfg.CacheTTL)
		if err != nil {
			logger.Warn(ctx, "Redis unavailable; running without cache", "error", err)
			c = nil
		}
	}
	defer c.Close()

	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()

	applier := worker.NewApplier(store, c)
	var dispatcher controller.Dispatcher = applier
	var workerDone <-chan struct{}
	if cfg.AsyncWrites() {
		queue.EnsureTopic(ctx, cfg)
		producer := queue.NewProducer(ctx, cfg)
		defer producer.Close()
		dispatcher = producer
		// Consumes commands, writes to DB, invalidates cache
		workerDone = worker.Start(workerCtx, cfg, applier)
	}

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      routes.Router(cfg, controller.New(store, c, dispatcher)),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
	go func() {
		logger.Info(ctx, "HTTP server listening", "port", cfg.HTTPPort, "async_writes", cfg.AsyncWrites())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Server shutdown error", "error", err)
	}
	stopWorker()
	// db and producer are closed by the deferred calls only after the worker returns
	if workerDone != nil {
		<-workerDone
	}
	logger.Info(ctx, "Server stopped")
}
