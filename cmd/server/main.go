// Command server runs the liaison HTTP API.
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

	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"

	"github.com/liaisonhq/liaison/cache"
	"github.com/liaisonhq/liaison/config"
	"github.com/liaisonhq/liaison/metrics"
	"github.com/liaisonhq/liaison/pkg/di"
	"github.com/liaisonhq/liaison/store"
	"github.com/liaisonhq/liaison/web"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	var db *bun.DB
	switch cfg.DBDriver {
	case "postgres":
		db, err = store.OpenPostgres(cfg.DBDSN)
	default:
		db, err = store.OpenSQLite(cfg.DBDSN)
	}
	if err != nil {
		return err
	}
	defer db.Close()

	var cacheService cache.CacheService
	switch cfg.CacheBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		defer client.Close()
		if cacheService, err = cache.NewRedisService(client, cfg.Cache); err != nil {
			return err
		}
	default:
		if cacheService, err = cache.NewInProcessService(cfg.Cache); err != nil {
			return err
		}
	}

	recorder := metrics.NewRecorder()
	container := di.New(db, cacheService, cache.NewDefaultKeySerializer(), cfg.Service,
		di.WithLogger(logger), di.WithMetrics(recorder))
	if err := di.RegisterDomain(container); err != nil {
		return err
	}
	container.Seal()

	// Convenience for local sqlite development; postgres schemas are
	// managed out of band.
	if cfg.DBDriver == "sqlite" {
		if err := di.EnsureSchema(ctx, container); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: web.NewRouter(web.RouterConfig{
			Container:  container,
			Logger:     logger,
			Metrics:    recorder,
			SigningKey: []byte(cfg.JWTSigningKey),
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Addr, "driver", cfg.DBDriver, "cache", cfg.CacheBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
