// Command server starts the Soul Matrix compatibility analysis HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ai "github.com/ranqi-ly/soul-matrix-ai/internal/adapter/ai"
	"github.com/ranqi-ly/soul-matrix-ai/internal/adapter/ai/openai"
	memorycache "github.com/ranqi-ly/soul-matrix-ai/internal/adapter/cache/memory"
	rediscache "github.com/ranqi-ly/soul-matrix-ai/internal/adapter/cache/redis"
	"github.com/ranqi-ly/soul-matrix-ai/internal/adapter/httpserver"
	"github.com/ranqi-ly/soul-matrix-ai/internal/adapter/observability"
	"github.com/ranqi-ly/soul-matrix-ai/internal/app"
	"github.com/ranqi-ly/soul-matrix-ai/internal/config"
	"github.com/ranqi-ly/soul-matrix-ai/internal/domain"
	"github.com/ranqi-ly/soul-matrix-ai/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	// Register all Prometheus metrics once per process so that /metrics
	// exposes HTTP, AI and cache instrumentation.
	observability.InitMetrics()

	ctx := context.Background()

	// Cache backend: Redis when configured, in-process LRU otherwise.
	var (
		cache      domain.Cache
		cacheCheck func(context.Context) error
	)
	if cfg.RedisAddr != "" {
		rc, err := rediscache.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			slog.Error("redis connect failed", slog.Any("error", err))
			os.Exit(1)
		}
		cache = rc
		cacheCheck = rc.Ping
		slog.Info("using redis cache", slog.String("addr", cfg.RedisAddr))
	} else {
		mc, err := memorycache.New(cfg.MemoryCacheCap)
		if err != nil {
			slog.Error("memory cache init failed", slog.Any("error", err))
			os.Exit(1)
		}
		cache = mc
		slog.Info("using in-process memory cache", slog.Int("capacity", cfg.MemoryCacheCap))
	}

	// Single-lane dispatcher spacing outbound model calls. Nil when no
	// minimum interval is configured.
	lane := ai.NewLane(cfg.AIMinInterval)
	defer lane.Close()

	aicl := openai.New(cfg, lane)

	assessSvc := usecase.NewAssessService(cfg, aicl, cache)
	resultSvc := usecase.NewResultService(cache)
	inviteSvc := usecase.NewInviteService(cfg, cache)
	shareSvc := usecase.NewShareService(cfg, cache)
	predictSvc := usecase.NewPredictService(cfg, aicl, cache)

	srv := httpserver.NewServer(cfg, assessSvc, resultSvc, inviteSvc, shareSvc, predictSvc, cacheCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
