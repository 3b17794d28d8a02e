package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	v1 "github.com/Nishan02/Buy-Sell/cmd/api/router/v1"
	"github.com/Nishan02/Buy-Sell/internal/infrastructure/auth"
	cacheadapter "github.com/Nishan02/Buy-Sell/internal/infrastructure/cache/adapter"
	"github.com/Nishan02/Buy-Sell/internal/infrastructure/config"
	"github.com/Nishan02/Buy-Sell/internal/infrastructure/database"
	queueadapter "github.com/Nishan02/Buy-Sell/internal/infrastructure/queue/adapter"
	"github.com/Nishan02/Buy-Sell/internal/infrastructure/realtime"
	"github.com/Nishan02/Buy-Sell/internal/pkg/chat/application/task"
	"github.com/Nishan02/Buy-Sell/internal/pkg/chat/presentation/event"
	httpHandler "github.com/Nishan02/Buy-Sell/internal/pkg/chat/presentation/http"
	useradapter "github.com/Nishan02/Buy-Sell/internal/repository/adapter"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := database.Connect(connectCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	cache, err := cacheadapter.NewRedisCache(cfg.RedisURL)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer cache.Close()

	queueClient, err := queueadapter.NewAsynqClient(cfg.RedisURL)
	if err != nil {
		logger.Error("failed to create queue client", "error", err)
		os.Exit(1)
	}
	defer queueClient.Close()

	queueServer, err := queueadapter.NewAsynqServer(cfg.RedisURL, cfg.WorkerConcurrency, logger)
	if err != nil {
		logger.Error("failed to create queue server", "error", err)
		os.Exit(1)
	}

	hub := realtime.NewHub()
	notifier := event.NewHubNotifier(hub, logger)
	registry := realtime.NewRegistry(notifier.PresenceChanged)

	users := useradapter.NewPgUserDirectory(pool)
	task.NewOfflinePushHandler(cache, users, logger).Register(queueServer)

	go func() {
		if err := queueServer.Run(ctx); err != nil {
			logger.Error("queue server stopped", "error", err)
			stop()
		}
	}()

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	v1.RegisterRoutes(r, httpHandler.Deps{
		Pool:             pool,
		Queue:            queueClient,
		Hub:              hub,
		Registry:         registry,
		Verifier:         auth.NewVerifier(cfg.JWTSecret),
		HeartbeatTimeout: cfg.HeartbeatTimeout,
		Logger:           logger,
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}

	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown incomplete", "error", err)
	}
	if err := queueServer.Stop(shutdownCtx); err != nil {
		logger.Warn("queue shutdown incomplete", "error", err)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
