package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jeditech/verify-hub/internal/api"
	"github.com/jeditech/verify-hub/internal/config"
	"github.com/jeditech/verify-hub/internal/normalize"
	"github.com/jeditech/verify-hub/internal/pkg/httpretry"
	"github.com/jeditech/verify-hub/internal/pkg/logger"
	"github.com/jeditech/verify-hub/internal/progress"
	"github.com/jeditech/verify-hub/internal/results"
	"github.com/jeditech/verify-hub/internal/verify"
)

func main() {
	log := logger.New(os.Stdout, logger.ParseLevel(os.Getenv("LOG_LEVEL")))

	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Error("failed to load configuration", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}

	client := verify.NewWorkflowClient(verify.Config{
		WebhookURL: cfg.Workflow.WebhookURL,
		Timeout:    cfg.Workflow.Timeout(),
	})
	if cfg.Workflow.MaxRetries > 0 {
		client.SetHTTPClient(httpretry.NewRetryClient(
			&http.Client{Timeout: cfg.Workflow.Timeout()},
			cfg.Workflow.MaxRetries,
		))
	}

	var tracker progress.Tracker
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("redis unreachable, using in-memory progress tracking", logger.Fields{
				"addr": cfg.Redis.Addr, "error": err.Error(),
			})
			tracker = progress.NewMemoryTracker()
		} else {
			tracker = progress.NewRedisTracker(rdb, cfg.Redis.ProgressTTL())
		}
		cancel()
	} else {
		tracker = progress.NewMemoryTracker()
	}

	policy := normalize.NewPolicy(cfg.Batch.MaxAddresses, cfg.Batch.MaxFileBytes, cfg.Batch.AllowedExtensions)
	handlers := api.NewHandlers(client, results.NewStore(), policy, tracker, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(handlers),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", logger.Fields{"addr": addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", logger.Fields{"error": err.Error()})
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", logger.Fields{"error": err.Error()})
	}
}
