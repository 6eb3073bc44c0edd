// cmd/worker-manager/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"conversation-starters/internal/api"
	"conversation-starters/internal/app"
	"conversation-starters/internal/common/camunda"
	"conversation-starters/internal/common/config"
	"conversation-starters/internal/common/logger"
	"conversation-starters/internal/pipeline"
	findoverlap "conversation-starters/internal/workers/conversation/find-overlap"
	generatestarters "conversation-starters/internal/workers/conversation/generate-starters"
	resolveinterests "conversation-starters/internal/workers/conversation/resolve-interests"

	"go.uber.org/zap"
)

const opsAddr = ":8080"

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer func() { _ = zapLog.Sync() }()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	if !cfg.Camunda.Enabled {
		zapLog.Fatal("camunda is disabled; set camunda.enabled or CAMUNDA_BROKER_ADDRESS")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := app.Build(ctx, cfg, log, "worker-manager")
	if err != nil {
		zapLog.Fatal("startup failed", zap.Error(err))
	}
	defer components.Close()

	zeebe, err := camunda.NewClientWithConfig(ctx, camunda.ConfigFrom(cfg.Camunda), log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer func() {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}()
	zapLog.Info("Zeebe client connected successfully")

	workers := camunda.NewWorkerSet(zeebe.GetClient(), cfg, log)
	workers.Start(resolveinterests.TaskType, components.Resolver)
	workers.Start(findoverlap.TaskType, components.Overlap)
	workers.Start(generatestarters.TaskType, components.Shaper)
	workers.Start(pipeline.TaskType, pipeline.NewJobHandler(
		components.Service,
		config.GetDuration(config.GetWorkerConfig(cfg, pipeline.TaskType).Timeout),
	))
	zapLog.Info("workers registered", zap.Int("count", workers.Count()))

	checks := components.ReadinessChecks()
	checks["zeebe"] = zeebe.HealthCheck
	ops := api.NewOpsServer(checks, log)
	go func() {
		if err := ops.Start(opsAddr); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	workers.Close(10 * time.Second)
	if err := ops.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
