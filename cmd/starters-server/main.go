package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"conversation-starters/internal/api"
	"conversation-starters/internal/app"
	"conversation-starters/internal/common/config"
	"conversation-starters/internal/common/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	port       int

	rootCmd = &cobra.Command{
		Use:          "starters-server",
		Short:        "Serves AI-generated conversation starters over HTTP",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context())
		},
	}
)

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file (default: ./configs/config.yaml)")
	rootCmd.Flags().IntVar(&port, "port", 0, "listen port, overrides server.port")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	if port != 0 {
		cfg.Server.Port = port
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer func() { _ = zapLog.Sync() }()
	log := logger.NewZapAdapter(zapLog).With(map[string]interface{}{"service": cfg.App.Name})

	components, err := app.Build(ctx, cfg, log, cfg.App.Name)
	if err != nil {
		zapLog.Error("startup failed", zap.Error(err))
		return err
	}
	defer components.Close()

	server := api.NewServer(components.Service, components.ReadinessChecks(), log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.Server.Address())
	}()

	select {
	case err := <-errCh:
		if err != nil {
			zapLog.Error("http server failed", zap.Error(err))
		}
		return err
	case <-ctx.Done():
	}

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down http server", zap.Error(err))
		return err
	}
	zapLog.Info("Server stopped gracefully")
	return nil
}
