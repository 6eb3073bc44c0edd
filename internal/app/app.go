// Package app builds the shared components used by both binaries.
package app

import (
	"context"
	"fmt"

	"conversation-starters/internal/api"
	"conversation-starters/internal/common/completion"
	"conversation-starters/internal/common/config"
	"conversation-starters/internal/common/database"
	"conversation-starters/internal/common/logger"
	"conversation-starters/internal/common/observability"
	"conversation-starters/internal/common/validation"
	"conversation-starters/internal/pipeline"
	findoverlap "conversation-starters/internal/workers/conversation/find-overlap"
	generatestarters "conversation-starters/internal/workers/conversation/generate-starters"
	resolveinterests "conversation-starters/internal/workers/conversation/resolve-interests"

	"github.com/redis/go-redis/v9"
)

type Components struct {
	Config    *config.Config
	Logger    logger.Logger
	Redis     *database.RedisClient
	Validator *validation.Validator
	Obs       *observability.Observability
	Resolver  *resolveinterests.Handler
	Overlap   *findoverlap.Handler
	Shaper    *generatestarters.Handler
	Service   *pipeline.Service
}

// Build wires the pipeline from cfg. Redis is only dialled when enabled.
func Build(ctx context.Context, cfg *config.Config, log logger.Logger, serviceName string, opts ...observability.Option) (*Components, error) {
	c := &Components{Config: cfg, Logger: log}

	v, err := validation.NewDefault()
	if err != nil {
		return nil, fmt.Errorf("load activity schemas: %w", err)
	}
	c.Validator = v

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		c.Redis = database.NewRedis(cfg.Redis)
		if err := c.Redis.Ping(ctx); err != nil {
			log.Warn("redis unavailable at startup, keyword cache degraded", map[string]interface{}{
				"address": cfg.Redis.Address,
				"error":   err.Error(),
			})
		}
		rdb = c.Redis.Client
	}

	completer, err := completion.NewClient(ctx, cfg.APIs.GenAI, log)
	if err != nil {
		return nil, err
	}

	c.Obs = observability.New(serviceName, opts...)
	c.Resolver = resolveinterests.NewHandler(resolveinterests.LoadConfig(cfg), rdb, v, log)
	c.Overlap = findoverlap.NewHandler(v, log)
	c.Shaper = generatestarters.NewHandler(generatestarters.LoadConfig(cfg), completer, v, log)
	c.Service = pipeline.NewService(c.Resolver, c.Overlap, c.Shaper, v, c.Obs, log)
	return c, nil
}

// ReadinessChecks lists the dependencies /ready probes.
func (c *Components) ReadinessChecks() map[string]api.ReadinessCheck {
	checks := make(map[string]api.ReadinessCheck)
	if c.Redis != nil {
		checks["redis"] = c.Redis.Ping
	}
	return checks
}

func (c *Components) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("redis close failed", map[string]interface{}{"error": err.Error()})
		}
	}
	c.Obs.Shutdown()
}
