package app

import (
	"context"
	"testing"

	"conversation-starters/internal/common/config"
	"conversation-starters/internal/common/logger"
	"conversation-starters/internal/common/observability"

	"github.com/alicebob/miniredis/v2"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		APIs: config.APIsConfig{GenAI: config.GenAIConfig{
			APIKey:  "test-key",
			Model:   config.DefaultModel,
			Timeout: 1000,
		}},
		Fetch: config.FetchConfig{
			Timeout:      1000,
			UserAgent:    config.DefaultUserAgent,
			MaxKeywords:  10,
			MaxBodyBytes: 1 << 20,
		},
		Redis: config.RedisConfig{TTL: 60000},
	}
}

func TestBuild_WithoutRedis(t *testing.T) {
	c, err := Build(context.Background(), testConfig(), logger.NewTestLogger(t), "test",
		observability.WithRegisterer(prom.NewRegistry()), observability.WithoutGlobal())
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.Redis)
	assert.NotNil(t, c.Service)
	assert.Empty(t, c.ReadinessChecks())
}

func TestBuild_WithRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := testConfig()
	cfg.Redis.Enabled = true
	cfg.Redis.Address = mr.Addr()

	c, err := Build(context.Background(), cfg, logger.NewTestLogger(t), "test",
		observability.WithRegisterer(prom.NewRegistry()), observability.WithoutGlobal())
	require.NoError(t, err)
	defer c.Close()

	checks := c.ReadinessChecks()
	require.Contains(t, checks, "redis")
	assert.NoError(t, checks["redis"](context.Background()))
}

func TestBuild_MissingAPIKey(t *testing.T) {
	cfg := testConfig()
	cfg.APIs.GenAI.APIKey = ""
	_, err := Build(context.Background(), cfg, logger.NewNoOpLogger(), "test",
		observability.WithRegisterer(prom.NewRegistry()), observability.WithoutGlobal())
	assert.Error(t, err)
}
