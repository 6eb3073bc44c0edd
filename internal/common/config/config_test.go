package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	t.Setenv("GENAI_API_KEY", "env-key")

	path := writeConfig(t, `
app:
  name: starters-test
logging:
  level: debug
  format: console
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "starters-test", cfg.App.Name)
	assert.Equal(t, "env-key", cfg.APIs.GenAI.APIKey)
	assert.Equal(t, DefaultModel, cfg.APIs.GenAI.Model)
	assert.Equal(t, 60000, cfg.APIs.GenAI.Timeout)
	assert.Equal(t, 10000, cfg.Fetch.Timeout)
	assert.Equal(t, DefaultUserAgent, cfg.Fetch.UserAgent)
	assert.Equal(t, 10, cfg.Fetch.MaxKeywords)
	assert.Equal(t, int64(2<<20), cfg.Fetch.MaxBodyBytes)
	assert.Equal(t, 54321, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Camunda.Enabled)
}

func TestLoadFromFile_ExpandsPlaceholders(t *testing.T) {
	t.Setenv("STARTERS_TEST_KEY", "expanded-key")

	path := writeConfig(t, `
apis:
  genai:
    api_key: ${STARTERS_TEST_KEY}
    model: gemini-2.0-flash
    timeout: 15000
fetch:
  timeout: 2500
workers:
  generate-starters:
    enabled: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "expanded-key", cfg.APIs.GenAI.APIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.APIs.GenAI.Model)
	assert.Equal(t, 15*time.Second, GetDuration(cfg.APIs.GenAI.Timeout))
	assert.Equal(t, 2500*time.Millisecond, GetDuration(cfg.Fetch.Timeout))

	wc := GetWorkerConfig(cfg, "generate-starters")
	assert.True(t, wc.Enabled)
	assert.Equal(t, 10, wc.MaxJobsActive)
	assert.Equal(t, 90000, wc.Timeout)
}

func TestGetWorkerConfig_InheritsCamundaMaxJobs(t *testing.T) {
	t.Setenv("GENAI_API_KEY", "k")
	t.Setenv("CAMUNDA_BROKER_ADDRESS", "")

	path := writeConfig(t, `
camunda:
  max_jobs_active: 3
workers:
  find-overlap:
    enabled: true
  generate-starters:
    enabled: true
    max_jobs_active: 7
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 3, GetWorkerConfig(cfg, "find-overlap").MaxJobsActive)
	assert.Equal(t, 7, GetWorkerConfig(cfg, "generate-starters").MaxJobsActive)
	assert.Equal(t, 3, GetWorkerConfig(cfg, "resolve-interests").MaxJobsActive)
	assert.Equal(t, 5, GetWorkerConfig(&Config{}, "resolve-interests").MaxJobsActive)
}

func TestLoadFromFile_MissingAPIKey(t *testing.T) {
	t.Setenv("GENAI_API_KEY", "")

	path := writeConfig(t, `
app:
  name: no-key
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APIKey")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{APIs: APIsConfig{GenAI: GenAIConfig{APIKey: "k"}}}
		applyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(cfg *Config) {}},
		{
			name:    "camunda enabled without broker",
			mutate:  func(cfg *Config) { cfg.Camunda.Enabled = true },
			wantErr: true,
		},
		{
			name:    "redis enabled without address",
			mutate:  func(cfg *Config) { cfg.Redis.Enabled = true },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			mutate:  func(cfg *Config) { cfg.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "bad base url",
			mutate:  func(cfg *Config) { cfg.APIs.GenAI.BaseURL = "not a url" },
			wantErr: true,
		},
		{
			name: "redis enabled with address",
			mutate: func(cfg *Config) {
				cfg.Redis.Enabled = true
				cfg.Redis.Address = "localhost:6379"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsWorkerEnabled(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"find-overlap": {Enabled: false},
	}}
	assert.False(t, IsWorkerEnabled(cfg, "find-overlap"))
	assert.True(t, IsWorkerEnabled(cfg, "resolve-interests"))
}

func TestLoadFromFile_EnvEnablesRedis(t *testing.T) {
	t.Setenv("GENAI_API_KEY", "k")
	t.Setenv("REDIS_ADDRESS", "cache:6379")

	path := writeConfig(t, `
redis:
  enabled: false
  address: ${REDIS_ADDRESS}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Address)
}

func TestLoadFromFile_RepositoryConfig(t *testing.T) {
	t.Setenv("GENAI_API_KEY", "k")
	t.Setenv("REDIS_ADDRESS", "")
	t.Setenv("CAMUNDA_BROKER_ADDRESS", "")

	cfg, err := LoadFromFile(filepath.Join("..", "..", "..", "configs", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "conversation-starters", cfg.App.Name)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 120000, GetWorkerConfig(cfg, "conversation-starters").Timeout)
}
