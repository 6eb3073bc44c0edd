// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig               `mapstructure:"app"`
	Server  ServerConfig            `mapstructure:"server"`
	Camunda CamundaConfig           `mapstructure:"camunda"`
	Redis   RedisConfig             `mapstructure:"redis"`
	APIs    APIsConfig              `mapstructure:"apis"`
	Fetch   FetchConfig             `mapstructure:"fetch"`
	Workers map[string]WorkerConfig `mapstructure:"workers" validate:"dive"`
	Logging LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Port int    `mapstructure:"port" validate:"min=1,max=65535"`
}

// Address returns the listen address for the HTTP server.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Addr, s.Port)
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address" validate:"required_if=Enabled true"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address" validate:"required_if=Enabled true"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0"`
	TTL      int    `mapstructure:"ttl"` // milliseconds
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active" validate:"min=1"`
	Timeout       int  `mapstructure:"timeout" validate:"min=1"` // milliseconds
}

// APIsConfig holds settings for external API integrations.
type APIsConfig struct {
	GenAI GenAIConfig `mapstructure:"genai"`
}

// GenAIConfig configures the completion service. APIKey has no default and
// must come from the config file or GENAI_API_KEY.
type GenAIConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey  string `mapstructure:"api_key" validate:"required"`
	Model   string `mapstructure:"model" validate:"required"`
	Timeout int    `mapstructure:"timeout" validate:"min=1"` // milliseconds
}

// FetchConfig controls the profile-URL keyword extraction.
type FetchConfig struct {
	Timeout      int    `mapstructure:"timeout" validate:"min=1"` // milliseconds
	UserAgent    string `mapstructure:"user_agent" validate:"required"`
	MaxKeywords  int    `mapstructure:"max_keywords" validate:"min=1"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes" validate:"min=1"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}
