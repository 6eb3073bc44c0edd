// internal/workers/conversation/generate-starters/config.go
package generatestarters

import (
	"time"

	"conversation-starters/internal/common/config"
)

type Config struct {
	// Timeout bounds one completion call.
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout: config.GetDuration(cfg.APIs.GenAI.Timeout),
	}
}
