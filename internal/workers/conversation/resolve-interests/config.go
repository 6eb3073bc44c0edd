// internal/workers/conversation/resolve-interests/config.go
package resolveinterests

import (
	"time"

	"conversation-starters/internal/common/config"
)

type Config struct {
	FetchTimeout time.Duration
	UserAgent    string
	MaxKeywords  int
	MaxBodyBytes int64
	CacheTTL     time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		FetchTimeout: config.GetDuration(cfg.Fetch.Timeout),
		UserAgent:    cfg.Fetch.UserAgent,
		MaxKeywords:  cfg.Fetch.MaxKeywords,
		MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
		CacheTTL:     config.GetDuration(cfg.Redis.TTL),
	}
}
