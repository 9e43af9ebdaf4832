// internal/workers/scholarship/match-scholarships/config.go
package matchscholarships

import (
	"time"

	"scholarship-matcher/internal/matching"
)

type Config struct {
	Timeout   time.Duration
	Threshold int
	PageSize  int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:   30 * time.Second,
		Threshold: matching.DefaultThreshold,
		PageSize:  matching.DefaultPageSize,
	}
}
