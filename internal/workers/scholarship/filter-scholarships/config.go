// internal/workers/scholarship/filter-scholarships/config.go
package filterscholarships

import "time"

type Config struct {
	Timeout time.Duration
	Now     func() time.Time
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
		Now:     time.Now,
	}
}
