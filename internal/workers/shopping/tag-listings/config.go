// internal/workers/shopping/tag-listings/config.go
package taglistings

import "time"

type Config struct {
	Timeout      time.Duration
	DefaultLimit int
	MaxLimit     int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      60 * time.Second,
		DefaultLimit: 100,
		MaxLimit:     1000,
	}
}
