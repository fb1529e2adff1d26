// internal/workers/shopping/generate-recommendations/config.go
package generaterecommendations

import "time"

type Config struct {
	Timeout time.Duration
	// MaxListings bounds how many ranked listings go into the prompt.
	MaxListings int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     45 * time.Second,
		MaxListings: 3,
	}
}
