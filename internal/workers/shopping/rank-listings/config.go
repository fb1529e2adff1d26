// internal/workers/shopping/rank-listings/config.go
package ranklistings

import (
	"time"

	"shopping-assistant/internal/ranking"
)

type Config struct {
	Timeout time.Duration
	// SlowThreshold is the ranking duration above which a warning is logged.
	SlowThreshold time.Duration
	SortPolicy    ranking.SortPolicy
	// TopN caps the output when the job does not ask for a size. Zero keeps everything.
	TopN int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       10 * time.Second,
		SlowThreshold: 500 * time.Millisecond,
		SortPolicy:    ranking.SortPolicyLayered,
	}
}
