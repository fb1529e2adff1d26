// internal/workers/shopping/translate-query/config.go
package translatequery

import (
	"time"

	"shopping-assistant/internal/models"
)

type Config struct {
	Timeout        time.Duration
	TargetLanguage string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:        30 * time.Second,
		TargetLanguage: models.LanguageEnglish,
	}
}
