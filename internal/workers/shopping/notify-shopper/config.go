// internal/workers/shopping/notify-shopper/config.go
package notifyshopper

import "time"

type Config struct {
	EmailEnabled bool
	FromEmail    string
	// TopicARN receives search.completed events. Empty disables publishing.
	TopicARN  string
	AWSRegion string
	Timeout   time.Duration
}

func LoadConfig() *Config {
	return &Config{
		FromEmail: "noreply@shopping-assistant.local",
		AWSRegion: "ap-northeast-1",
		Timeout:   30 * time.Second,
	}
}
