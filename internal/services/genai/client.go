// internal/services/genai/client.go
package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shopping-assistant/internal/common/config"
	apphttp "shopping-assistant/internal/common/http"
	"shopping-assistant/internal/common/logger"
	"shopping-assistant/internal/common/metrics"
)

const (
	parseQueryPath = "/api/ai/parse-query"
	generatePath   = "/api/ai/generate"
	translatePath  = "/api/ai/translate"
)

var (
	ErrGenAITimeout       = errors.New("GENAI_API_TIMEOUT")
	ErrGenAIRequestFailed = errors.New("GENAI_REQUEST_FAILED")
	ErrEmptyResponse      = errors.New("GENAI_EMPTY_RESPONSE")
)

type Config struct {
	BaseURL         string
	FallbackBaseURL string
	APIKey          string
	Timeout         time.Duration
	MaxRetries      int
	MockMode        bool
}

// ConfigFrom converts the loaded apis.genai section.
func ConfigFrom(c config.GenAIConfig) Config {
	return Config{
		BaseURL:         strings.TrimRight(c.BaseURL, "/"),
		FallbackBaseURL: strings.TrimRight(c.FallbackBaseURL, "/"),
		APIKey:          c.APIKey,
		Timeout:         config.GetDuration(c.Timeout),
		MaxRetries:      c.MaxRetries,
		MockMode:        c.MockMode,
	}
}

// Client talks to the GenAI gateway. A secondary gateway, when configured,
// is tried once the primary has exhausted its retries.
type Client struct {
	config Config
	http   *apphttp.Client
	logger logger.Logger
}

func NewClient(cfg Config, log logger.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	httpClient := apphttp.NewClient(cfg.Timeout)
	if cfg.APIKey != "" {
		httpClient = httpClient.WithHeader("Authorization", "Bearer "+cfg.APIKey)
	}
	return &Client{
		config: cfg,
		http:   httpClient,
		logger: log.With(map[string]interface{}{"component": "genai"}),
	}
}

// MockMode reports whether calls are answered locally.
func (c *Client) MockMode() bool {
	return c.config.MockMode
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	err := c.postWithRetry(ctx, c.config.BaseURL, path, body, out)
	if err == nil || c.config.FallbackBaseURL == "" || errors.Is(err, ErrGenAITimeout) {
		return err
	}

	c.logger.Warn("primary genai gateway failed, trying fallback", map[string]interface{}{
		"path":  path,
		"error": err.Error(),
	})
	return c.postWithRetry(ctx, c.config.FallbackBaseURL, path, body, out)
}

func (c *Client) postWithRetry(ctx context.Context, baseURL, path string, body, out interface{}) error {
	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ErrGenAITimeout
			}
		}

		lastErr = c.http.PostJSON(ctx, baseURL+path, body, out)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ErrGenAITimeout
		}

		var statusErr *apphttp.StatusError
		if errors.As(lastErr, &statusErr) && !statusErr.Retryable() {
			break
		}
	}
	return fmt.Errorf("%w: %v", ErrGenAIRequestFailed, lastErr)
}

func (c *Client) recordFallback(operation string, err error) {
	metrics.GenAIFallbacks.WithLabelValues(operation).Inc()
	c.logger.Warn("genai fallback used", map[string]interface{}{
		"operation": operation,
		"error":     err.Error(),
	})
}
