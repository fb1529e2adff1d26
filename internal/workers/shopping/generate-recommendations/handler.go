// internal/workers/shopping/generate-recommendations/handler.go
package generaterecommendations

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shopping-assistant/internal/common/camunda"
	apperrors "shopping-assistant/internal/common/errors"
	"shopping-assistant/internal/models"
	"shopping-assistant/internal/textutil"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "generate-recommendations"
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Recommender interface {
	RecommendationOrFallback(ctx context.Context, query string, listings []models.Listing, language string) (string, bool)
}

type Handler struct {
	config      *Config
	recommender Recommender
	logger      Logger
	errors      *apperrors.ErrorHandler
}

func NewHandler(config *Config, recommender Recommender, log Logger) *Handler {
	scoped := log.With(map[string]interface{}{
		"taskType": TaskType,
	})
	return &Handler{
		config:      config,
		recommender: recommender,
		logger:      scoped,
		errors:      apperrors.NewErrorHandler(scoped),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		stdErr := apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
		h.errors.HandleJobError(ctx, client, job, stdErr)
		return stdErr
	}

	output := h.execute(ctx, &input)

	if err := camunda.CompleteJob(context.Background(), client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return err
	}
	return nil
}

// execute always produces text: gateway failures fall back to a fixed message.
func (h *Handler) execute(ctx context.Context, input *Input) *Output {
	start := time.Now()

	ranked := input.RankedListings
	if h.config.MaxListings > 0 && len(ranked) > h.config.MaxListings {
		ranked = ranked[:h.config.MaxListings]
	}

	language := input.Language
	if language == "" {
		language = textutil.DetectLanguage(input.Query)
	}

	text, fallback := h.recommender.RecommendationOrFallback(ctx, input.Query, models.Listings(ranked), language)
	if fallback {
		h.logger.Warn("recommendation unavailable, using fallback text", map[string]interface{}{
			"listings": len(ranked),
		})
	}

	h.logger.Info("recommendation generated", map[string]interface{}{
		"listings":     len(ranked),
		"language":     language,
		"fallbackUsed": fallback,
		"durationMs":   time.Since(start).Milliseconds(),
	})

	return &Output{
		Recommendation: text,
		FallbackUsed:   fallback,
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input), nil
}
