// internal/workers/shopping/parse-query/handler.go
package parsequery

import (
	"context"
	"encoding/json"
	"errors"
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
	TaskType = "parse-query"
)

var (
	ErrEmptyQuery = errors.New("EMPTY_QUERY")
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// QueryParser is satisfied by the GenAI gateway client.
type QueryParser interface {
	ParseQueryOrFallback(ctx context.Context, query, language string) (*models.Preferences, bool)
}

type Handler struct {
	config *Config
	parser QueryParser
	logger Logger
	errors *apperrors.ErrorHandler
}

func NewHandler(config *Config, parser QueryParser, log Logger) *Handler {
	scoped := log.With(map[string]interface{}{
		"taskType": TaskType,
	})
	return &Handler{
		config: config,
		parser: parser,
		logger: scoped,
		errors: apperrors.NewErrorHandler(scoped),
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

	output, err := h.execute(ctx, &input)
	if err != nil {
		jobErr := toJobError(err)
		h.errors.HandleJobError(ctx, client, job, jobErr)
		return jobErr
	}

	if err := camunda.CompleteJob(context.Background(), client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return err
	}
	return nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()

	query := textutil.CleanQuery(input.Query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	language := input.Language
	if language != models.LanguageEnglish && language != models.LanguageJapanese {
		language = textutil.DetectLanguage(query)
	}

	prefs, fallback := h.parser.ParseQueryOrFallback(ctx, query, language)
	if fallback {
		h.logger.Warn("query parsing unavailable, using keyword fallback", map[string]interface{}{
			"query": query,
		})
	}

	h.logger.Info("query parsed", map[string]interface{}{
		"language":     language,
		"keywords":     len(prefs.Keywords),
		"hasFilters":   prefs.HasFilters(),
		"fallbackUsed": fallback,
		"durationMs":   time.Since(start).Milliseconds(),
	})

	return &Output{
		Preferences:  prefs,
		Language:     language,
		FallbackUsed: fallback,
	}, nil
}

func toJobError(err error) error {
	if errors.Is(err, ErrEmptyQuery) {
		return apperrors.NewInvalidInputError("query is required")
	}
	return err
}

// Execute runs the task without a job, for the CLI and tests.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
