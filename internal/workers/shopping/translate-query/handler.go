// internal/workers/shopping/translate-query/handler.go
package translatequery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"shopping-assistant/internal/common/camunda"
	apperrors "shopping-assistant/internal/common/errors"
	"shopping-assistant/internal/models"
	"shopping-assistant/internal/textutil"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "translate-query"
)

var (
	ErrEmptyQuery          = errors.New("EMPTY_QUERY")
	ErrUnsupportedLanguage = errors.New("UNSUPPORTED_LANGUAGE")
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Translator interface {
	TranslateOrOriginal(ctx context.Context, text, source, target string) (string, bool)
}

type Handler struct {
	config     *Config
	translator Translator
	logger     Logger
	errors     *apperrors.ErrorHandler
}

func NewHandler(config *Config, translator Translator, log Logger) *Handler {
	scoped := log.With(map[string]interface{}{
		"taskType": TaskType,
	})
	return &Handler{
		config:     config,
		translator: translator,
		logger:     scoped,
		errors:     apperrors.NewErrorHandler(scoped),
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
		stdErr := apperrors.NewInvalidInputError(err.Error())
		h.errors.HandleJobError(ctx, client, job, stdErr)
		return stdErr
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

// execute keeps the original query when the gateway cannot translate it.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	query := textutil.CleanQuery(input.Query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	target := input.TargetLanguage
	if target == "" {
		target = h.config.TargetLanguage
	}
	if target != models.LanguageEnglish && target != models.LanguageJapanese {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, target)
	}

	detected := textutil.DetectLanguage(query)
	out := &Output{
		DetectedLanguage: detected,
		TranslatedQuery:  query,
	}
	if detected == target {
		return out, nil
	}

	translated, ok := h.translator.TranslateOrOriginal(ctx, query, detected, target)
	if !ok {
		h.logger.Warn("translation unavailable, keeping original query", map[string]interface{}{
			"source": detected,
			"target": target,
		})
		return out, nil
	}

	out.TranslatedQuery = translated
	out.Translated = true
	h.logger.Info("query translated", map[string]interface{}{
		"source": detected,
		"target": target,
	})
	return out, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
