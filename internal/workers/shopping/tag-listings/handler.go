// internal/workers/shopping/tag-listings/handler.go
package taglistings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shopping-assistant/internal/common/camunda"
	apperrors "shopping-assistant/internal/common/errors"
	"shopping-assistant/internal/common/logger"
	"shopping-assistant/internal/models"
	"shopping-assistant/internal/store"
	"shopping-assistant/internal/textutil"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "tag-listings"
)

type TagStore interface {
	ListUntagged(ctx context.Context, limit int) ([]models.Listing, error)
	UpdateTags(ctx context.Context, id string, tags []string) error
}

// Indexer refreshes tagged listings in the search index. Optional.
type Indexer interface {
	Index(ctx context.Context, listings []models.Listing) error
}

type Handler struct {
	config  *Config
	store   TagStore
	indexer Indexer
	logger  logger.Logger
	errors  *apperrors.ErrorHandler
}

func NewHandler(config *Config, tagStore TagStore, indexer Indexer, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		store:   tagStore,
		indexer: indexer,
		logger:  scoped,
		errors:  apperrors.NewErrorHandler(scoped),
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
		h.errors.HandleJobError(ctx, client, job, err)
		return err
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

// execute stores an empty tag set for titles no rule matches, so those rows
// are not scanned again.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()

	limit := input.Limit
	if limit <= 0 {
		limit = h.config.DefaultLimit
	}
	if h.config.MaxLimit > 0 && limit > h.config.MaxLimit {
		limit = h.config.MaxLimit
	}

	listings, err := h.store.ListUntagged(ctx, limit)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list untagged listings", err)
	}

	out := &Output{Scanned: len(listings)}
	var tagged []models.Listing
	for _, l := range listings {
		tags := textutil.SEOTags(l.Name)
		if err := h.store.UpdateTags(ctx, l.ID, tags); err != nil {
			if errors.Is(err, store.ErrListingNotFound) {
				h.logger.Warn("listing disappeared before tagging", map[string]interface{}{"id": l.ID})
				continue
			}
			return nil, apperrors.NewQueryExecutionFailedError("update listing tags", err).
				WithMetadata("tagged", out.Tagged)
		}
		if len(tags) > 0 {
			out.Tagged++
			l.SEOTags = tags
			tagged = append(tagged, l)
		}
	}

	if h.indexer != nil && len(tagged) > 0 {
		if err := h.indexer.Index(ctx, tagged); err != nil {
			h.logger.Warn("failed to reindex tagged listings", map[string]interface{}{
				"count": len(tagged),
				"error": err.Error(),
			})
		}
	}

	h.logger.Info("listings tagged", map[string]interface{}{
		"scanned":    out.Scanned,
		"tagged":     out.Tagged,
		"durationMs": time.Since(start).Milliseconds(),
	})
	return out, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
