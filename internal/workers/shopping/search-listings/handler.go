// internal/workers/shopping/search-listings/handler.go
package searchlistings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shopping-assistant/internal/common/camunda"
	apperrors "shopping-assistant/internal/common/errors"
	"shopping-assistant/internal/common/logger"
	"shopping-assistant/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "search-listings"
)

// Searcher is satisfied by catalog.Service.
type Searcher interface {
	SearchWithSource(ctx context.Context, query string, prefs *models.Preferences) ([]models.Listing, models.SearchSource)
	ByTags(ctx context.Context, tags []string) ([]models.Listing, error)
}

type Handler struct {
	config   *Config
	searcher Searcher
	logger   logger.Logger
	errors   *apperrors.ErrorHandler
}

func NewHandler(config *Config, searcher Searcher, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		searcher: searcher,
		logger:   scoped,
		errors:   apperrors.NewErrorHandler(scoped),
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

// execute never fails on unavailable sources for a text search; the catalog
// degrades to an empty result. A tag lookup goes to Postgres only and fails
// the job when Postgres does.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()

	var (
		listings []models.Listing
		source   models.SearchSource
	)
	if len(input.Tags) > 0 {
		var err error
		listings, err = h.searcher.ByTags(ctx, input.Tags)
		if err != nil {
			return nil, err
		}
		source = models.SearchSourceTags
	} else {
		listings, source = h.searcher.SearchWithSource(ctx, input.Query, input.Preferences)
	}
	if len(listings) == 0 && ctx.Err() != nil {
		return nil, apperrors.NewListingSearchFailedError(ctx.Err())
	}
	if listings == nil {
		listings = []models.Listing{}
	}

	h.logger.Info("listings retrieved", map[string]interface{}{
		"source":     string(source),
		"count":      len(listings),
		"durationMs": time.Since(start).Milliseconds(),
	})

	return &Output{
		Listings: listings,
		Source:   string(source),
		Count:    len(listings),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
