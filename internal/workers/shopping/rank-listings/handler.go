// internal/workers/shopping/rank-listings/handler.go
package ranklistings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shopping-assistant/internal/common/camunda"
	apperrors "shopping-assistant/internal/common/errors"
	"shopping-assistant/internal/common/logger"
	"shopping-assistant/internal/common/metrics"
	"shopping-assistant/internal/common/validation"
	"shopping-assistant/internal/models"
	"shopping-assistant/internal/ranking"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "rank-listings"
)

var (
	ErrRankingFailed = errors.New("RANKING_FAILED")
)

type Handler struct {
	config    *Config
	ranker    *ranking.Ranker
	validator *validation.ListingValidator
	logger    logger.Logger
	errors    *apperrors.ErrorHandler
}

func NewHandler(config *Config, validator *validation.ListingValidator, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		ranker:    ranking.New(ranking.WithSortPolicy(config.SortPolicy)),
		validator: validator,
		logger:    scoped,
		errors:    apperrors.NewErrorHandler(scoped),
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	listings, warnings, err := h.decodeListings(input.Listings)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		h.logger.Warn("listing warning", map[string]interface{}{"warning": w})
	}

	start := time.Now()
	ranked, err := h.ranker.Rank(listings, input.Preferences)
	elapsed := time.Since(start)

	out := &Output{
		InputCount: len(listings),
		Warnings:   warnings,
	}

	if err != nil {
		if !input.FallbackOnError {
			return nil, rankError(err)
		}
		h.logger.Warn("ranking failed, returning listings unranked", map[string]interface{}{
			"error": err.Error(),
			"count": len(listings),
		})
		ranked = models.Unscored(listings)
	} else {
		out.Ranked = true
		out.DuplicatesRemoved = len(listings) - len(ranked)
		metrics.ObserveRanking(len(listings), len(ranked), elapsed.Seconds())
	}

	if elapsed > h.config.SlowThreshold {
		h.logger.Warn("slow ranking", map[string]interface{}{
			"count":       len(listings),
			"durationMs":  elapsed.Milliseconds(),
			"thresholdMs": h.config.SlowThreshold.Milliseconds(),
		})
	}

	topN := input.TopN
	if topN <= 0 {
		topN = h.config.TopN
	}
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}

	out.RankedListings = ranked
	out.OutputCount = len(ranked)

	h.logger.Info("listings ranked", map[string]interface{}{
		"inputCount":        out.InputCount,
		"outputCount":       out.OutputCount,
		"duplicatesRemoved": out.DuplicatesRemoved,
		"policy":            string(h.ranker.Policy()),
		"ranked":            out.Ranked,
		"durationMs":        elapsed.Milliseconds(),
	})
	return out, nil
}

// decodeListings validates the raw listings against the listing schema.
// Without a validator the listings are decoded as-is and the ranking
// engine's own checks apply.
func (h *Handler) decodeListings(raw json.RawMessage) ([]models.Listing, []string, error) {
	if h.validator == nil {
		var listings []models.Listing
		if len(raw) > 0 && string(raw) != "null" {
			if err := json.Unmarshal(raw, &listings); err != nil {
				return nil, nil, apperrors.NewInvalidInputError(fmt.Sprintf("decode listings: %v", err))
			}
		}
		return listings, nil, nil
	}

	if string(raw) == "null" {
		raw = nil
	}
	listings, res, err := h.validator.ValidateListingsJSON(raw)
	if err != nil {
		return nil, nil, apperrors.NewInvalidInputError(err.Error())
	}
	if !res.Valid() {
		return nil, nil, apperrors.NewListingValidationFailedError(res.Errors).
			WithMetadata("violations", len(res.Errors))
	}
	return listings, res.Warnings, nil
}

func rankError(err error) error {
	var listingErr *ranking.ListingError
	if errors.As(err, &listingErr) {
		return apperrors.NewListingValidationFailedError([]string{err.Error()}).
			WithMetadata("listingIndex", listingErr.Index)
	}
	return apperrors.NewRankingFailedError(fmt.Errorf("%w: %v", ErrRankingFailed, err))
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
