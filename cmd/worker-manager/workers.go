// cmd/worker-manager/workers.go
package main

import (
	"context"

	"shopping-assistant/internal/catalog"
	awsclients "shopping-assistant/internal/common/aws"
	"shopping-assistant/internal/common/camunda"
	"shopping-assistant/internal/common/config"
	"shopping-assistant/internal/common/logger"
	"shopping-assistant/internal/common/observability"
	"shopping-assistant/internal/common/validation"
	"shopping-assistant/internal/ranking"
	"shopping-assistant/internal/services/genai"
	"shopping-assistant/internal/store"

	grc "shopping-assistant/internal/workers/shopping/generate-recommendations"
	ns "shopping-assistant/internal/workers/shopping/notify-shopper"
	pq "shopping-assistant/internal/workers/shopping/parse-query"
	rl "shopping-assistant/internal/workers/shopping/rank-listings"
	sl "shopping-assistant/internal/workers/shopping/search-listings"
	tl "shopping-assistant/internal/workers/shopping/tag-listings"
	tq "shopping-assistant/internal/workers/shopping/translate-query"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"
)

// services bundles what the worker handlers are built from.
type services struct {
	config    *config.Config
	log       logger.Logger
	repo      *store.ListingRepository
	index     *store.SearchIndex
	validator *validation.ListingValidator
	policy    ranking.SortPolicy
	genai     *genai.Client
	catalog   *catalog.Service
}

// registerWorkers opens a job worker for every enabled task type and
// returns them with the task types they serve.
func registerWorkers(zeebe *camunda.Client, s services, obs *observability.Observability, zapLog *zap.Logger) ([]worker.JobWorker, []string) {
	cfg := s.config
	var (
		workers []worker.JobWorker
		served  []string
	)

	start := func(taskType string, handler camunda.JobHandler) {
		wcfg := config.GetWorkerConfig(cfg, taskType)
		w := camunda.StartWorker(zeebe.Raw(), taskType, camunda.WorkerOptions{
			MaxJobsActive: wcfg.MaxJobsActive,
			Timeout:       config.GetDuration(wcfg.Timeout),
		}, handler, obs, zapLog)
		workers = append(workers, w)
		served = append(served, taskType)
	}
	enabled := func(taskType string) bool {
		if !config.IsWorkerEnabled(cfg, taskType) {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			return false
		}
		return true
	}
	// --- Query understanding ---
	if enabled(pq.TaskType) {
		handler := pq.NewHandler(
			&pq.Config{
				Timeout: config.GetDuration(config.GetWorkerConfig(cfg, pq.TaskType).Timeout),
			},
			s.genai, &parseQueryLoggerAdapter{s.log},
		)
		start(pq.TaskType, handler)
	}

	if enabled(tq.TaskType) {
		handler := tq.NewHandler(
			&tq.Config{
				Timeout:        config.GetDuration(config.GetWorkerConfig(cfg, tq.TaskType).Timeout),
				TargetLanguage: "en",
			},
			s.genai, &translateQueryLoggerAdapter{s.log},
		)
		start(tq.TaskType, handler)
	}

	// --- Listings ---
	if enabled(sl.TaskType) {
		handler := sl.NewHandler(
			&sl.Config{
				Timeout: config.GetDuration(config.GetWorkerConfig(cfg, sl.TaskType).Timeout),
			},
			s.catalog, s.log,
		)
		start(sl.TaskType, handler)
	}

	if enabled(rl.TaskType) {
		handler := rl.NewHandler(
			&rl.Config{
				Timeout:       config.GetDuration(config.GetWorkerConfig(cfg, rl.TaskType).Timeout),
				SlowThreshold: config.GetDuration(cfg.Ranking.SlowThreshold),
				SortPolicy:    s.policy,
				TopN:          cfg.Ranking.TopN,
			},
			s.validator, s.log,
		)
		start(rl.TaskType, handler)
	}

	if enabled(tl.TaskType) {
		handler := tl.NewHandler(
			&tl.Config{
				Timeout:      config.GetDuration(config.GetWorkerConfig(cfg, tl.TaskType).Timeout),
				DefaultLimit: 100,
				MaxLimit:     1000,
			},
			s.repo, s.index, s.log,
		)
		start(tl.TaskType, handler)
	}

	// --- Recommendation & delivery ---
	if enabled(grc.TaskType) {
		handler := grc.NewHandler(
			&grc.Config{
				Timeout:     config.GetDuration(config.GetWorkerConfig(cfg, grc.TaskType).Timeout),
				MaxListings: cfg.Ranking.TopN,
			},
			s.genai, &generateRecommendationsLoggerAdapter{s.log},
		)
		start(grc.TaskType, handler)
	}

	if enabled(ns.TaskType) {
		sesClient, snsClient := notificationClients(cfg, zapLog)
		handler := ns.NewHandler(
			&ns.Config{
				EmailEnabled: cfg.Notifications.Email.Enabled,
				FromEmail:    cfg.Notifications.Email.FromEmail,
				TopicARN:     snsTopic(cfg),
				AWSRegion:    cfg.Notifications.AWS.Region,
				Timeout:      config.GetDuration(config.GetWorkerConfig(cfg, ns.TaskType).Timeout),
			},
			sesClient, snsClient, s.log,
		)
		start(ns.TaskType, handler)
	}

	return workers, served
}

// notificationClients loads AWS credentials only when a channel is enabled.
// Disabled channels get nil interfaces, not typed nil pointers.
func notificationClients(cfg *config.Config, log *zap.Logger) (ns.SESService, ns.SNSService) {
	if !cfg.Notifications.Email.Enabled && !cfg.Notifications.SNS.Enabled {
		return nil, nil
	}

	awsCfg, err := awsclients.LoadConfig(context.Background(), cfg.Notifications.AWS.Region)
	if err != nil {
		log.Warn("aws config unavailable, notifications disabled", zap.Error(err))
		return nil, nil
	}

	var (
		sesClient ns.SESService
		snsClient ns.SNSService
	)
	if cfg.Notifications.Email.Enabled {
		sesClient = awsclients.NewSESClient(awsCfg)
	}
	if cfg.Notifications.SNS.Enabled {
		snsClient = awsclients.NewSNSClient(awsCfg)
	}
	return sesClient, snsClient
}

func snsTopic(cfg *config.Config) string {
	if !cfg.Notifications.SNS.Enabled {
		return ""
	}
	return cfg.Notifications.SNS.TopicARN
}

// Logger adapters for workers that declare their own Logger interfaces
type parseQueryLoggerAdapter struct {
	logger.Logger
}

func (a *parseQueryLoggerAdapter) With(fields map[string]interface{}) pq.Logger {
	return &parseQueryLoggerAdapter{a.Logger.With(fields)}
}

type translateQueryLoggerAdapter struct {
	logger.Logger
}

func (a *translateQueryLoggerAdapter) With(fields map[string]interface{}) tq.Logger {
	return &translateQueryLoggerAdapter{a.Logger.With(fields)}
}

type generateRecommendationsLoggerAdapter struct {
	logger.Logger
}

func (a *generateRecommendationsLoggerAdapter) With(fields map[string]interface{}) grc.Logger {
	return &generateRecommendationsLoggerAdapter{a.Logger.With(fields)}
}
