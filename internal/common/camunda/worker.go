// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	apperrors "shopping-assistant/internal/common/errors"
	"shopping-assistant/internal/common/metrics"
	"shopping-assistant/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
)

// JobHandler completes or fails the job itself and returns the error it failed with.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job) error
}

// WorkerOptions carries per-task settings from config.
type WorkerOptions struct {
	MaxJobsActive int
	Timeout       time.Duration
}

// StartWorker opens a job worker for taskType and instruments every job.
func StartWorker(
	client zbc.Client,
	taskType string,
	opts WorkerOptions,
	handler JobHandler,
	obs *observability.Observability,
	logger *zap.Logger,
) worker.JobWorker {
	w := client.NewJobWorker().
		JobType(taskType).
		Handler(instrument(taskType, handler, obs, logger)).
		MaxJobsActive(opts.MaxJobsActive).
		Timeout(opts.Timeout).
		Open()

	logger.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", opts.MaxJobsActive),
		zap.Duration("timeout", opts.Timeout),
	)
	return w
}

func instrument(taskType string, handler JobHandler, obs *observability.Observability, logger *zap.Logger) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
		defer metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()

		start := time.Now()
		err := handler.Handle(client, job)
		elapsed := time.Since(start)

		status := "completed"
		if err != nil {
			status = "failed"
			code := apperrors.AsStandardError(err).Code
			metrics.WorkerJobsFailed.WithLabelValues(taskType, string(code)).Inc()
			logger.Debug("handler returned error",
				zap.String("taskType", taskType),
				zap.Int64("jobKey", job.Key),
				zap.String("errorCode", string(code)),
			)
		} else {
			metrics.WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		}

		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
		obs.RecordJobProcessed(context.Background(), taskType, status)
		obs.RecordJobDuration(context.Background(), taskType, elapsed, status)
	}
}
