package camunda

import (
	"context"
	"fmt"

	apperrors "shopping-assistant/internal/common/errors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// CompleteJob sends output as the job's result variables.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return apperrors.NewInternalError(fmt.Errorf("encode job output: %w", err))
	}

	if _, err := cmd.Send(ctx); err != nil {
		return apperrors.NewExternalServiceError("zeebe", err)
	}
	return nil
}
