package jobs

import (
	"fmt"
	"log/slog"

	"ordering/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	idempotencyPurgeJob *IdempotencyPurgeJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	purgeHandler commands.PurgeIdempotencyCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		idempotencyPurgeJob: NewIdempotencyPurgeJob(purgeHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.idempotencyPurgeJob.Start(); err != nil {
		return fmt.Errorf("failed to start idempotency purge job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.idempotencyPurgeJob.Stop()
}
