package jobs

import (
	"context"
	"log/slog"

	"ordering/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// IdempotencyPurgeJob manages the scheduled removal of expired idempotency
// records. Runs hourly; expiry is advisory housekeeping, so a missed run
// only delays cleanup.
type IdempotencyPurgeJob struct {
	handler commands.PurgeIdempotencyCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewIdempotencyPurgeJob creates a new job for purging expired idempotency records.
func NewIdempotencyPurgeJob(
	handler commands.PurgeIdempotencyCommandHandler, logger *slog.Logger,
) *IdempotencyPurgeJob {
	return &IdempotencyPurgeJob{
		handler: handler,
		cron:    cron.New(),
		logger:  logger.With("component", "idempotency_purge_job"),
	}
}

// Start begins the purge job on an hourly schedule.
func (j *IdempotencyPurgeJob) Start() error {
	_, err := j.cron.AddFunc("@hourly", func() {
		ctx := context.Background()
		cmd := commands.NewPurgeIdempotencyCommand()

		result, handleErr := j.handler.Handle(ctx, cmd)
		if handleErr != nil {
			j.logger.ErrorContext(ctx, "Idempotency purge job failed", "error", handleErr)
			return
		}

		if result.Deleted > 0 {
			j.logger.InfoContext(ctx, "Purged expired idempotency records", "deleted", result.Deleted)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Idempotency purge job started (running hourly)")
	return nil
}

// Stop stops the purge job.
func (j *IdempotencyPurgeJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Idempotency purge job stopped")
}
