package commands

import (
	"context"
	"time"
)

// PurgeIdempotencyResult reports how many expired records were removed.
type PurgeIdempotencyResult struct {
	Deleted int64
}

// PurgeIdempotencyCommandHandler removes idempotency records whose
// retention window has passed. Runs as a single delete statement on the
// base connection; no transaction is needed.
type PurgeIdempotencyCommandHandler struct {
	uowFactory IdempotencyUoWFactory
}

// NewPurgeIdempotencyCommandHandler creates a handler for idempotency housekeeping.
func NewPurgeIdempotencyCommandHandler(uowFactory IdempotencyUoWFactory) PurgeIdempotencyCommandHandler {
	return PurgeIdempotencyCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle deletes every idempotency record that expired before now.
// Records still in progress are removed too once expired: their holder
// exceeded the retention window and the key must become claimable again.
func (h *PurgeIdempotencyCommandHandler) Handle(ctx context.Context, cmd PurgeIdempotencyCommand) (PurgeIdempotencyResult, error) {
	if err := cmd.Validate(); err != nil {
		return PurgeIdempotencyResult{}, err
	}

	uow := h.uowFactory.Create()

	deleted, err := uow.IdempotencyRepository().DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		return PurgeIdempotencyResult{}, err
	}

	return PurgeIdempotencyResult{Deleted: deleted}, nil
}
