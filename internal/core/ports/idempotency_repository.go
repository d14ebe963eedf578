package ports

import (
	"context"
	"time"

	"ordering/internal/core/domain/model/idempotency"
)

// IdempotencyRepository defines the persistence contract for idempotency
// records. One durable record per key; the uniqueness constraint on the key
// is what closes the race between concurrent requests bearing the same key.
type IdempotencyRepository interface {
	// Claim atomically registers the in-progress record under its key
	// (check-and-insert). When the key is free, or held only by a failed or
	// expired record, the claim wins and (nil, nil) is returned. When
	// another record holds the key, that record is returned so the caller
	// can replay a completed result or report the operation as in progress.
	// If concurrent requests race to claim the same key, exactly one wins.
	Claim(ctx context.Context, record *idempotency.Record) (*idempotency.Record, error)

	// Update persists the record's current state, typically to finalize it
	// as completed or failed.
	Update(ctx context.Context, record *idempotency.Record) error

	// Get retrieves the record for a key. Returns errs.ObjectNotFoundError
	// when the key has never been claimed.
	Get(ctx context.Context, key string) (*idempotency.Record, error)

	// DeleteExpired removes records whose retention window ended before the
	// given time and reports how many were removed. Expiry is advisory
	// housekeeping, not a correctness requirement.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
