package commands

import (
	"context"
	"fmt"

	"ordering/internal/core/domain/model/idempotency"
	"ordering/internal/core/ports"
)

// Idempotency key scopes, one per logical operation type, so the same
// caller-supplied key cannot collide across operations.
const (
	createOrderScope       = "create-order"
	updateOrderStatusScope = "update-order-status"
)

// scopedKey prefixes a caller-supplied idempotency key with its operation scope.
func scopedKey(scope, key string) string {
	return fmt.Sprintf("%s:%s", scope, key)
}

// finalizeFailed marks the claimed key as failed so a later retry may claim
// it again. It writes through the given repository, which the handlers
// obtain before Begin so the finalization survives the rolled-back
// transaction. Best effort: if the store is unreachable the claim is left to
// expire and be retaken.
func finalizeFailed(ctx context.Context, repo ports.IdempotencyRepository, record *idempotency.Record) {
	failed, err := idempotency.RestoreRecord(
		record.Key(), idempotency.StatusFailed, "", record.CreatedAt(), record.ExpiresAt(),
	)
	if err != nil {
		return
	}

	_ = repo.Update(ctx, failed)
}
