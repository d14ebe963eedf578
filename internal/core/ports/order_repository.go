// Package ports defines repository interfaces for the ordering domain.
// These interfaces establish contracts between the domain layer and infrastructure,
// enabling dependency inversion and testability.
package ports

import (
	"context"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// One durable record per order, including its embedded line items and
// append-only status history.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate: the current
	// status, the refreshed updatedAt, and any newly appended status-history
	// entries. Line items are immutable and are not touched.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier, complete
	// with line items and status history. Returns errs.ObjectNotFoundError
	// when no order holds the id.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
