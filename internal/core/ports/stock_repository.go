package ports

import (
	"context"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/stock"
)

// StockRepository defines the persistence contract for the stock ledger.
// Reserve and Restore are the only mutation paths for stock quantities; they
// run within the caller's enclosing transaction when obtained from a unit of
// work, so a set of reservations either commits as a whole or not at all.
//
// The store's own compare-and-swap mechanism serializes concurrent
// reservations against the same item: two reservations cannot both succeed
// when only one has sufficient quantity.
type StockRepository interface {
	// Reserve atomically decrements the available quantity for an item.
	// Fails with stock.InsufficientStockError when available < quantity,
	// without partially decrementing. An item with no stock record is
	// treated as having zero available.
	Reserve(ctx context.Context, itemID kernel.UUID, quantity int) error

	// Restore atomically increments the available quantity for an item.
	// Used only by the cancellation compensation path; always succeeds
	// barring storage failure.
	Restore(ctx context.Context, itemID kernel.UUID, quantity int) error

	// Get retrieves the stock record for an item. Returns
	// errs.ObjectNotFoundError when the item has no record.
	Get(ctx context.Context, itemID kernel.UUID) (*stock.StockRecord, error)

	// Add persists a new stock record. Used when introducing an item to the
	// ledger, not by the reservation paths.
	Add(ctx context.Context, record *stock.StockRecord) error
}
