package services

import (
	"context"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
)

// StockLedger is the minimal stock contract the coordinator needs.
// ports.StockRepository satisfies it; tests may substitute lighter fakes.
// Both operations execute as part of the caller's enclosing atomic unit —
// they are not independently transactional.
type StockLedger interface {
	// Reserve decrements the available quantity for an item, failing with
	// stock.InsufficientStockError when not enough is available. It never
	// partially decrements.
	Reserve(ctx context.Context, itemID kernel.UUID, quantity int) error

	// Restore increments the available quantity for an item. It always
	// succeeds barring storage failure.
	Restore(ctx context.Context, itemID kernel.UUID, quantity int) error
}

// ReservationCoordinator is a domain service that reserves or releases stock
// for a whole set of order line items as one all-or-nothing operation.
//
// The coordinator only expresses the intended atomic unit; it does not
// implement locking or rollback itself. Callers must invoke it inside an
// open transaction (unit of work) so that a mid-set failure discards the
// reservations already applied earlier in the same call. Line items are
// processed in request order, which has no semantic effect beyond
// determinism since the whole operation is atomic.
//
// Example usage:
//
//	coordinator := services.NewReservationCoordinator()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := coordinator.ReserveAll(ctx, uow.StockRepository(), items); err != nil {
//	    // rollback discards any partial reservations
//	    return err
//	}
//	// ... persist the order, then commit
type ReservationCoordinator struct{}

// NewReservationCoordinator creates a new ReservationCoordinator instance.
func NewReservationCoordinator() ReservationCoordinator {
	return ReservationCoordinator{}
}

// ReserveAll reserves stock for every line item, in request order.
// The first failing reservation aborts the loop and its error — a
// stock.InsufficientStockError naming the item, or a storage error — is
// returned unchanged; the enclosing atomic unit is responsible for rolling
// back reservations already applied.
func (c ReservationCoordinator) ReserveAll(ctx context.Context, ledger StockLedger, items []order.LineItem) error {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}

		if err := ledger.Reserve(ctx, item.ItemID(), item.Quantity()); err != nil {
			return err
		}
	}

	return nil
}

// RestoreAll releases the reservations for every line item, in request
// order. This is the compensation path used when an order is cancelled: each
// item's full original quantity is restored. It fails only on storage errors.
func (c ReservationCoordinator) RestoreAll(ctx context.Context, ledger StockLedger, items []order.LineItem) error {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}

		if err := ledger.Restore(ctx, item.ItemID(), item.Quantity()); err != nil {
			return err
		}
	}

	return nil
}
