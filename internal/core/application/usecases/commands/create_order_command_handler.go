package commands

import (
	"context"
	"time"

	"ordering/internal/core/domain/model/idempotency"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/services"
)

// CreateOrderResult reports the outcome of placing an order.
// Replayed distinguishes a fresh creation from the stored outcome of an
// earlier call bearing the same idempotency key.
type CreateOrderResult struct {
	Order    *order.Order
	Replayed bool
}

// CreateOrderCommandHandler handles the business logic for placing an order.
//
// The handler composes the idempotency guard, the reservation coordinator,
// and order persistence into one atomic unit: the order, its stock
// reservations, and the idempotency completion become visible together, or
// not at all. A failed reservation aborts the whole unit without partial
// stock changes.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, 24*time.Hour)
//	cmd, _ := NewCreateOrderCommand(customerID, storeID, items, "req-42")
//
//	result, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, stock.ErrInsufficientStock) {
//	    // definitive rejection; retrying the same request cannot succeed
//	    return err
//	}
type CreateOrderCommandHandler struct {
	uowFactory  OrderUoWFactory
	coordinator services.ReservationCoordinator
	retention   time.Duration
}

// NewCreateOrderCommandHandler creates a handler for order placement.
// Requires an OrderUoWFactory for transactional persistence and the
// retention window for idempotency records.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, retention time.Duration) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory:  uowFactory,
		coordinator: services.NewReservationCoordinator(),
		retention:   retention,
	}
}

// Handle processes the order placement command.
//
// Flow:
//  1. Claim the idempotency key on the base connection, before the
//     transaction, so concurrent duplicates observe the in-progress marker.
//     A completed claim replays the stored order; a live claim fails with
//     idempotency.OperationInProgressError.
//  2. Inside one transaction: reserve stock for every line item in request
//     order, persist the order with initial status pending_payment and its
//     creation history entry, and complete the idempotency record with the
//     new order id.
//  3. On any failure the transaction rolls back — no stock changes, no order
//     — and the claim is finalized as failed so the caller may retry with
//     the same key.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (CreateOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	guard := uow.IdempotencyRepository()

	record, err := idempotency.NewRecord(
		scopedKey(createOrderScope, cmd.IdempotencyKey()), time.Now().UTC(), h.retention,
	)
	if err != nil {
		return CreateOrderResult{}, err
	}

	existing, err := guard.Claim(ctx, record)
	if err != nil {
		return CreateOrderResult{}, err
	}
	if existing != nil {
		return h.replay(ctx, uow, existing)
	}

	if err = uow.Begin(ctx); err != nil {
		finalizeFailed(ctx, guard, record)
		return CreateOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	newOrder, err := order.NewOrder(
		kernel.NewUUID(), cmd.CustomerID(), cmd.StoreID(), cmd.Items(), time.Now().UTC(),
	)
	if err != nil {
		finalizeFailed(ctx, guard, record)
		return CreateOrderResult{}, err
	}

	if err = h.coordinator.ReserveAll(ctx, uow.StockRepository(), newOrder.Items()); err != nil {
		finalizeFailed(ctx, guard, record)
		return CreateOrderResult{}, err
	}

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		finalizeFailed(ctx, guard, record)
		return CreateOrderResult{}, err
	}

	if err = record.Complete(newOrder.ID().String()); err != nil {
		finalizeFailed(ctx, guard, record)
		return CreateOrderResult{}, err
	}

	if err = uow.IdempotencyRepository().Update(ctx, record); err != nil {
		finalizeFailed(ctx, guard, record)
		return CreateOrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		finalizeFailed(ctx, guard, record)
		return CreateOrderResult{}, err
	}

	return CreateOrderResult{Order: newOrder}, nil
}

// replay resolves a request whose key is already held by another record:
// a completed record yields the previously produced order, anything else
// signals the caller to back off and retry later with the same key.
func (h *CreateOrderCommandHandler) replay(
	ctx context.Context, uow OrderUoW, existing *idempotency.Record,
) (CreateOrderResult, error) {
	if existing.Status() != idempotency.StatusCompleted {
		return CreateOrderResult{}, idempotency.NewOperationInProgressError(existing.Key())
	}

	orderID, err := kernel.UUIDFromString(existing.ResultRef())
	if err != nil {
		return CreateOrderResult{}, err
	}

	loaded, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return CreateOrderResult{}, err
	}

	return CreateOrderResult{Order: loaded, Replayed: true}, nil
}
