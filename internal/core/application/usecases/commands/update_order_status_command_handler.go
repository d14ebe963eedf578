package commands

import (
	"context"
	"time"

	"ordering/internal/core/domain/model/idempotency"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/services"
)

// UpdateOrderStatusResult reports the outcome of a status update.
// Replayed marks the stored outcome of an earlier call with the same
// idempotency key; StatusChanged is false when the order already held the
// requested status (idempotent no-op).
type UpdateOrderStatusResult struct {
	Order         *order.Order
	Replayed      bool
	StatusChanged bool
}

// UpdateOrderStatusCommandHandler enforces the order state machine and runs
// cancellation compensation.
//
// Status mutation, history append, and — when the target is cancelled — the
// compensating stock restoration execute in one transaction, so the status
// write and the stock increments are never observably separated. The
// idempotency guard makes a retried cancel restore stock exactly once.
type UpdateOrderStatusCommandHandler struct {
	uowFactory  OrderUoWFactory
	coordinator services.ReservationCoordinator
	retention   time.Duration
}

// NewUpdateOrderStatusCommandHandler creates a handler for order status updates.
func NewUpdateOrderStatusCommandHandler(
	uowFactory OrderUoWFactory, retention time.Duration,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory:  uowFactory,
		coordinator: services.NewReservationCoordinator(),
		retention:   retention,
	}
}

// Handle processes the status update command.
//
// Flow:
//  1. Claim the idempotency key (base connection, before the transaction).
//     A completed claim replays the stored outcome; a live claim fails with
//     idempotency.OperationInProgressError.
//  2. Inside one transaction: load the order; a same-status request succeeds
//     as a no-op; otherwise the transition is validated against the state
//     machine, the history entry appended, and — when entering cancelled —
//     every line item's original quantity restored to stock.
//  3. Invalid transitions and missing orders mutate nothing; the claim is
//     finalized as failed so the caller may correct and retry.
func (h *UpdateOrderStatusCommandHandler) Handle(
	ctx context.Context, cmd UpdateOrderStatusCommand,
) (UpdateOrderStatusResult, error) {
	if err := cmd.Validate(); err != nil {
		return UpdateOrderStatusResult{}, err
	}

	uow := h.uowFactory.Create()
	guard := uow.IdempotencyRepository()

	record, err := idempotency.NewRecord(
		scopedKey(updateOrderStatusScope, cmd.IdempotencyKey()), time.Now().UTC(), h.retention,
	)
	if err != nil {
		return UpdateOrderStatusResult{}, err
	}

	existing, err := guard.Claim(ctx, record)
	if err != nil {
		return UpdateOrderStatusResult{}, err
	}
	if existing != nil {
		return h.replay(ctx, uow, existing)
	}

	if err = uow.Begin(ctx); err != nil {
		finalizeFailed(ctx, guard, record)
		return UpdateOrderStatusResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		finalizeFailed(ctx, guard, record)
		return UpdateOrderStatusResult{}, err
	}

	from := aggregate.Status()
	changed, err := aggregate.ChangeStatus(cmd.Status(), cmd.ActorID(), time.Now().UTC())
	if err != nil {
		finalizeFailed(ctx, guard, record)
		return UpdateOrderStatusResult{}, err
	}

	if changed {
		if err = orderRepo.Update(ctx, aggregate); err != nil {
			finalizeFailed(ctx, guard, record)
			return UpdateOrderStatusResult{}, err
		}

		if from.TriggersCompensation(cmd.Status()) {
			if err = h.coordinator.RestoreAll(ctx, uow.StockRepository(), aggregate.Items()); err != nil {
				finalizeFailed(ctx, guard, record)
				return UpdateOrderStatusResult{}, err
			}
		}
	}

	if err = record.Complete(aggregate.ID().String()); err != nil {
		finalizeFailed(ctx, guard, record)
		return UpdateOrderStatusResult{}, err
	}

	if err = uow.IdempotencyRepository().Update(ctx, record); err != nil {
		finalizeFailed(ctx, guard, record)
		return UpdateOrderStatusResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		finalizeFailed(ctx, guard, record)
		return UpdateOrderStatusResult{}, err
	}

	return UpdateOrderStatusResult{Order: aggregate, StatusChanged: changed}, nil
}

// replay resolves a request whose key is already held by another record.
func (h *UpdateOrderStatusCommandHandler) replay(
	ctx context.Context, uow OrderUoW, existing *idempotency.Record,
) (UpdateOrderStatusResult, error) {
	if existing.Status() != idempotency.StatusCompleted {
		return UpdateOrderStatusResult{}, idempotency.NewOperationInProgressError(existing.Key())
	}

	orderID, err := kernel.UUIDFromString(existing.ResultRef())
	if err != nil {
		return UpdateOrderStatusResult{}, err
	}

	loaded, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return UpdateOrderStatusResult{}, err
	}

	return UpdateOrderStatusResult{Order: loaded, Replayed: true}, nil
}
