package commands

import (
	"errors"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

var (
	ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
		"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
	)
)

// UpdateOrderStatusCommand represents an authorized request to move an order
// to a new status. The caller has already checked the actor's permissions.
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	status         order.Status
	actorID        kernel.UUID
	idempotencyKey string

	guard guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand creates a command to change an order's status.
// Validates that the order and actor ids are valid, the requested status is a
// defined one, and the idempotency key is not empty. Whether the transition
// is allowed is decided later, against the loaded order.
func NewUpdateOrderStatusCommand(
	orderID kernel.UUID,
	status order.Status,
	actorID kernel.UUID,
	idempotencyKey string,
) (UpdateOrderStatusCommand, error) {
	statusCommand := UpdateOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		statusCommand.setOrderID(orderID),
		statusCommand.setStatus(status),
		statusCommand.setActorID(actorID),
		statusCommand.setIdempotencyKey(idempotencyKey),
	); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return statusCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateOrderStatusCommandIsNotConstructed if validation fails.
func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

// OrderID returns the order to update.
func (c UpdateOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Status returns the requested status.
func (c UpdateOrderStatusCommand) Status() order.Status {
	return c.status
}

// ActorID returns who requested the change.
func (c UpdateOrderStatusCommand) ActorID() kernel.UUID {
	return c.actorID
}

// IdempotencyKey returns the caller-supplied idempotency key.
func (c UpdateOrderStatusCommand) IdempotencyKey() string {
	return c.idempotencyKey
}

func (c *UpdateOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UpdateOrderStatusCommand) setStatus(status order.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	c.status = status
	return nil
}

func (c *UpdateOrderStatusCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}

func (c *UpdateOrderStatusCommand) setIdempotencyKey(idempotencyKey string) error {
	if idempotencyKey == "" {
		return errs.NewValueIsRequiredError("idempotencyKey")
	}

	c.idempotencyKey = idempotencyKey
	return nil
}
