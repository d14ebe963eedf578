package commands

import (
	"errors"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// CreateOrderCommand represents a validated, authorized request to place an
// order for a set of line items. The caller has already authenticated the
// customer and fixed the prices; the command carries them as given.
//
// Example:
//
//	items := []order.LineItem{item}
//	cmd, err := NewCreateOrderCommand(customerID, storeID, items, "req-42")
//	if err != nil {
//	    return fmt.Errorf("invalid order request: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, 24*time.Hour)
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("failed to place order: %w", err)
//	}
//	fmt.Printf("Order %s placed (replayed=%v)", result.Order.ID(), result.Replayed)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	customerID     kernel.UUID
	storeID        kernel.UUID
	items          []order.LineItem
	idempotencyKey string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new order.
// Validates that customer and store ids are valid, at least one line item is
// present, and the idempotency key is not empty.
func NewCreateOrderCommand(
	customerID kernel.UUID,
	storeID kernel.UUID,
	items []order.LineItem,
	idempotencyKey string,
) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setCustomerID(customerID),
		orderCommand.setStoreID(storeID),
		orderCommand.setItems(items),
		orderCommand.setIdempotencyKey(idempotencyKey),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// CustomerID returns the customer placing the order.
func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// StoreID returns the store fulfilling the order.
func (c CreateOrderCommand) StoreID() kernel.UUID {
	return c.storeID
}

// Items returns the requested line items in request order.
func (c CreateOrderCommand) Items() []order.LineItem {
	return append([]order.LineItem(nil), c.items...)
}

// IdempotencyKey returns the caller-supplied idempotency key.
func (c CreateOrderCommand) IdempotencyKey() string {
	return c.idempotencyKey
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setStoreID(storeID kernel.UUID) error {
	if err := storeID.Validate(); err != nil {
		return err
	}

	c.storeID = storeID
	return nil
}

func (c *CreateOrderCommand) setItems(items []order.LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	c.items = append([]order.LineItem(nil), items...)
	return nil
}

func (c *CreateOrderCommand) setIdempotencyKey(idempotencyKey string) error {
	if idempotencyKey == "" {
		return errs.NewValueIsRequiredError("idempotencyKey")
	}

	c.idempotencyKey = idempotencyKey
	return nil
}
