// Package queries contains read-only operations for the ordering system.
// Implements the Query side of the CQRS architecture: handlers read the
// database directly with raw SQL and return plain response structures,
// bypassing the domain aggregates.
package queries

import (
	"errors"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery retrieves one order with its line items and status history.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID)
//	if err != nil {
//	    return err
//	}
//
//	handler := NewGetOrderQueryHandler(db)
//	response, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get order: %w", err)
//	}
//
//	fmt.Printf("Order %s is %s\n", response.ID, response.Status)
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query to retrieve one order by id.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderQueryIsNotConstructed if validation fails.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the id of the order to retrieve.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryResponse represents the full read model of one order.
type GetOrderQueryResponse struct {
	ID          kernel.UUID
	CustomerID  kernel.UUID
	StoreID     kernel.UUID
	Status      order.Status
	TotalAmount int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Items       []OrderItemResponse
	History     []StatusChangeResponse
}

// OrderItemResponse represents one line item of an order read model.
type OrderItemResponse struct {
	ItemID    kernel.UUID
	Name      string
	UnitPrice int64
	Quantity  int
	Subtotal  int64
}

// StatusChangeResponse represents one entry of an order's status history.
type StatusChangeResponse struct {
	Status     order.Status
	OccurredAt time.Time
	ActorID    kernel.UUID
}
