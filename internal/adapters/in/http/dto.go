package http

import (
	"time"

	"ordering/internal/core/application/usecases/queries"
	"ordering/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// Error is the JSON body returned for every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreateOrderRequest is the JSON body of POST /api/v1/orders.
// The idempotency key ties retries of the same logical request together.
type CreateOrderRequest struct {
	CustomerID     uuid.UUID             `json:"customer_id"`
	StoreID        uuid.UUID             `json:"store_id"`
	Items          []CreateOrderItemBody `json:"items"`
	IdempotencyKey string                `json:"idempotency_key"`
}

// CreateOrderItemBody is one requested line item.
type CreateOrderItemBody struct {
	ItemID    uuid.UUID `json:"item_id"`
	Name      string    `json:"name"`
	UnitPrice int64     `json:"unit_price"`
	Quantity  int       `json:"quantity"`
}

// UpdateOrderStatusRequest is the JSON body of PATCH /api/v1/orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status         string    `json:"status"`
	ActorID        uuid.UUID `json:"actor_id"`
	IdempotencyKey string    `json:"idempotency_key"`
}

// Order is the JSON representation of a full order.
type Order struct {
	ID          uuid.UUID      `json:"id"`
	CustomerID  uuid.UUID      `json:"customer_id"`
	StoreID     uuid.UUID      `json:"store_id"`
	Status      string         `json:"status"`
	TotalAmount int64          `json:"total_amount"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Items       []OrderItem    `json:"items"`
	History     []StatusChange `json:"status_history"`
}

// OrderItem is the JSON representation of one line item.
type OrderItem struct {
	ItemID    uuid.UUID `json:"item_id"`
	Name      string    `json:"name"`
	UnitPrice int64     `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	Subtotal  int64     `json:"subtotal"`
}

// StatusChange is the JSON representation of one status history entry.
type StatusChange struct {
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
	ActorID    uuid.UUID `json:"actor_id"`
}

// OrderSummary is the JSON representation of one order in a listing.
type OrderSummary struct {
	ID          uuid.UUID `json:"id"`
	CustomerID  uuid.UUID `json:"customer_id"`
	StoreID     uuid.UUID `json:"store_id"`
	Status      string    `json:"status"`
	TotalAmount int64     `json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`
}

// orderFromAggregate maps a domain order onto its JSON representation.
func orderFromAggregate(aggregate *order.Order) Order {
	items := make([]OrderItem, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, OrderItem{
			ItemID:    item.ItemID().Bytes(),
			Name:      item.Name(),
			UnitPrice: item.UnitPrice(),
			Quantity:  item.Quantity(),
			Subtotal:  item.Subtotal(),
		})
	}

	history := make([]StatusChange, 0, len(aggregate.StatusHistory()))
	for _, change := range aggregate.StatusHistory() {
		history = append(history, StatusChange{
			Status:     change.Status().String(),
			OccurredAt: change.OccurredAt(),
			ActorID:    change.ActorID().Bytes(),
		})
	}

	return Order{
		ID:          aggregate.ID().Bytes(),
		CustomerID:  aggregate.CustomerID().Bytes(),
		StoreID:     aggregate.StoreID().Bytes(),
		Status:      aggregate.Status().String(),
		TotalAmount: aggregate.TotalAmount(),
		CreatedAt:   aggregate.CreatedAt(),
		UpdatedAt:   aggregate.UpdatedAt(),
		Items:       items,
		History:     history,
	}
}

// orderFromReadModel maps a query read model onto its JSON representation.
func orderFromReadModel(model queries.GetOrderQueryResponse) Order {
	items := make([]OrderItem, 0, len(model.Items))
	for _, item := range model.Items {
		items = append(items, OrderItem{
			ItemID:    item.ItemID.Bytes(),
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal,
		})
	}

	history := make([]StatusChange, 0, len(model.History))
	for _, change := range model.History {
		history = append(history, StatusChange{
			Status:     change.Status.String(),
			OccurredAt: change.OccurredAt,
			ActorID:    change.ActorID.Bytes(),
		})
	}

	return Order{
		ID:          model.ID.Bytes(),
		CustomerID:  model.CustomerID.Bytes(),
		StoreID:     model.StoreID.Bytes(),
		Status:      model.Status.String(),
		TotalAmount: model.TotalAmount,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
		Items:       items,
		History:     history,
	}
}
