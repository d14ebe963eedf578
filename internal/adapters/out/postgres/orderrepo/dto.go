// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The order row carries the scalar state; line items and status history live
// in child tables keyed by the order id so the aggregate loads as one unit.
type OrderDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID  uuid.UUID `gorm:"type:uuid;index"`
	StoreID     uuid.UUID `gorm:"type:uuid;index"`
	TotalAmount int64
	Status      int `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items   []OrderItemDTO    `gorm:"foreignKey:OrderID;references:ID"`
	History []StatusChangeDTO `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO represents one order line item. Position preserves request
// order; line items are written once at order creation and never updated.
type OrderItemDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position  int       `gorm:"primaryKey"`
	ItemID    uuid.UUID `gorm:"type:uuid;index"`
	Name      string
	UnitPrice int64
	Quantity  int
}

// TableName specifies the database table name for order line items.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

// StatusChangeDTO represents one entry of the append-only status history.
// Seq preserves chronological order within an order.
type StatusChangeDTO struct {
	OrderID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq        int       `gorm:"primaryKey"`
	Status     int
	OccurredAt time.Time
	ActorID    uuid.UUID `gorm:"type:uuid"`
}

// TableName specifies the database table name for order status history.
func (StatusChangeDTO) TableName() string {
	return "order_status_changes"
}

// fromDomain converts an order domain aggregate to its database representation.
// Child rows carry their positional keys so appends are deterministic.
func fromDomain(aggregate *order.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(aggregate.Items()))
	for i, item := range aggregate.Items() {
		items = append(items, OrderItemDTO{
			OrderID:   aggregate.ID().Bytes(),
			Position:  i,
			ItemID:    item.ItemID().Bytes(),
			Name:      item.Name(),
			UnitPrice: item.UnitPrice(),
			Quantity:  item.Quantity(),
		})
	}

	history := make([]StatusChangeDTO, 0, len(aggregate.StatusHistory()))
	for i, change := range aggregate.StatusHistory() {
		history = append(history, StatusChangeDTO{
			OrderID:    aggregate.ID().Bytes(),
			Seq:        i,
			Status:     int(change.Status()),
			OccurredAt: change.OccurredAt(),
			ActorID:    change.ActorID().Bytes(),
		})
	}

	return OrderDTO{
		ID:          aggregate.ID().Bytes(),
		CustomerID:  aggregate.CustomerID().Bytes(),
		StoreID:     aggregate.StoreID().Bytes(),
		TotalAmount: aggregate.TotalAmount(),
		Status:      int(aggregate.Status()),
		CreatedAt:   aggregate.CreatedAt(),
		UpdatedAt:   aggregate.UpdatedAt(),
		Items:       items,
		History:     history,
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including line items and status history
// using RestoreOrder; child rows must already be loaded in key order.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	storeID, err := kernel.UUIDFromBytes(dto.StoreID[:])
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		itemID, itemErr := kernel.UUIDFromBytes(itemDTO.ItemID[:])
		if itemErr != nil {
			return nil, itemErr
		}

		item, itemErr := order.NewLineItem(itemID, itemDTO.Name, itemDTO.UnitPrice, itemDTO.Quantity)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	history := make([]order.StatusChange, 0, len(dto.History))
	for _, changeDTO := range dto.History {
		actorID, changeErr := kernel.UUIDFromBytes(changeDTO.ActorID[:])
		if changeErr != nil {
			return nil, changeErr
		}

		change, changeErr := order.NewStatusChange(
			order.Status(changeDTO.Status), changeDTO.OccurredAt, actorID,
		)
		if changeErr != nil {
			return nil, changeErr
		}
		history = append(history, change)
	}

	return order.RestoreOrder(
		id, customerID, storeID, items,
		dto.TotalAmount, order.Status(dto.Status), history,
		dto.CreatedAt, dto.UpdatedAt,
	)
}
