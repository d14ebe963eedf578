package order

import (
	"errors"
	"fmt"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"
)

// ErrLineItemIsNotConstructed is returned when a LineItem instance was not
// created through the NewLineItem factory method.
var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")

// LineItem is a value object describing one (item, quantity, price) entry
// within an order. Line items are immutable after order creation; cancellation
// and refunds are modeled at the order level only.
//
// Invariants:
//   - itemID must be a valid UUID
//   - name must not be empty
//   - unitPrice is in minor currency units and must not be negative
//   - quantity must be greater than 0
type LineItem struct {
	itemID    kernel.UUID
	name      string
	unitPrice int64
	quantity  int

	isConstructed bool
}

// NewLineItem creates a validated LineItem.
//
// Parameters:
//   - itemID: identifier of the catalog item being ordered
//   - name: display name captured at ordering time
//   - unitPrice: price per unit in minor currency units (must not be negative)
//   - quantity: number of units (must be positive)
//
// Returns the line item, or a joined validation error if any field is invalid.
func NewLineItem(itemID kernel.UUID, name string, unitPrice int64, quantity int) (LineItem, error) {
	item := LineItem{isConstructed: true}

	if err := errors.Join(
		item.setItemID(itemID),
		item.setName(name),
		item.setUnitPrice(unitPrice),
		item.setQuantity(quantity),
	); err != nil {
		return LineItem{}, err
	}

	return item, nil
}

// Validate ensures the LineItem was created via NewLineItem.
func (li LineItem) Validate() error {
	if !li.isConstructed {
		return ErrLineItemIsNotConstructed
	}
	return nil
}

// ItemID returns the identifier of the ordered item.
func (li LineItem) ItemID() kernel.UUID {
	return li.itemID
}

// Name returns the item name captured at ordering time.
func (li LineItem) Name() string {
	return li.name
}

// UnitPrice returns the price per unit in minor currency units.
func (li LineItem) UnitPrice() int64 {
	return li.unitPrice
}

// Quantity returns the number of units ordered.
func (li LineItem) Quantity() int {
	return li.quantity
}

// Subtotal returns unitPrice * quantity in minor currency units.
func (li LineItem) Subtotal() int64 {
	return li.unitPrice * int64(li.quantity)
}

func (li *LineItem) setItemID(itemID kernel.UUID) error {
	if err := itemID.Validate(); err != nil {
		return err
	}
	li.itemID = itemID
	return nil
}

func (li *LineItem) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	li.name = name
	return nil
}

func (li *LineItem) setUnitPrice(unitPrice int64) error {
	if unitPrice < 0 {
		return errs.NewValueIsInvalidErrorWithCause("unitPrice",
			fmt.Errorf("%d is negative", unitPrice))
	}
	li.unitPrice = unitPrice
	return nil
}

func (li *LineItem) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	li.quantity = quantity
	return nil
}
