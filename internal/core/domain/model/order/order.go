package order

import (
	"errors"
	"fmt"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
)

// Order represents a customer order in the system. It is the aggregate root
// that manages the order lifecycle from creation through payment, preparation,
// and completion or cancellation.
//
// Order follows these invariants:
//   - Must have valid unique, customer, and store identifiers
//   - Must have at least one line item; line items are immutable after creation
//   - totalAmount is the sum of line-item subtotals, computed once at creation
//     and never recomputed
//   - Status changes only through transitions listed in the transition table
//   - statusHistory is append-only, holds one entry per successful transition
//     plus the creation entry, and its last entry always matches the current
//     status
//
// The Order struct uses private fields to ensure encapsulation and maintains
// its invariants through validated methods.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// customerID references the customer who placed the order
	customerID kernel.UUID

	// storeID references the store fulfilling the order
	storeID kernel.UUID

	// items is the immutable, ordered set of line items
	items []LineItem

	// totalAmount is the order total in minor currency units, fixed at creation
	totalAmount int64

	// status is the current state in the order lifecycle
	status Status

	// statusHistory is the append-only audit trail of status changes
	statusHistory []StatusChange

	// createdAt is when the order was placed
	createdAt time.Time

	// updatedAt is refreshed on every persisted mutation
	updatedAt time.Time

	// isConstructed ensures the order was created via a factory method
	isConstructed bool
}

// NewOrder creates a new Order with initial status PendingPayment and the
// creation entry already appended to the status history, actored by the
// customer placing the order.
//
// Parameters:
//   - id: unique identifier for the order (must be a valid UUID)
//   - customerID: the customer placing the order
//   - storeID: the store fulfilling the order
//   - items: at least one validated line item, kept in request order
//   - now: creation timestamp, recorded in createdAt, updatedAt, and the
//     first history entry
//
// Returns:
//   - *Order: the created order if all validations pass
//   - error: validation error if any parameter is invalid
//
// The total amount is computed here, once, as the sum of line-item subtotals.
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	storeID kernel.UUID,
	items []LineItem,
	now time.Time,
) (*Order, error) {
	order := &Order{isConstructed: true}

	if err := errors.Join(
		order.setID(id),
		order.setCustomerID(customerID),
		order.setStoreID(storeID),
		order.setItems(items),
		order.setTimestamps(now),
	); err != nil {
		return nil, err
	}

	order.totalAmount = 0
	for _, item := range order.items {
		order.totalAmount += item.Subtotal()
	}

	creation, err := NewStatusChange(PendingPayment, now, customerID)
	if err != nil {
		return nil, err
	}

	order.status = PendingPayment
	order.statusHistory = []StatusChange{creation}

	return order, nil
}

// RestoreOrder reconstructs an Order from persistence without re-running
// creation logic. It enforces the aggregate invariants on the restored state:
// the history must be non-empty and its last entry must match the current
// status.
//
// This is intended for repository implementations only; application code
// creates orders via NewOrder.
func RestoreOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	storeID kernel.UUID,
	items []LineItem,
	totalAmount int64,
	status Status,
	statusHistory []StatusChange,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	order := &Order{isConstructed: true}

	if err := errors.Join(
		order.setID(id),
		order.setCustomerID(customerID),
		order.setStoreID(storeID),
		order.setItems(items),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	if totalAmount < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("totalAmount",
			fmt.Errorf("%d is negative", totalAmount))
	}

	if createdAt.IsZero() || updatedAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("timestamps")
	}

	if len(statusHistory) == 0 {
		return nil, errs.NewValueIsRequiredError("statusHistory")
	}
	for _, change := range statusHistory {
		if err := change.Validate(); err != nil {
			return nil, err
		}
	}
	if last := statusHistory[len(statusHistory)-1].Status(); last != status {
		return nil, errs.NewValueIsInvalidErrorWithCause("statusHistory",
			fmt.Errorf("last history entry is %s but status is %s", last, status))
	}

	order.totalAmount = totalAmount
	order.status = status
	order.statusHistory = append([]StatusChange(nil), statusHistory...)
	order.createdAt = createdAt
	order.updatedAt = updatedAt

	return order, nil
}

// Validate ensures the Order instance was properly constructed through a
// factory method. This prevents bypassing validation by directly
// instantiating the struct.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the identifier of the customer who placed the order.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// StoreID returns the identifier of the store fulfilling the order.
func (o *Order) StoreID() kernel.UUID {
	return o.storeID
}

// Items returns the order's line items in request order.
// The returned slice is a copy; the aggregate's items are immutable.
func (o *Order) Items() []LineItem {
	return append([]LineItem(nil), o.items...)
}

// TotalAmount returns the order total in minor currency units,
// fixed at creation.
func (o *Order) TotalAmount() int64 {
	return o.totalAmount
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// StatusHistory returns a copy of the append-only status history.
// Its length always equals the number of successful transitions plus one
// (the creation entry), and its last entry matches Status().
func (o *Order) StatusHistory() []StatusChange {
	return append([]StatusChange(nil), o.statusHistory...)
}

// CreatedAt returns when the order was placed.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns when the order was last mutated.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// ChangeStatus applies a requested status transition to the order.
//
// Re-requesting the status the order already holds is treated as an
// idempotent no-op success (changed = false, no history entry) so that
// retried status-update calls succeed. Otherwise the transition is validated
// against the transition table; on success a history entry is appended,
// the status is set, and updatedAt is refreshed.
//
// Parameters:
//   - target: the requested status
//   - actorID: who requested the change, recorded in the history entry
//   - now: timestamp for the history entry and updatedAt
//
// Returns:
//   - (true, nil) when the transition was applied
//   - (false, nil) when target equals the current status
//   - (false, *InvalidTransitionError) when the table forbids the transition;
//     the order is left unmodified
func (o *Order) ChangeStatus(target Status, actorID kernel.UUID, now time.Time) (bool, error) {
	if err := actorID.Validate(); err != nil {
		return false, err
	}
	if now.IsZero() {
		return false, errs.NewValueIsRequiredError("now")
	}

	if err := target.Validate(); err != nil {
		return false, err
	}

	if target == o.status {
		return false, nil
	}

	newStatus, err := o.status.TransitionTo(target)
	if err != nil {
		return false, err
	}

	change, err := NewStatusChange(newStatus, now, actorID)
	if err != nil {
		return false, err
	}

	o.status = newStatus
	o.statusHistory = append(o.statusHistory, change)
	o.updatedAt = now
	return true, nil
}

// setID validates and sets the order's unique identifier.
// This is a private method used only during construction.
func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

// setCustomerID validates and sets the customer reference.
func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return fmt.Errorf("customerID: %w", err)
	}
	o.customerID = customerID
	return nil
}

// setStoreID validates and sets the store reference.
func (o *Order) setStoreID(storeID kernel.UUID) error {
	if err := storeID.Validate(); err != nil {
		return fmt.Errorf("storeID: %w", err)
	}
	o.storeID = storeID
	return nil
}

// setItems validates and copies the line items, preserving request order.
func (o *Order) setItems(items []LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = append([]LineItem(nil), items...)
	return nil
}

func (o *Order) setTimestamps(now time.Time) error {
	if now.IsZero() {
		return errs.NewValueIsRequiredError("now")
	}
	o.createdAt = now
	o.updatedAt = now
	return nil
}
