// Package stock implements the stock ledger's domain model: one StockRecord
// per item holding the quantity currently reservable. Records are only ever
// mutated through the reservation and restoration paths; no other component
// writes stock directly.
package stock

import (
	"errors"
	"fmt"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"
)

var (
	// ErrStockRecordIsNotConstructed is returned when a StockRecord instance was not
	// created through the NewStockRecord or RestoreStockRecord factory methods.
	ErrStockRecordIsNotConstructed = errors.New(
		"StockRecord must be created via NewStockRecord or RestoreStockRecord constructor",
	)

	// ErrInsufficientStock is the sentinel error for reservations that exceed
	// the available quantity. Use errors.Is to classify, and errors.As with
	// *InsufficientStockError to learn which item ran short.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError reports a failed reservation, naming the item that
// ran short and the quantity that was requested. It is a definitive rejection:
// retrying the same request reproduces the same outcome.
type InsufficientStockError struct {
	ItemID    kernel.UUID
	Requested int
}

// NewInsufficientStockError creates an InsufficientStockError for the given item.
func NewInsufficientStockError(itemID kernel.UUID, requested int) *InsufficientStockError {
	return &InsufficientStockError{ItemID: itemID, Requested: requested}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: item %s, requested %d", ErrInsufficientStock, e.ItemID, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// StockRecord holds the current available quantity for one item.
//
// Invariant: available never drops below zero. Reserve fails atomically with
// InsufficientStockError rather than partially decrementing; Restore always
// succeeds and enforces no upper bound (overstock prevention, if desired,
// belongs to a higher-level policy).
type StockRecord struct {
	itemID    kernel.UUID
	available int

	isConstructed bool
}

// NewStockRecord creates a stock record for an item with its initial
// available quantity.
func NewStockRecord(itemID kernel.UUID, available int) (*StockRecord, error) {
	record := &StockRecord{isConstructed: true}

	if err := errors.Join(
		record.setItemID(itemID),
		record.setAvailable(available),
	); err != nil {
		return nil, err
	}

	return record, nil
}

// RestoreStockRecord reconstructs a stock record from persistence.
// Intended for repository implementations only.
func RestoreStockRecord(itemID kernel.UUID, available int) (*StockRecord, error) {
	return NewStockRecord(itemID, available)
}

// Validate ensures the StockRecord was created via a factory method.
func (s *StockRecord) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrStockRecordIsNotConstructed
	}
	return nil
}

// ItemID returns the identifier of the item this record tracks.
func (s *StockRecord) ItemID() kernel.UUID {
	return s.itemID
}

// Available returns the quantity currently reservable.
func (s *StockRecord) Available() int {
	return s.available
}

// Reserve decrements the available quantity by the requested amount.
// Fails with InsufficientStockError when available < quantity; the record is
// left unchanged in that case.
func (s *StockRecord) Reserve(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	if s.available < quantity {
		return NewInsufficientStockError(s.itemID, quantity)
	}

	s.available -= quantity
	return nil
}

// Restore increments the available quantity by the given amount.
// Used by the cancellation compensation path; always succeeds for a
// positive quantity.
func (s *StockRecord) Restore(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	s.available += quantity
	return nil
}

func (s *StockRecord) setItemID(itemID kernel.UUID) error {
	if err := itemID.Validate(); err != nil {
		return err
	}
	s.itemID = itemID
	return nil
}

func (s *StockRecord) setAvailable(available int) error {
	if available < 0 {
		return errs.NewValueIsInvalidErrorWithCause("available",
			fmt.Errorf("%d is negative", available))
	}
	s.available = available
	return nil
}
