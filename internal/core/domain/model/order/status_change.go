package order

import (
	"errors"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"
)

// ErrStatusChangeIsNotConstructed is returned when a StatusChange instance was
// not created through the NewStatusChange factory method.
var ErrStatusChangeIsNotConstructed = errors.New("StatusChange must be created via NewStatusChange constructor")

// StatusChange is a value object recording one entry of an order's
// append-only status history: the status entered, when, and by whom.
type StatusChange struct {
	status     Status
	occurredAt time.Time
	actorID    kernel.UUID

	isConstructed bool
}

// NewStatusChange creates a validated history entry.
func NewStatusChange(status Status, occurredAt time.Time, actorID kernel.UUID) (StatusChange, error) {
	change := StatusChange{isConstructed: true}

	if err := errors.Join(
		change.setStatus(status),
		change.setOccurredAt(occurredAt),
		change.setActorID(actorID),
	); err != nil {
		return StatusChange{}, err
	}

	return change, nil
}

// Validate ensures the StatusChange was created via NewStatusChange.
func (sc StatusChange) Validate() error {
	if !sc.isConstructed {
		return ErrStatusChangeIsNotConstructed
	}
	return nil
}

// Status returns the status entered by this change.
func (sc StatusChange) Status() Status {
	return sc.status
}

// OccurredAt returns when the change was applied.
func (sc StatusChange) OccurredAt() time.Time {
	return sc.occurredAt
}

// ActorID returns who requested the change.
func (sc StatusChange) ActorID() kernel.UUID {
	return sc.actorID
}

func (sc *StatusChange) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	sc.status = status
	return nil
}

func (sc *StatusChange) setOccurredAt(occurredAt time.Time) error {
	if occurredAt.IsZero() {
		return errs.NewValueIsRequiredError("occurredAt")
	}
	sc.occurredAt = occurredAt
	return nil
}

func (sc *StatusChange) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}
	sc.actorID = actorID
	return nil
}
