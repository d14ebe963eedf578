package order

import (
	"errors"
	"fmt"

	"ordering/internal/pkg/errs"
)

// ErrInvalidTransition is the sentinel error for status transitions that are
// not listed in the transition table. Use errors.Is to classify, and
// errors.As with *InvalidTransitionError to inspect the offending pair.
var ErrInvalidTransition = errors.New("status transition is not allowed")

// InvalidTransitionError reports a status transition rejected by the
// transition table, naming both the current and the requested status.
type InvalidTransitionError struct {
	From Status
	To   Status
}

// NewInvalidTransitionError creates an InvalidTransitionError for the given pair.
func NewInvalidTransitionError(from, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// Status represents the lifecycle state of an order.
// It implements a state machine with an exhaustive transition table so that
// orders follow the correct business workflow; any status not reachable via
// the table is rejected rather than inferred from surrounding conditionals.
//
// State transitions:
//
//	PendingPayment ──> Confirmed ──> Preparing ──> Ready ──> Completed
//	      │                │             │           │
//	      ├──> PaymentFailed             │           │
//	      ├──> Declined                  │           │
//	      └──> Cancelled <───────────────┴───────────┘
//
// Completed, Cancelled, PaymentFailed, and Declined are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// PendingPayment is the initial status assigned at order creation,
	// while payment confirmation is awaited.
	PendingPayment

	// Confirmed indicates payment succeeded and the store accepted the order.
	Confirmed

	// Preparing indicates the store is assembling the order.
	Preparing

	// Ready indicates the order is assembled and awaiting pickup or handoff.
	Ready

	// Completed indicates the order was fulfilled. Terminal.
	Completed

	// Cancelled indicates the order was cancelled before completion and its
	// stock reservations were released. Terminal.
	Cancelled

	// PaymentFailed indicates payment was rejected. Terminal.
	PaymentFailed

	// Declined indicates the store refused the order. Terminal.
	Declined
)

// getStatusStrings returns a map of Status values to their string representations.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		PendingPayment: "pending_payment",
		Confirmed:      "confirmed",
		Preparing:      "preparing",
		Ready:          "ready",
		Completed:      "completed",
		Cancelled:      "cancelled",
		PaymentFailed:  "payment_failed",
		Declined:       "declined",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		PendingPayment: "pending_payment",
		Confirmed:      "confirmed",
		Preparing:      "preparing",
		Ready:          "ready",
		Completed:      "completed",
		Cancelled:      "cancelled",
		PaymentFailed:  "payment_failed",
		Declined:       "declined",
	}
}

// getAllowedTransitions returns the exhaustive transition table.
// A status absent from the map allows no outgoing transitions (terminal).
func getAllowedTransitions() map[Status][]Status {
	return map[Status][]Status{
		PendingPayment: {Confirmed, Cancelled, PaymentFailed, Declined},
		Confirmed:      {Preparing, Cancelled},
		Preparing:      {Ready, Cancelled},
		Ready:          {Completed, Cancelled},
	}
}

// StatusFromString parses a status from its wire representation
// (e.g., "pending_payment"). Returns an error for unknown strings.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is valid.
// Unknown (0) and any out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, e.g. "pending_payment".
// Invalid values render as "unknown". Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status allows no further transitions.
func (s Status) IsTerminal() bool {
	if err := s.Validate(); err != nil {
		return false
	}
	_, hasTargets := getAllowedTransitions()[s]
	return !hasTargets
}

// CanTransitionTo reports whether the transition table lists target as
// reachable from s. Re-applying the current status is not a transition and
// returns false; callers treat it as a no-op instead.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range getAllowedTransitions()[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo validates the transition from s to target against the
// transition table and returns the new status.
//
// Returns:
//   - (target, nil) on a valid transition
//   - (Unknown, *InvalidTransitionError) if the table does not allow it
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}

	if !s.CanTransitionTo(target) {
		return Unknown, NewInvalidTransitionError(s, target)
	}

	return target, nil
}

// TriggersCompensation reports whether moving from s to target must release
// previously reserved stock. Only cancellation of a live order does: entering
// Cancelled from any non-terminal state restores the order's full original
// line-item quantities.
func (s Status) TriggersCompensation(target Status) bool {
	return target == Cancelled && s != Cancelled && !s.IsTerminal()
}
