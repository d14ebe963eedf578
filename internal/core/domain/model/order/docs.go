// Package order implements the Order aggregate for the ordering domain.
//
// The package provides:
//   - Order: The aggregate root managing the order lifecycle and its
//     append-only status history
//   - LineItem: A value object for one (item, quantity, price) entry
//   - StatusChange: A value object recording one status-history entry
//   - Status: A state machine with an exhaustive transition table
//
// Orders move through a defined workflow: pending_payment -> confirmed ->
// preparing -> ready -> completed, with cancellation possible from any
// non-terminal state and payment_failed/declined as terminal outcomes of
// the initial state. Entering cancelled is the only transition that releases
// previously reserved stock; the aggregate exposes this via
// Status.TriggersCompensation so the application layer can run the
// compensating stock restoration in the same atomic unit as the status write.
//
// All types use private fields with constructor validation so that invalid
// orders cannot be represented. Repositories reconstruct aggregates via
// RestoreOrder, which re-checks the invariants on data loaded from storage.
package order
