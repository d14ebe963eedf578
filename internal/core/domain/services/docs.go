// Package services contains domain services for the ordering system.
//
// Domain services implement business logic that spans aggregates and does
// not naturally belong to a single one. The package currently provides the
// ReservationCoordinator, which turns a set of per-item stock reservations
// into one all-or-nothing operation inside the caller's atomic unit, and its
// inverse used for cancellation compensation.
package services
