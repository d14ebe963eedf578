package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Everything the engine describes as an atomic unit — stock decrement plus
// order persistence, or status mutation plus compensating stock increment —
// executes inside one unit of work, so the writes become visible together or
// not at all. Client code must explicitly manage the transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current
	// transaction, or to the base connection when none is active.
	OrderRepository() OrderRepository

	// StockRepository returns a StockRepository bound to the current
	// transaction, or to the base connection when none is active.
	StockRepository() StockRepository

	// IdempotencyRepository returns an IdempotencyRepository bound to the
	// current transaction, or to the base connection when none is active.
	// Claiming a key deliberately happens before Begin, so the in-progress
	// marker is visible to concurrent duplicates immediately.
	IdempotencyRepository() IdempotencyRepository
}
