// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"ordering/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// StockRepoFactory provides access to the stock repository within a transaction.
	StockRepoFactory interface {
		StockRepository() ports.StockRepository
	}

	// IdempotencyRepoFactory provides access to the idempotency repository.
	// Repositories obtained before Begin operate on the base connection,
	// which the lifecycle handlers rely on to claim and finalize idempotency
	// records outside the surrounding transaction.
	IdempotencyRepoFactory interface {
		IdempotencyRepository() ports.IdempotencyRepository
	}

	// OrderUoW manages transactions for the order lifecycle operations,
	// which coordinate orders, stock, and idempotency records in one
	// atomic unit.
	//
	// Example:
	//   uow := factory.Create()
	//   guard := uow.IdempotencyRepository() // base connection, before Begin
	//
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   stockRepo := uow.StockRepository()   // transaction-bound
	//   orderRepo := uow.OrderRepository()   // transaction-bound
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		StockRepoFactory
		IdempotencyRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// IdempotencyUoW provides repository access for idempotency housekeeping,
	// which runs as single statements and needs no transaction management.
	IdempotencyUoW interface {
		IdempotencyRepoFactory
	}

	// IdempotencyUoWFactory creates new idempotency unit of work instances.
	IdempotencyUoWFactory interface {
		Create() IdempotencyUoW
	}
)
