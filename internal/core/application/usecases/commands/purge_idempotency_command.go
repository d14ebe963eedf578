package commands

import (
	"errors"

	"ordering/internal/pkg/guard"
)

var (
	ErrPurgeIdempotencyCommandIsNotConstructed = errors.New(
		"PurgeIdempotencyCommand must be created via NewPurgeIdempotencyCommand constructor",
	)
)

// PurgeIdempotencyCommand requests removal of idempotency records whose
// retention window has passed. Parameterless; the cutoff is taken at
// execution time.
type PurgeIdempotencyCommand struct {
	guard guard.ConstructorGuard
}

// NewPurgeIdempotencyCommand creates a command to purge expired idempotency records.
func NewPurgeIdempotencyCommand() PurgeIdempotencyCommand {
	return PurgeIdempotencyCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c PurgeIdempotencyCommand) Validate() error {
	return c.guard.Validate(ErrPurgeIdempotencyCommandIsNotConstructed)
}
