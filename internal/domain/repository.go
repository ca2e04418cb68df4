package domain

import (
	"context"

	"github.com/google/uuid"
)

// PositionRepository is the position store: a durable mapping from
// (user, symbol) to Position. Implementations must return
// ErrPositionNotFound for absent entries and wrap any other failure in a
// StorageError so the ledger can tell "absent" apart from "unavailable".
type PositionRepository interface {
	// GetBySymbol retrieves the position a user holds in a symbol.
	GetBySymbol(ctx context.Context, userID uuid.UUID, symbol string) (*Position, error)

	// Upsert inserts the position or replaces it by (user, symbol) key.
	// No partial updates are exposed: callers write whole positions.
	Upsert(ctx context.Context, position *Position) error

	// Delete removes the position. Deleting an absent entry is a no-op
	// success (idempotent).
	Delete(ctx context.Context, userID uuid.UUID, symbol string) error

	// GetByUserID retrieves all positions of a user. Used by the read-only
	// portfolio view; ordering is not significant to correctness.
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*Position, error)
}

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// Create creates a new user.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByUsername retrieves a user by username.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// GetAll retrieves all users.
	GetAll(ctx context.Context) ([]*User, error)
}
