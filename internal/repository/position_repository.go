package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stockfolio/internal/domain"
)

// PositionRepositoryImpl implements the PositionRepository interface on
// PostgreSQL. Absent rows are reported as domain.ErrPositionNotFound; every
// other failure is wrapped in a domain.StorageError so the ledger never
// mistakes an unreachable store for an empty one.
type PositionRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewPositionRepository creates a new PositionRepository.
func NewPositionRepository(db *pgxpool.Pool) domain.PositionRepository {
	return &PositionRepositoryImpl{db: db}
}

// GetBySymbol retrieves the position a user holds in a symbol.
func (r *PositionRepositoryImpl) GetBySymbol(ctx context.Context, userID uuid.UUID, symbol string) (*domain.Position, error) {
	query := `
		SELECT id, user_id, symbol, quantity, average_price, created_at, updated_at
		FROM positions
		WHERE user_id = $1 AND symbol = $2
	`

	position := &domain.Position{}
	err := r.db.QueryRow(ctx, query, userID, symbol).Scan(
		&position.ID,
		&position.UserID,
		&position.Symbol,
		&position.Quantity,
		&position.AveragePrice,
		&position.CreatedAt,
		&position.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPositionNotFound
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "get position", Err: err}
	}

	return position, nil
}

// Upsert inserts the position or replaces it by (user, symbol) key.
func (r *PositionRepositoryImpl) Upsert(ctx context.Context, position *domain.Position) error {
	query := `
		INSERT INTO positions (
			id, user_id, symbol, quantity, average_price, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		ON CONFLICT (user_id, symbol) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			average_price = EXCLUDED.average_price,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(ctx, query,
		position.ID,
		position.UserID,
		position.Symbol,
		position.Quantity,
		position.AveragePrice,
		position.CreatedAt,
		position.UpdatedAt,
	)

	if err != nil {
		return &domain.StorageError{Op: "upsert position", Err: err}
	}

	return nil
}

// Delete removes the position. Deleting an absent entry succeeds.
func (r *PositionRepositoryImpl) Delete(ctx context.Context, userID uuid.UUID, symbol string) error {
	query := `
		DELETE FROM positions
		WHERE user_id = $1 AND symbol = $2
	`

	_, err := r.db.Exec(ctx, query, userID, symbol)
	if err != nil {
		return &domain.StorageError{Op: "delete position", Err: err}
	}

	return nil
}

// GetByUserID retrieves all positions of a user.
func (r *PositionRepositoryImpl) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Position, error) {
	query := `
		SELECT id, user_id, symbol, quantity, average_price, created_at, updated_at
		FROM positions
		WHERE user_id = $1
		ORDER BY symbol ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, &domain.StorageError{Op: "list positions", Err: err}
	}
	defer rows.Close()

	var positions []*domain.Position
	for rows.Next() {
		position := &domain.Position{}
		err := rows.Scan(
			&position.ID,
			&position.UserID,
			&position.Symbol,
			&position.Quantity,
			&position.AveragePrice,
			&position.CreatedAt,
			&position.UpdatedAt,
		)
		if err != nil {
			return nil, &domain.StorageError{Op: "scan position", Err: err}
		}
		positions = append(positions, position)
	}

	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "iterate positions", Err: err}
	}

	return positions, nil
}
