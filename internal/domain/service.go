package domain

import (
	"context"

	"github.com/google/uuid"
)

// QuoteService is the price oracle: an external, untrusted source of current
// market prices, consulted only for display. Implementations must bound every
// lookup with a timeout and report ErrPriceUnavailable on any failure,
// unknown symbols included; they never fail for business reasons.
type QuoteService interface {
	// GetQuote returns the current price for a symbol.
	GetQuote(ctx context.Context, symbol string) (float64, error)

	// GetQuotes returns prices for multiple symbols. Symbols whose price
	// could not be fetched are simply missing from the result map.
	GetQuotes(ctx context.Context, symbols []string) map[string]float64
}

// LedgerService applies buy/sell commands to the position store under the
// ledger rules: atomic per-symbol read-modify-write, weighted-average
// recomputation on buy, no oversell, exact-zero liquidation.
type LedgerService interface {
	// Buy records a purchase. Creates the position on the first buy of a
	// symbol, otherwise recomputes the weighted-average price.
	Buy(ctx context.Context, userID uuid.UUID, symbol string, quantity int64, price float64) (*Position, error)

	// Sell records a sale. Returns (nil, nil) when the sale liquidates the
	// position exactly; the updated position on a partial sale.
	Sell(ctx context.Context, userID uuid.UUID, symbol string, quantity int64) (*Position, error)

	// GetPosition retrieves a single position.
	GetPosition(ctx context.Context, userID uuid.UUID, symbol string) (*Position, error)

	// ListPositions retrieves all positions of a user.
	ListPositions(ctx context.Context, userID uuid.UUID) ([]*Position, error)
}

// PortfolioService is the read-only view over the ledger.
type PortfolioService interface {
	// Snapshot computes the live P/L view of a user's portfolio. A symbol
	// whose price is unavailable degrades to its cost basis; it never
	// aborts the snapshot for the rest of the portfolio.
	Snapshot(ctx context.Context, userID uuid.UUID) (*PortfolioSummary, error)
}
