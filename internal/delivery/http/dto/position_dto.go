package dto

import (
	"time"

	"stockfolio/internal/domain"
)

// BuyRequest represents a buy order payload
type BuyRequest struct {
	Symbol   string  `json:"symbol" validate:"required"`
	Quantity int64   `json:"quantity" validate:"required,gt=0"`
	Price    float64 `json:"price" validate:"required,gt=0"`
}

// SellRequest represents a sell order payload
type SellRequest struct {
	Symbol   string `json:"symbol" validate:"required"`
	Quantity int64  `json:"quantity" validate:"required,gt=0"`
}

// PositionOutput represents a position in API responses
type PositionOutput struct {
	ID           string  `json:"id"`
	Symbol       string  `json:"symbol"`
	Quantity     int64   `json:"quantity"`
	AveragePrice float64 `json:"average_price"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// SellOutput represents the result of a sell order. Position is nil when the
// sale liquidated the whole holding.
type SellOutput struct {
	Liquidated bool            `json:"liquidated"`
	Position   *PositionOutput `json:"position,omitempty"`
}

// NewPositionOutput maps a domain position to its API shape
func NewPositionOutput(p *domain.Position) *PositionOutput {
	return &PositionOutput{
		ID:           p.ID.String(),
		Symbol:       p.Symbol,
		Quantity:     p.Quantity,
		AveragePrice: p.AveragePrice,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    p.UpdatedAt.Format(time.RFC3339),
	}
}
