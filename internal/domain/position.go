package domain

import (
	"time"

	"github.com/google/uuid"
)

// Position represents the aggregated holding of one symbol for a user:
// the quantity currently held and the weighted-average cost per share.
// A position only exists while quantity > 0; full liquidation deletes it.
type Position struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Symbol       string    `json:"symbol"`
	Quantity     int64     `json:"quantity"`
	AveragePrice float64   `json:"average_price"` // cost per share, weighted over shares currently held
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewPosition creates a position from the first buy of a symbol.
func NewPosition(userID uuid.UUID, symbol string, quantity int64, price float64) *Position {
	now := time.Now()
	return &Position{
		ID:           uuid.New(),
		UserID:       userID,
		Symbol:       symbol,
		Quantity:     quantity,
		AveragePrice: price,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ApplyBuy folds an additional purchase into the position, recomputing the
// average price as the quantity-weighted mean of the old cost and the new buy:
//
//	newAvg = (oldQty*oldAvg + qty*price) / (oldQty + qty)
func (p *Position) ApplyBuy(quantity int64, price float64) {
	oldQty := float64(p.Quantity)
	newQty := float64(quantity)
	p.AveragePrice = (oldQty*p.AveragePrice + newQty*price) / (oldQty + newQty)
	p.Quantity += quantity
	p.UpdatedAt = time.Now()
}

// ApplySell reduces the held quantity. The average price is untouched: selling
// does not change the cost basis of the remaining shares. Callers must have
// verified quantity < p.Quantity (a sell of the full quantity deletes the
// position instead of storing quantity zero).
func (p *Position) ApplySell(quantity int64) {
	p.Quantity -= quantity
	p.UpdatedAt = time.Now()
}

// TotalInvested returns the cost basis of the whole position.
func (p *Position) TotalInvested() float64 {
	return float64(p.Quantity) * p.AveragePrice
}
