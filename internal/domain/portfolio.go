package domain

// PositionSummary is the live profit/loss view of a single position: the
// stored cost basis blended with the current market price. It is derived,
// never stored.
type PositionSummary struct {
	Symbol            string  `json:"symbol"`
	Quantity          int64   `json:"quantity"`
	AveragePrice      float64 `json:"average_price"`
	CurrentPrice      float64 `json:"current_price"`
	PriceStale        bool    `json:"price_stale"` // true when the quote was unavailable and average price was substituted
	TotalInvested     float64 `json:"total_invested"`
	CurrentTotalValue float64 `json:"current_total_value"`
	ProfitLoss        float64 `json:"profit_loss"`
	ProfitLossPercent float64 `json:"profit_loss_percent"`
}

// PortfolioSummary aggregates all position summaries of a user.
type PortfolioSummary struct {
	Positions         []PositionSummary `json:"positions"`
	TotalInvested     float64           `json:"total_invested"`
	CurrentTotalValue float64           `json:"current_total_value"`
	TotalProfitLoss   float64           `json:"total_profit_loss"`
	ProfitLossPercent float64           `json:"profit_loss_percent"`
}

// Summarize computes the P/L view of a position against a market price.
// priceKnown=false means the quote was unavailable; the average price is
// substituted, which by construction yields a zero profit/loss for the entry.
func Summarize(p *Position, currentPrice float64, priceKnown bool) PositionSummary {
	if !priceKnown {
		currentPrice = p.AveragePrice
	}

	invested := p.TotalInvested()
	value := float64(p.Quantity) * currentPrice
	pl := value - invested

	plPercent := 0.0
	if invested > 0 {
		plPercent = pl / invested * 100
	}

	return PositionSummary{
		Symbol:            p.Symbol,
		Quantity:          p.Quantity,
		AveragePrice:      p.AveragePrice,
		CurrentPrice:      currentPrice,
		PriceStale:        !priceKnown,
		TotalInvested:     invested,
		CurrentTotalValue: value,
		ProfitLoss:        pl,
		ProfitLossPercent: plPercent,
	}
}

// Aggregate folds position summaries into a portfolio-level summary. An empty
// portfolio yields all zeros, including the percentage (no division by zero).
func Aggregate(summaries []PositionSummary) PortfolioSummary {
	agg := PortfolioSummary{Positions: summaries}
	for _, s := range summaries {
		agg.TotalInvested += s.TotalInvested
		agg.CurrentTotalValue += s.CurrentTotalValue
		agg.TotalProfitLoss += s.ProfitLoss
	}
	if agg.TotalInvested > 0 {
		agg.ProfitLossPercent = agg.TotalProfitLoss / agg.TotalInvested * 100
	}
	return agg
}
