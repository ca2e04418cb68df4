package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockfolio/internal/domain"
)

// stubQuoteService serves quotes from a fixed map; anything else is
// unavailable.
type stubQuoteService struct {
	prices map[string]float64
}

func (s *stubQuoteService) GetQuote(_ context.Context, symbol string) (float64, error) {
	price, ok := s.prices[symbol]
	if !ok {
		return 0, domain.ErrPriceUnavailable
	}
	return price, nil
}

func (s *stubQuoteService) GetQuotes(ctx context.Context, symbols []string) map[string]float64 {
	out := make(map[string]float64)
	for _, symbol := range symbols {
		if price, err := s.GetQuote(ctx, symbol); err == nil {
			out[symbol] = price
		}
	}
	return out
}

func seedLedger(t *testing.T, repo *memPositionRepo, userID uuid.UUID, buys map[string][2]float64) {
	t.Helper()
	ledger := NewLedgerService(repo)
	for symbol, qp := range buys {
		_, err := ledger.Buy(context.Background(), userID, symbol, int64(qp[0]), qp[1])
		require.NoError(t, err)
	}
}

func TestSnapshot_ComputesProfitLoss(t *testing.T) {
	repo := newMemPositionRepo()
	userID := uuid.New()
	seedLedger(t, repo, userID, map[string][2]float64{
		"AAPL": {10, 100}, // invested 1000
		"MSFT": {5, 200},  // invested 1000
	})

	quotes := &stubQuoteService{prices: map[string]float64{
		"AAPL": 150, // value 1500, +500
		"MSFT": 180, // value 900, -100
	}}
	portfolio := NewPortfolioService(repo, quotes)

	summary, err := portfolio.Snapshot(context.Background(), userID)
	require.NoError(t, err)

	assert.Len(t, summary.Positions, 2)
	assert.InDelta(t, 2000.0, summary.TotalInvested, 1e-9)
	assert.InDelta(t, 2400.0, summary.CurrentTotalValue, 1e-9)
	assert.InDelta(t, 400.0, summary.TotalProfitLoss, 1e-9)
	assert.InDelta(t, 20.0, summary.ProfitLossPercent, 1e-9)

	for _, p := range summary.Positions {
		switch p.Symbol {
		case "AAPL":
			assert.InDelta(t, 500.0, p.ProfitLoss, 1e-9)
			assert.InDelta(t, 50.0, p.ProfitLossPercent, 1e-9)
			assert.False(t, p.PriceStale)
		case "MSFT":
			assert.InDelta(t, -100.0, p.ProfitLoss, 1e-9)
			assert.InDelta(t, -10.0, p.ProfitLossPercent, 1e-9)
		}
	}
}

func TestSnapshot_UnavailablePriceDegradesOneSymbol(t *testing.T) {
	repo := newMemPositionRepo()
	userID := uuid.New()
	seedLedger(t, repo, userID, map[string][2]float64{
		"AAPL": {10, 100},
		"MSFT": {5, 200},
	})

	// No quote for AAPL at all
	quotes := &stubQuoteService{prices: map[string]float64{"MSFT": 220}}
	portfolio := NewPortfolioService(repo, quotes)

	summary, err := portfolio.Snapshot(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, summary.Positions, 2)

	for _, p := range summary.Positions {
		switch p.Symbol {
		case "AAPL":
			// Falls back to cost basis: flat P/L, flagged stale
			assert.True(t, p.PriceStale)
			assert.InDelta(t, 100.0, p.CurrentPrice, 1e-9)
			assert.InDelta(t, 0.0, p.ProfitLoss, 1e-9)
			assert.InDelta(t, 0.0, p.ProfitLossPercent, 1e-9)
		case "MSFT":
			// Unaffected by the other symbol's pricing failure
			assert.False(t, p.PriceStale)
			assert.InDelta(t, 100.0, p.ProfitLoss, 1e-9)
		}
	}
}

func TestSnapshot_EmptyPortfolio(t *testing.T) {
	repo := newMemPositionRepo()
	portfolio := NewPortfolioService(repo, &stubQuoteService{})

	summary, err := portfolio.Snapshot(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Empty(t, summary.Positions)
	assert.Zero(t, summary.TotalInvested)
	assert.Zero(t, summary.CurrentTotalValue)
	assert.Zero(t, summary.TotalProfitLoss)
	assert.Zero(t, summary.ProfitLossPercent)
}

func TestSnapshot_StorageFailurePropagates(t *testing.T) {
	repo := newMemPositionRepo()
	repo.failWith = &domain.StorageError{Op: "list positions", Err: errors.New("connection refused")}
	portfolio := NewPortfolioService(repo, &stubQuoteService{})

	_, err := portfolio.Snapshot(context.Background(), uuid.New())
	var se *domain.StorageError
	assert.ErrorAs(t, err, &se)
}
