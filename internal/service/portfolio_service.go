package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"stockfolio/internal/domain"
)

// PortfolioServiceImpl is the read-only aggregation over the ledger. It never
// mutates positions; its only failure mode is a storage failure from listing
// them. Pricing failures degrade per symbol, never abort the snapshot.
type PortfolioServiceImpl struct {
	positionRepo domain.PositionRepository
	quoteService domain.QuoteService
}

// NewPortfolioService creates a new PortfolioService.
func NewPortfolioService(positionRepo domain.PositionRepository, quoteService domain.QuoteService) domain.PortfolioService {
	return &PortfolioServiceImpl{
		positionRepo: positionRepo,
		quoteService: quoteService,
	}
}

// Snapshot computes the live P/L view of a user's portfolio. For each
// position the quote source is consulted; if it has no price for the symbol
// the cost basis stands in as the current price, so that entry shows zero
// profit/loss instead of poisoning the whole snapshot.
func (s *PortfolioServiceImpl) Snapshot(ctx context.Context, userID uuid.UUID) (*domain.PortfolioSummary, error) {
	positions, err := s.positionRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(positions))
	for _, p := range positions {
		symbols = append(symbols, p.Symbol)
	}

	prices := s.quoteService.GetQuotes(ctx, symbols)

	summaries := make([]domain.PositionSummary, 0, len(positions))
	for _, p := range positions {
		price, ok := prices[p.Symbol]
		if !ok {
			log.Printf("[WARN] No quote for %s, falling back to average price", p.Symbol)
		}
		summaries = append(summaries, domain.Summarize(p, price, ok))
	}

	summary := domain.Aggregate(summaries)
	return &summary, nil
}
