package service

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"

	"stockfolio/internal/domain"
	"stockfolio/internal/utils"
)

// LedgerServiceImpl applies buy/sell commands to the position store.
//
// Each mutation is a read-modify-write executed under an exclusive lock keyed
// by (user, symbol), so concurrent buys cannot compute a stale weighted
// average and concurrent sells cannot both pass the sufficient-shares check
// (lost-update / double-sell races). Operations on different symbols never
// contend. The store write is the single commit point: a caller that abandons
// a request mid-flight either sees the old position or the new one, never a
// half-applied state.
type LedgerServiceImpl struct {
	positionRepo domain.PositionRepository

	mu    sync.Mutex
	locks map[string]*sync.Mutex // (user|symbol) -> lock; grows with portfolio breadth, not request volume
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(positionRepo domain.PositionRepository) domain.LedgerService {
	return &LedgerServiceImpl{
		positionRepo: positionRepo,
		locks:        make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutex serializing mutations for one (user, symbol) key.
func (s *LedgerServiceImpl) lockFor(userID uuid.UUID, symbol string) *sync.Mutex {
	key := userID.String() + "|" + symbol

	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// Buy records a purchase of quantity shares at price per share.
//
// First buy of a symbol creates the position with the buy price as its
// average. Subsequent buys recompute the quantity-weighted average price.
func (s *LedgerServiceImpl) Buy(ctx context.Context, userID uuid.UUID, symbol string, quantity int64, price float64) (*domain.Position, error) {
	symbol = utils.NormalizeSymbol(symbol)
	if !utils.IsValidSymbol(symbol) {
		return nil, domain.NewValidationError("invalid symbol %q", symbol)
	}
	if quantity <= 0 {
		return nil, domain.NewValidationError("quantity must be positive, got %d", quantity)
	}
	if price <= 0 {
		return nil, domain.NewValidationError("price must be positive, got %g", price)
	}

	lock := s.lockFor(userID, symbol)
	lock.Lock()
	defer lock.Unlock()

	position, err := s.positionRepo.GetBySymbol(ctx, userID, symbol)
	switch {
	case errors.Is(err, domain.ErrPositionNotFound):
		position = domain.NewPosition(userID, symbol, quantity, price)
	case err != nil:
		return nil, err
	default:
		position.ApplyBuy(quantity, price)
	}

	if err := s.positionRepo.Upsert(ctx, position); err != nil {
		return nil, err
	}

	log.Printf("[Ledger] BUY %s: %d @ %.4f -> qty=%d avg=%.4f", symbol, quantity, price, position.Quantity, position.AveragePrice)
	return position, nil
}

// Sell records a sale of quantity shares.
//
// Selling the exact held quantity liquidates the position (result nil, nil);
// selling less reduces the quantity and leaves the average price untouched;
// selling more is rejected with InsufficientSharesError and the store is left
// as it was.
func (s *LedgerServiceImpl) Sell(ctx context.Context, userID uuid.UUID, symbol string, quantity int64) (*domain.Position, error) {
	symbol = utils.NormalizeSymbol(symbol)
	if !utils.IsValidSymbol(symbol) {
		return nil, domain.NewValidationError("invalid symbol %q", symbol)
	}
	if quantity <= 0 {
		return nil, domain.NewValidationError("quantity must be positive, got %d", quantity)
	}

	lock := s.lockFor(userID, symbol)
	lock.Lock()
	defer lock.Unlock()

	position, err := s.positionRepo.GetBySymbol(ctx, userID, symbol)
	if err != nil {
		return nil, err
	}

	if quantity > position.Quantity {
		return nil, &domain.InsufficientSharesError{
			Symbol:    symbol,
			Requested: quantity,
			Available: position.Quantity,
		}
	}

	if quantity == position.Quantity {
		if err := s.positionRepo.Delete(ctx, userID, symbol); err != nil {
			return nil, err
		}
		log.Printf("[Ledger] SELL %s: %d (liquidated)", symbol, quantity)
		return nil, nil
	}

	position.ApplySell(quantity)
	if err := s.positionRepo.Upsert(ctx, position); err != nil {
		return nil, err
	}

	log.Printf("[Ledger] SELL %s: %d -> qty=%d avg=%.4f", symbol, quantity, position.Quantity, position.AveragePrice)
	return position, nil
}

// GetPosition retrieves a single position.
func (s *LedgerServiceImpl) GetPosition(ctx context.Context, userID uuid.UUID, symbol string) (*domain.Position, error) {
	symbol = utils.NormalizeSymbol(symbol)
	if !utils.IsValidSymbol(symbol) {
		return nil, domain.NewValidationError("invalid symbol %q", symbol)
	}
	return s.positionRepo.GetBySymbol(ctx, userID, symbol)
}

// ListPositions retrieves all positions of a user.
func (s *LedgerServiceImpl) ListPositions(ctx context.Context, userID uuid.UUID) ([]*domain.Position, error) {
	return s.positionRepo.GetByUserID(ctx, userID)
}
