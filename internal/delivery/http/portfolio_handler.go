package http

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"stockfolio/internal/delivery/http/dto"
	"stockfolio/internal/domain"
	"stockfolio/internal/middleware"
)

// PortfolioHandler handles ledger and portfolio-view requests
type PortfolioHandler struct {
	ledgerService    domain.LedgerService
	portfolioService domain.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(ledgerService domain.LedgerService, portfolioService domain.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		ledgerService:    ledgerService,
		portfolioService: portfolioService,
	}
}

// Buy records a stock purchase
// POST /api/portfolio/buy
func (h *PortfolioHandler) Buy(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.BuyRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	position, err := h.ledgerService.Buy(ctx, userID, req.Symbol, req.Quantity, req.Price)
	if err != nil {
		return ledgerErrorResponse(c, err)
	}

	return CreatedResponse(c, dto.NewPositionOutput(position))
}

// Sell records a stock sale
// POST /api/portfolio/sell
func (h *PortfolioHandler) Sell(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.SellRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	position, err := h.ledgerService.Sell(ctx, userID, req.Symbol, req.Quantity)
	if err != nil {
		return ledgerErrorResponse(c, err)
	}

	out := dto.SellOutput{Liquidated: position == nil}
	if position != nil {
		out.Position = dto.NewPositionOutput(position)
	}
	return SuccessResponse(c, out)
}

// GetPosition returns a single position
// GET /api/portfolio/positions/:symbol
func (h *PortfolioHandler) GetPosition(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	position, err := h.ledgerService.GetPosition(ctx, userID, c.Param("symbol"))
	if err != nil {
		return ledgerErrorResponse(c, err)
	}

	return SuccessResponse(c, dto.NewPositionOutput(position))
}

// ListPositions returns all positions of the user
// GET /api/portfolio/positions
func (h *PortfolioHandler) ListPositions(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	positions, err := h.ledgerService.ListPositions(ctx, userID)
	if err != nil {
		return ledgerErrorResponse(c, err)
	}

	out := make([]*dto.PositionOutput, 0, len(positions))
	for _, p := range positions {
		out = append(out, dto.NewPositionOutput(p))
	}

	return SuccessResponse(c, map[string]interface{}{
		"positions": out,
		"count":     len(out),
	})
}

// GetSummary returns the live P/L view of the portfolio
// GET /api/portfolio/summary
func (h *PortfolioHandler) GetSummary(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	// Summary may hit the quote API once per symbol, so it gets a wider
	// budget than the pure-storage endpoints.
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	summary, err := h.portfolioService.Snapshot(ctx, userID)
	if err != nil {
		return ledgerErrorResponse(c, err)
	}

	return SuccessResponse(c, summary)
}

// ledgerErrorResponse maps domain errors to HTTP statuses. A 500 from a
// mutating call is ambiguous: the write may or may not have committed, so
// clients must not blindly retry buys and sells.
func ledgerErrorResponse(c echo.Context, err error) error {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return BadRequestResponse(c, validationErr.Reason)
	}

	var sharesErr *domain.InsufficientSharesError
	if errors.As(err, &sharesErr) {
		return ConflictResponse(c, "Insufficient shares", map[string]interface{}{
			"symbol":    sharesErr.Symbol,
			"requested": sharesErr.Requested,
			"available": sharesErr.Available,
		})
	}

	if errors.Is(err, domain.ErrPositionNotFound) {
		return NotFoundResponse(c, "No position for that symbol")
	}

	return InternalServerErrorResponse(c, "Operation failed", err)
}
