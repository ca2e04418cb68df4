package http

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"stockfolio/internal/domain"
)

// SnapshotScheduler is the part of the scheduler the admin API needs.
type SnapshotScheduler interface {
	RunNow() error
}

// AdminHandler handles admin-related requests
type AdminHandler struct {
	db           *pgxpool.Pool
	scheduler    SnapshotScheduler
	quoteService domain.QuoteService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *pgxpool.Pool, scheduler SnapshotScheduler, quoteService domain.QuoteService) *AdminHandler {
	return &AdminHandler{
		db:           db,
		scheduler:    scheduler,
		quoteService: quoteService,
	}
}

// GetSystemHealth reports database and quote-source health
// GET /api/admin/system/health
func (h *AdminHandler) GetSystemHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := h.db.Ping(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// A probe against a liquid symbol tells us whether the quote source is
	// reachable at all; an unavailable quote source only degrades summaries.
	quoteStatus := "healthy"
	if _, err := h.quoteService.GetQuote(ctx, "AAPL"); err != nil {
		quoteStatus = "degraded"
	}

	return SuccessResponse(c, map[string]interface{}{
		"database":     dbStatus,
		"quote_source": quoteStatus,
		"timestamp":    time.Now().Format(time.RFC3339),
	})
}

// GetStatistics returns service-wide ledger counts
// GET /api/admin/statistics
func (h *AdminHandler) GetStatistics(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var userCount, positionCount int64
	var totalInvested float64

	if err := h.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&userCount); err != nil {
		return InternalServerErrorResponse(c, "Failed to count users", err)
	}

	err := h.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(quantity * average_price), 0)
		FROM positions
	`).Scan(&positionCount, &totalInvested)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to count positions", err)
	}

	return SuccessResponse(c, map[string]interface{}{
		"users":          userCount,
		"positions":      positionCount,
		"total_invested": totalInvested,
	})
}

// TriggerSnapshot runs the portfolio valuation job immediately
// POST /api/admin/snapshot/trigger
func (h *AdminHandler) TriggerSnapshot(c echo.Context) error {
	log.Println("Manual portfolio snapshot triggered via API")

	go func() {
		if err := h.scheduler.RunNow(); err != nil {
			log.Printf("ERROR: Manual snapshot failed: %v", err)
		}
	}()

	return SuccessResponse(c, map[string]string{
		"message": "Portfolio snapshot triggered",
		"status":  "processing",
	})
}
