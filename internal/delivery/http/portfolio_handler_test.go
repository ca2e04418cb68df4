package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockfolio/internal/domain"
)

// stubLedger returns canned results so handler mapping can be tested without
// a store.
type stubLedger struct {
	position *domain.Position
	err      error
}

func (s *stubLedger) Buy(context.Context, uuid.UUID, string, int64, float64) (*domain.Position, error) {
	return s.position, s.err
}

func (s *stubLedger) Sell(context.Context, uuid.UUID, string, int64) (*domain.Position, error) {
	return s.position, s.err
}

func (s *stubLedger) GetPosition(context.Context, uuid.UUID, string) (*domain.Position, error) {
	return s.position, s.err
}

func (s *stubLedger) ListPositions(context.Context, uuid.UUID) ([]*domain.Position, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.position == nil {
		return nil, nil
	}
	return []*domain.Position{s.position}, nil
}

type stubPortfolio struct {
	summary *domain.PortfolioSummary
	err     error
}

func (s *stubPortfolio) Snapshot(context.Context, uuid.UUID) (*domain.PortfolioSummary, error) {
	return s.summary, s.err
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uuid.New())
	c.Set("role", domain.RoleUser)
	return c, rec
}

func TestBuyHandler_Created(t *testing.T) {
	position := domain.NewPosition(uuid.New(), "AAPL", 10, 100)
	h := NewPortfolioHandler(&stubLedger{position: position}, &stubPortfolio{})

	c, rec := newTestContext(t, http.MethodPost, "/api/portfolio/buy", `{"symbol":"AAPL","quantity":10,"price":100}`)
	require.NoError(t, h.Buy(c))

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
}

func TestBuyHandler_ValidationMapsTo400(t *testing.T) {
	h := NewPortfolioHandler(&stubLedger{err: domain.NewValidationError("quantity must be positive, got -1")}, &stubPortfolio{})

	c, rec := newTestContext(t, http.MethodPost, "/api/portfolio/buy", `{"symbol":"AAPL","quantity":-1,"price":100}`)
	require.NoError(t, h.Buy(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSellHandler_InsufficientSharesMapsTo409WithFigures(t *testing.T) {
	h := NewPortfolioHandler(&stubLedger{err: &domain.InsufficientSharesError{
		Symbol:    "AAPL",
		Requested: 6,
		Available: 5,
	}}, &stubPortfolio{})

	c, rec := newTestContext(t, http.MethodPost, "/api/portfolio/sell", `{"symbol":"AAPL","quantity":6}`)
	require.NoError(t, h.Sell(c))

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	details, ok := resp.Error.(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 6, details["requested"])
	assert.EqualValues(t, 5, details["available"])
}

func TestSellHandler_NotFoundMapsTo404(t *testing.T) {
	h := NewPortfolioHandler(&stubLedger{err: domain.ErrPositionNotFound}, &stubPortfolio{})

	c, rec := newTestContext(t, http.MethodPost, "/api/portfolio/sell", `{"symbol":"AAPL","quantity":1}`)
	require.NoError(t, h.Sell(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSellHandler_LiquidationSignalled(t *testing.T) {
	h := NewPortfolioHandler(&stubLedger{position: nil}, &stubPortfolio{})

	c, rec := newTestContext(t, http.MethodPost, "/api/portfolio/sell", `{"symbol":"AAPL","quantity":10}`)
	require.NoError(t, h.Sell(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Liquidated bool        `json:"liquidated"`
			Position   interface{} `json:"position"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Liquidated)
	assert.Nil(t, resp.Data.Position)
}

func TestSellHandler_StorageFailureMapsTo500(t *testing.T) {
	h := NewPortfolioHandler(&stubLedger{err: &domain.StorageError{Op: "upsert position"}}, &stubPortfolio{})

	c, rec := newTestContext(t, http.MethodPost, "/api/portfolio/sell", `{"symbol":"AAPL","quantity":1}`)
	require.NoError(t, h.Sell(c))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetSummaryHandler(t *testing.T) {
	summary := &domain.PortfolioSummary{
		Positions:         []domain.PositionSummary{{Symbol: "AAPL"}},
		TotalInvested:     1000,
		CurrentTotalValue: 1200,
		TotalProfitLoss:   200,
		ProfitLossPercent: 20,
	}
	h := NewPortfolioHandler(&stubLedger{}, &stubPortfolio{summary: summary})

	c, rec := newTestContext(t, http.MethodGet, "/api/portfolio/summary", "")
	require.NoError(t, h.GetSummary(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_profit_loss":200`)
}

func TestHandlers_Unauthenticated(t *testing.T) {
	h := NewPortfolioHandler(&stubLedger{}, &stubPortfolio{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/portfolio/buy", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec) // no user_id in context

	require.NoError(t, h.Buy(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
