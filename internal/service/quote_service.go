package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"stockfolio/internal/domain"
)

// QuoteServiceImpl fetches real-time quotes from a Finnhub-compatible API.
//
// The quote source is untrusted display input: every failure — transport
// error, non-200, unknown symbol, zero price — collapses into
// domain.ErrPriceUnavailable. Callers treat a timeout the same as a missing
// price and degrade that one symbol, so the client timeout here bounds how
// long any snapshot can stall on pricing.
type QuoteServiceImpl struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewQuoteService creates a new QuoteService against the given base URL.
func NewQuoteService(baseURL, apiKey string, timeout time.Duration) *QuoteServiceImpl {
	return &QuoteServiceImpl{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// quoteResponse mirrors the Finnhub quote payload. Only the current price is
// used; a symbol the API does not know comes back with all zeros.
type quoteResponse struct {
	Current float64 `json:"c"`
}

// GetQuote returns the current price for a single symbol.
func (s *QuoteServiceImpl) GetQuote(ctx context.Context, symbol string) (float64, error) {
	endpoint := fmt.Sprintf("%s/api/v1/quote?symbol=%s&token=%s",
		s.baseURL, url.QueryEscape(symbol), url.QueryEscape(s.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to create request: %v", domain.ErrPriceUnavailable, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrPriceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: quote API returned status %d for %s", domain.ErrPriceUnavailable, resp.StatusCode, symbol)
	}

	var quote quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return 0, fmt.Errorf("%w: failed to decode quote: %v", domain.ErrPriceUnavailable, err)
	}

	// Finnhub answers unknown symbols with a zeroed quote, not an error.
	if quote.Current <= 0 {
		return 0, fmt.Errorf("%w: no quote for symbol %s", domain.ErrPriceUnavailable, symbol)
	}

	return quote.Current, nil
}

// GetQuotes fetches prices for multiple symbols. Symbols that fail are logged
// and left out of the result map; one bad symbol never fails the batch.
func (s *QuoteServiceImpl) GetQuotes(ctx context.Context, symbols []string) map[string]float64 {
	prices := make(map[string]float64, len(symbols))

	for _, symbol := range symbols {
		price, err := s.GetQuote(ctx, symbol)
		if err != nil {
			log.Printf("[WARN] Quote fetch failed for %s: %v", symbol, err)
			continue
		}
		prices[symbol] = price
	}

	return prices
}
