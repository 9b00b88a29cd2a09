package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"quotelist/internal/shared"
)

// QuoteService implements [QuoteProvider] against an animechan-style API.
type QuoteService struct {
	baseURL    string
	httpClient *http.Client
}

// NewQuoteService creates a new quote service instance.
func NewQuoteService(baseURL string, client *http.Client) *QuoteService {
	if baseURL == "" {
		baseURL = "https://animechan.vercel.app"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &QuoteService{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// Random fetches one random quote.
func (q *QuoteService) Random(ctx context.Context) (*Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, q.baseURL+"/api/random", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := q.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: quote API status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var quote Quote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return nil, fmt.Errorf("failed to decode quote: %w", err)
	}

	return &quote, nil
}
