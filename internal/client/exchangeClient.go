package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storefront-api/internal/config"
)

// RateClient looks up a live exchange rate. Called once per checkout; there is
// no cache, so an outage blocks checkout entirely.
type RateClient interface {
	Rate(ctx context.Context, base, quote string) (decimal.Decimal, error)
}

type rateClientImpl struct {
	httpClient *http.Client
	baseApiURL string
}

func NewRateClient(cfg *config.Exchange) RateClient {
	return &rateClientImpl{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseApiURL: cfg.BaseApiURL,
	}
}

func (c *rateClientImpl) Rate(ctx context.Context, base, quote string) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/latest/%s", c.baseApiURL, base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("http new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetch exchange rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("exchange rate api returned %d", resp.StatusCode)
	}

	var result struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return decimal.Zero, fmt.Errorf("decode exchange rate response: %w", err)
	}

	rate, ok := result.Rates[strings.ToUpper(quote)]
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate for currency %s", quote)
	}

	return decimal.NewFromFloat(rate), nil
}
