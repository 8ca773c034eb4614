package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPRatesProvider reads a rates feed of the form
// {"base":"JPY","rates":{"USD":0.0067,...}} from a configurable URL.
type HTTPRatesProvider struct {
	client  *http.Client
	baseURL string
}

type ratesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

func NewHTTPRatesProvider(baseURL string) *HTTPRatesProvider {
	return &HTTPRatesProvider{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: baseURL,
	}
}

func (p *HTTPRatesProvider) GetName() string {
	return "http"
}

func (p *HTTPRatesProvider) GetRates(ctx context.Context, base string) (map[string]float64, error) {
	u, err := url.Parse(p.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid rates url: %w", err)
	}
	q := u.Query()
	q.Set("base", strings.ToUpper(base))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates API returned status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var parsed ratesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse rates response: %w", err)
	}
	if parsed.Base != "" && !strings.EqualFold(parsed.Base, base) {
		return nil, fmt.Errorf("rates API answered for base %s, want %s", parsed.Base, base)
	}

	rates := make(map[string]float64, len(parsed.Rates))
	for code, rate := range parsed.Rates {
		if rate <= 0 {
			continue
		}
		rates[strings.ToUpper(code)] = rate
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("rates API returned no usable rates")
	}
	return rates, nil
}
