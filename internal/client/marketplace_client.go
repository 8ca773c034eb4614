package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/LavaJover/shvark-listing-service/internal/domain"
	"github.com/jaevor/go-nanoid"
)

// Endpoint is where listings for one marketplace are posted.
type Endpoint struct {
	URL   string
	Token string
}

type submitResponse struct {
	Reference string `json:"reference"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HTTPMarketplaceClient posts listing payloads as JSON to per-marketplace
// gateway endpoints.
type HTTPMarketplaceClient struct {
	endpoints map[string]Endpoint
	client    *http.Client
	newKey    func() string
}

func NewHTTPMarketplaceClient(endpoints map[string]Endpoint, timeout time.Duration) (*HTTPMarketplaceClient, error) {
	idGenerator, err := nanoid.Standard(21)
	if err != nil {
		return nil, fmt.Errorf("failed to init idempotency key generator: %w", err)
	}
	return &HTTPMarketplaceClient{
		endpoints: endpoints,
		client:    &http.Client{Timeout: timeout},
		newKey:    idGenerator,
	}, nil
}

func (c *HTTPMarketplaceClient) SubmitListing(ctx context.Context, marketplaceID string, payload domain.Payload) (string, error) {
	endpoint, ok := c.endpoints[marketplaceID]
	if !ok || endpoint.URL == "" {
		return "", fmt.Errorf("no endpoint configured for marketplace %s", marketplaceID)
	}

	requestBodyBytes, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.URL, bytes.NewReader(requestBodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", c.newKey())
	if endpoint.Token != "" {
		req.Header.Set("Authorization", "Bearer "+endpoint.Token)
	}

	response, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return "", err
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		var submitted submitResponse
		if err := json.Unmarshal(responseBodyBytes, &submitted); err != nil {
			return "", fmt.Errorf("unreadable success response: %w", err)
		}
		if submitted.Reference == "" {
			return "", errors.New("success response carries no listing reference")
		}
		return submitted.Reference, nil
	}

	var errResp errorResponse
	if err := json.Unmarshal(responseBodyBytes, &errResp); err == nil && errResp.Error != "" {
		return "", errors.New(errResp.Error)
	}
	return "", fmt.Errorf("%s: %s", response.Status, strings.TrimSpace(string(responseBodyBytes)))
}
