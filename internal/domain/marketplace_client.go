package domain

import "context"

// Payload is the marketplace-specific attribute set submitted for one listing.
type Payload map[string]any

// MarketplaceClient submits a prepared listing. It owns auth, transport and
// rate-limit compliance; one call is one attempt. The returned reference is opaque.
type MarketplaceClient interface {
	SubmitListing(ctx context.Context, marketplaceID string, payload Payload) (string, error)
}
