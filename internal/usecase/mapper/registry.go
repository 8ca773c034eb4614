// Package mapper shapes a catalog product and its computed price into the
// attribute set a marketplace expects. Each marketplace is a registered variant;
// unregistered ids go to the generic variant.
package mapper

import (
	"fmt"
	"sync"

	"github.com/LavaJover/shvark-listing-service/internal/domain"
)

// Input is everything a variant may draw from.
type Input struct {
	Product       domain.Product
	LocalPrice    float64
	Currency      string
	ShippingLocal float64
}

// Variant builds a payload for one marketplace. It never fails: missing
// required attributes are reported as errors and the partial payload is returned.
type Variant func(in Input) (domain.Payload, []string)

// CategoryTable maps marketplace id -> catalog category id -> marketplace category id.
type CategoryTable map[string]map[string]string

func (t CategoryTable) lookup(marketplaceID, categoryID string) (string, bool) {
	byCategory, ok := t[marketplaceID]
	if !ok {
		return "", false
	}
	v, ok := byCategory[categoryID]
	return v, ok && v != ""
}

type Registry struct {
	mu       sync.RWMutex
	variants map[string]Variant
	fallback Variant
}

// NewRegistry returns a registry with every supported marketplace registered.
func NewRegistry(categories CategoryTable) *Registry {
	r := &Registry{
		variants: make(map[string]Variant),
		fallback: genericVariant,
	}
	r.Register("ebay_us", ebayVariant("ebay_us", categories))
	r.Register("amazon_us", amazonVariant("amazon_us", "ATVPDKIKX0DER", categories))
	r.Register("amazon_de", amazonVariant("amazon_de", "A1PA6795UKMFR9", categories))
	r.Register("etsy", etsyVariant("etsy", categories))
	r.Register("shopee_sg", shopeeVariant("shopee_sg", categories))
	return r
}

func (r *Registry) Register(marketplaceID string, v Variant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variants[marketplaceID] = v
}

// Registered reports whether marketplaceID has its own variant.
func (r *Registry) Registered(marketplaceID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.variants[marketplaceID]
	return ok
}

// Map runs the variant for marketplaceID, or the generic one. The returned
// payload is never nil and the marketplace id is always recorded in it.
func (r *Registry) Map(marketplaceID string, in Input) (domain.Payload, []string) {
	r.mu.RLock()
	v, ok := r.variants[marketplaceID]
	r.mu.RUnlock()
	if !ok {
		v = r.fallback
	}

	payload, errs := v(in)
	if payload == nil {
		payload = domain.Payload{}
	}
	if !ok {
		payload["marketplace_id"] = marketplaceID
		for i, e := range errs {
			errs[i] = fmt.Sprintf("%s: %s", marketplaceID, e)
		}
	}
	return payload, errs
}

// fieldErrors collects missing-attribute messages in order.
type fieldErrors []string

func (f *fieldErrors) missing(field, detail string) {
	*f = append(*f, fmt.Sprintf("missing required field %q: %s", field, detail))
}

func (f *fieldErrors) invalid(field, detail string) {
	*f = append(*f, fmt.Sprintf("invalid field %q: %s", field, detail))
}

func money(amount float64, currency string) map[string]any {
	return map[string]any{"value": amount, "currency": currency}
}

func runeLen(s string) int {
	return len([]rune(s))
}

func weightKg(weightG int) float64 {
	return float64(weightG) / 1000
}
