package mapper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/LavaJover/shvark-listing-service/internal/domain"
)

const (
	etsyTitleLimit    = 140
	etsyQuantityLimit = 999
)

func etsyVariant(marketplaceID string, categories CategoryTable) Variant {
	return func(in Input) (domain.Payload, []string) {
		p := in.Product
		var errs fieldErrors

		payload := domain.Payload{
			"title":       p.Title,
			"description": p.Description,
			"price":       in.LocalPrice,
			"currency":    in.Currency,
			"quantity":    p.CurrentStock,
			"who_made":    "someone_else",
			"when_made":   "2020_2025",
			"is_supply":   false,
			"sku":         []string{p.ID},
			"shipping_profile": map[string]any{
				"primary_cost":   in.ShippingLocal,
				"secondary_cost": in.ShippingLocal,
				"currency":       in.Currency,
			},
		}

		switch {
		case strings.TrimSpace(p.Title) == "":
			errs.missing("title", "product has no title")
		case runeLen(p.Title) > etsyTitleLimit:
			errs.invalid("title", fmt.Sprintf("%d characters exceeds the %d character limit", runeLen(p.Title), etsyTitleLimit))
		}

		if strings.TrimSpace(p.Description) == "" {
			errs.missing("description", "product has no description")
		}

		if id, ok := categories.lookup(marketplaceID, p.CategoryID); ok {
			if n, err := strconv.Atoi(id); err == nil {
				payload["taxonomy_id"] = n
			} else {
				errs.invalid("taxonomy_id", fmt.Sprintf("mapped taxonomy %q is not numeric", id))
			}
		} else {
			errs.missing("taxonomy_id", fmt.Sprintf("catalog category %q has no Etsy taxonomy mapping", p.CategoryID))
		}

		if len(p.ImageURLs) > 0 {
			payload["image_urls"] = p.ImageURLs
		} else {
			errs.missing("image_urls", "at least one image is required")
		}

		switch {
		case p.CurrentStock < 1:
			errs.invalid("quantity", "product is out of stock")
		case p.CurrentStock > etsyQuantityLimit:
			payload["quantity"] = etsyQuantityLimit
		}

		return payload, errs
	}
}
