package mapper

import (
	"fmt"
	"strings"

	"github.com/LavaJover/shvark-listing-service/internal/domain"
)

const ebayTitleLimit = 80

var ebayConditionIDs = map[string]int{
	"new":         1000,
	"open_box":    1500,
	"refurbished": 2500,
	"used":        3000,
	"for_parts":   7000,
}

func ebayVariant(marketplaceID string, categories CategoryTable) Variant {
	return func(in Input) (domain.Payload, []string) {
		p := in.Product
		var errs fieldErrors

		payload := domain.Payload{
			"sku":              p.ID,
			"title":            p.Title,
			"listing_type":     "FixedPriceItem",
			"listing_duration": "GTC",
			"start_price":      money(in.LocalPrice, in.Currency),
			"quantity":         p.CurrentStock,
			"shipping_details": map[string]any{
				"shipping_type":         "Flat",
				"shipping_service_cost": money(in.ShippingLocal, in.Currency),
			},
		}

		switch {
		case strings.TrimSpace(p.Title) == "":
			errs.missing("title", "product has no title")
		case runeLen(p.Title) > ebayTitleLimit:
			errs.invalid("title", fmt.Sprintf("%d characters exceeds the %d character limit", runeLen(p.Title), ebayTitleLimit))
		}

		if id, ok := categories.lookup(marketplaceID, p.CategoryID); ok {
			payload["primary_category_id"] = id
		} else {
			errs.missing("primary_category_id", fmt.Sprintf("catalog category %q has no eBay category mapping", p.CategoryID))
		}

		if id, ok := ebayConditionIDs[strings.ToLower(p.Condition)]; ok {
			payload["condition_id"] = id
		} else {
			errs.missing("condition_id", fmt.Sprintf("condition %q has no eBay condition id", p.Condition))
		}

		if len(p.ImageURLs) > 0 {
			payload["picture_urls"] = p.ImageURLs
		} else {
			errs.missing("picture_urls", "at least one image is required")
		}

		if p.CurrentStock < 1 {
			errs.invalid("quantity", "product is out of stock")
		}

		return payload, errs
	}
}
