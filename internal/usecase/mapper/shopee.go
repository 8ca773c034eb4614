package mapper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/LavaJover/shvark-listing-service/internal/domain"
)

const shopeeNameLimit = 120

func shopeeVariant(marketplaceID string, categories CategoryTable) Variant {
	return func(in Input) (domain.Payload, []string) {
		p := in.Product
		var errs fieldErrors

		brand := p.Brand
		if brand == "" {
			brand = "NoBrand"
		}

		payload := domain.Payload{
			"item_sku":       p.ID,
			"item_name":      p.Title,
			"description":    p.Description,
			"original_price": in.LocalPrice,
			"currency":       in.Currency,
			"seller_stock":   []map[string]any{{"stock": p.CurrentStock}},
			"weight":         weightKg(p.WeightG),
			"condition":      "NEW",
			"brand":          map[string]any{"brand_id": 0, "original_brand_name": brand},
			"logistic_info": []map[string]any{{
				"enabled":      true,
				"shipping_fee": in.ShippingLocal,
				"is_free":      false,
			}},
		}

		if strings.EqualFold(p.Condition, "used") {
			payload["condition"] = "USED"
		}

		switch {
		case strings.TrimSpace(p.Title) == "":
			errs.missing("item_name", "product has no title")
		case runeLen(p.Title) > shopeeNameLimit:
			errs.invalid("item_name", fmt.Sprintf("%d characters exceeds the %d character limit", runeLen(p.Title), shopeeNameLimit))
		}

		if strings.TrimSpace(p.Description) == "" {
			errs.missing("description", "product has no description")
		}

		if id, ok := categories.lookup(marketplaceID, p.CategoryID); ok {
			if n, err := strconv.ParseInt(id, 10, 64); err == nil {
				payload["category_id"] = n
			} else {
				errs.invalid("category_id", fmt.Sprintf("mapped category %q is not numeric", id))
			}
		} else {
			errs.missing("category_id", fmt.Sprintf("catalog category %q has no Shopee category mapping", p.CategoryID))
		}

		if len(p.ImageURLs) > 0 {
			payload["image"] = map[string]any{"image_url_list": p.ImageURLs}
		} else {
			errs.missing("image", "at least one image is required")
		}

		if p.WeightG <= 0 {
			errs.invalid("weight", "product weight must be positive")
		}
		if p.CurrentStock < 1 {
			errs.invalid("seller_stock", "product is out of stock")
		}

		return payload, errs
	}
}
