package mapper

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/LavaJover/shvark-listing-service/internal/domain"
)

func amazonVariant(marketplaceID, amazonMarketplaceID string, categories CategoryTable) Variant {
	return func(in Input) (domain.Payload, []string) {
		p := in.Product
		var errs fieldErrors

		attributes := map[string]any{
			"item_name":  p.Title,
			"list_price": money(in.LocalPrice, in.Currency),
			"purchasable_offer": map[string]any{
				"currency":  in.Currency,
				"our_price": in.LocalPrice,
			},
			"fulfillment_availability": map[string]any{
				"fulfillment_channel_code": "DEFAULT",
				"quantity":                 p.CurrentStock,
			},
			"item_weight": map[string]any{"value": weightKg(p.WeightG), "unit": "kilograms"},
		}
		payload := domain.Payload{
			"sku":             p.ID,
			"marketplace_ids": []string{amazonMarketplaceID},
			"requirements":    "LISTING",
			"attributes":      attributes,
		}

		if strings.TrimSpace(p.Title) == "" {
			errs.missing("item_name", "product has no title")
		}

		if productType, ok := categories.lookup(marketplaceID, p.CategoryID); ok {
			payload["product_type"] = productType
		} else {
			errs.missing("product_type", fmt.Sprintf("catalog category %q has no Amazon product type", p.CategoryID))
		}

		if p.Brand != "" {
			attributes["brand"] = p.Brand
		} else {
			errs.missing("brand", "product has no brand")
		}

		switch {
		case p.Barcode == "":
			errs.missing("externally_assigned_product_identifier", "product has no EAN/JAN barcode")
		case !validBarcode(p.Barcode):
			errs.invalid("externally_assigned_product_identifier", fmt.Sprintf("barcode %q is not an 8, 12 or 13 digit code", p.Barcode))
		default:
			attributes["externally_assigned_product_identifier"] = map[string]any{"type": "ean", "value": p.Barcode}
		}

		if p.WeightG <= 0 {
			errs.invalid("item_weight", "product weight must be positive")
		}
		if p.CurrentStock < 1 {
			errs.invalid("quantity", "product is out of stock")
		}

		return payload, errs
	}
}

func validBarcode(code string) bool {
	switch len(code) {
	case 8, 12, 13:
	default:
		return false
	}
	for _, r := range code {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
