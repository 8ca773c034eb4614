package mapper

import "github.com/LavaJover/shvark-listing-service/internal/domain"

// genericRequiredFields are the marketplace-only attributes every marketplace
// needs but which only a registered variant knows how to fill.
var genericRequiredFields = []struct{ field, detail string }{
	{"category_id", "no category mapping is registered for this marketplace"},
	{"listing_schema", "no field mapping is registered for this marketplace"},
}

// genericVariant shapes the canonical fields for diagnostics. It can never
// produce a submittable payload.
func genericVariant(in Input) (domain.Payload, []string) {
	p := in.Product
	payload := domain.Payload{
		"sku":      p.ID,
		"title":    p.Title,
		"price":    money(in.LocalPrice, in.Currency),
		"quantity": p.CurrentStock,
		"shipping": money(in.ShippingLocal, in.Currency),
		"weight_g": p.WeightG,
	}

	var errs fieldErrors
	for _, f := range genericRequiredFields {
		errs.missing(f.field, f.detail)
	}
	return payload, errs
}
