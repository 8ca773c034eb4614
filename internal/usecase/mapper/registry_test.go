package mapper

import (
	"strings"
	"testing"

	"github.com/LavaJover/shvark-listing-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCategories = CategoryTable{
	"ebay_us":   {"camera": "31388"},
	"amazon_us": {"camera": "CAMERA_DIGITAL"},
	"amazon_de": {"camera": "CAMERA_DIGITAL"},
	"etsy":      {"camera": "1294"},
	"shopee_sg": {"camera": "100635"},
}

func completeProduct() domain.Product {
	return domain.Product{
		ID:           "sku-1",
		Title:        "Vintage rangefinder camera",
		CostPrice:    35000,
		WeightG:      750,
		CurrentStock: 3,
		CategoryID:   "camera",
		Description:  "Fully serviced film camera with original strap.",
		Brand:        "Canonet",
		Barcode:      "4901234567894",
		Condition:    "used",
		ImageURLs:    []string{"https://img.example.com/sku-1.jpg"},
	}
}

func input(p domain.Product) Input {
	return Input{Product: p, LocalPrice: 391.83, Currency: "USD", ShippingLocal: 25.46}
}

func TestRegistry_CompleteProductMapsCleanly(t *testing.T) {
	r := NewRegistry(testCategories)

	for _, id := range []string{"ebay_us", "amazon_us", "amazon_de", "etsy", "shopee_sg"} {
		t.Run(id, func(t *testing.T) {
			require.True(t, r.Registered(id))
			payload, errs := r.Map(id, input(completeProduct()))
			assert.Empty(t, errs)
			assert.NotEmpty(t, payload)
		})
	}
}

func TestRegistry_EbayPayload(t *testing.T) {
	payload, errs := NewRegistry(testCategories).Map("ebay_us", input(completeProduct()))
	require.Empty(t, errs)

	assert.Equal(t, "31388", payload["primary_category_id"])
	assert.Equal(t, 3000, payload["condition_id"])
	assert.Equal(t, map[string]any{"value": 391.83, "currency": "USD"}, payload["start_price"])
	shipping := payload["shipping_details"].(map[string]any)
	assert.Equal(t, map[string]any{"value": 25.46, "currency": "USD"}, shipping["shipping_service_cost"])
}

func TestRegistry_AmazonUsesMarketplaceIdentifier(t *testing.T) {
	r := NewRegistry(testCategories)

	us, _ := r.Map("amazon_us", input(completeProduct()))
	de, _ := r.Map("amazon_de", input(completeProduct()))

	assert.Equal(t, []string{"ATVPDKIKX0DER"}, us["marketplace_ids"])
	assert.Equal(t, []string{"A1PA6795UKMFR9"}, de["marketplace_ids"])
	assert.NotContains(t, us, "shipping")
}

func TestRegistry_MissingAttributesAreSoftErrors(t *testing.T) {
	p := completeProduct()
	p.Brand = ""
	p.Barcode = "12ab"
	p.CategoryID = "lens"

	payload, errs := NewRegistry(testCategories).Map("amazon_us", input(p))

	require.NotNil(t, payload)
	assert.Equal(t, "sku-1", payload["sku"])
	require.Len(t, errs, 3)
	assert.Contains(t, errs[0], "product_type")
	assert.Contains(t, errs[1], "brand")
	assert.Contains(t, errs[2], "externally_assigned_product_identifier")
}

func TestRegistry_EbayTitleLimit(t *testing.T) {
	p := completeProduct()
	p.Title = strings.Repeat("x", 81)

	_, errs := NewRegistry(testCategories).Map("ebay_us", input(p))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "exceeds the 80 character limit")
}

func TestRegistry_EtsyCapsQuantity(t *testing.T) {
	p := completeProduct()
	p.CurrentStock = 5000

	payload, errs := NewRegistry(testCategories).Map("etsy", input(p))
	assert.Empty(t, errs)
	assert.Equal(t, 999, payload["quantity"])
	assert.Equal(t, 1294, payload["taxonomy_id"])
}

func TestRegistry_OutOfStock(t *testing.T) {
	p := completeProduct()
	p.CurrentStock = 0

	_, errs := NewRegistry(testCategories).Map("shopee_sg", input(p))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "out of stock")
}

func TestRegistry_UnregisteredMarketplaceUsesGeneric(t *testing.T) {
	r := NewRegistry(testCategories)
	require.False(t, r.Registered("rakuten_jp"))

	payload, errs := r.Map("rakuten_jp", input(completeProduct()))

	require.NotNil(t, payload)
	assert.Equal(t, "rakuten_jp", payload["marketplace_id"])
	assert.Equal(t, "sku-1", payload["sku"])
	require.Len(t, errs, len(genericRequiredFields))
	for i, f := range genericRequiredFields {
		assert.True(t, strings.HasPrefix(errs[i], "rakuten_jp: "))
		assert.Contains(t, errs[i], f.field)
	}
}

func TestRegistry_RegisterOverridesVariant(t *testing.T) {
	r := NewRegistry(testCategories)
	r.Register("rakuten_jp", func(in Input) (domain.Payload, []string) {
		return domain.Payload{"itemName": in.Product.Title}, nil
	})

	payload, errs := r.Map("rakuten_jp", input(completeProduct()))
	assert.Empty(t, errs)
	assert.Equal(t, "Vintage rangefinder camera", payload["itemName"])
	assert.NotContains(t, payload, "marketplace_id")
}
