package domain

// Product is a read-only catalog record. CostPrice is in the home currency.
type Product struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	CostPrice    float64 `json:"cost_price"`
	WeightG      int     `json:"weight_g"`
	CurrentStock int     `json:"current_stock"`
	CategoryID   string  `json:"category_id"`

	// Optional catalog attributes. Individual marketplaces require some of them.
	Description string   `json:"description,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	Barcode     string   `json:"barcode,omitempty"` // EAN/JAN
	Condition   string   `json:"condition,omitempty"`
	ImageURLs   []string `json:"image_urls,omitempty"`
}
