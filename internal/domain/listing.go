package domain

// DefaultTargetProfit is the cost-plus profit fraction used when a job sets none.
const DefaultTargetProfit = 0.25

type ListingJob struct {
	Product              Product  `json:"product"`
	TargetMarketplaceIDs []string `json:"target_marketplace_ids"`
	TargetProfit         *float64 `json:"target_profit,omitempty"`
}

// ProfitFraction returns the job's target profit, or def when unset.
func (j ListingJob) ProfitFraction(def float64) float64 {
	if j.TargetProfit != nil {
		return *j.TargetProfit
	}
	return def
}

// ConversionResult is the pricing and mapping outcome for one (product, marketplace) unit.
type ConversionResult struct {
	MarketplaceID   string   `json:"marketplace_id"`
	Currency        string   `json:"currency"`
	LocalPrice      float64  `json:"local_price"`
	ShippingLocal   float64  `json:"shipping_local"`
	GrossProfitHome float64  `json:"gross_profit_home"`
	Payload         Payload  `json:"payload"`
	Errors          []string `json:"errors"`
	Warnings        []string `json:"warnings,omitempty"`
	Infeasible      bool     `json:"infeasible"`
}

// Eligible reports whether the unit may be submitted.
func (c ConversionResult) Eligible() bool {
	return len(c.Errors) == 0 && c.GrossProfitHome >= 0
}

type ExecutionStatus string

const (
	StatusSuccess ExecutionStatus = "SUCCESS"
	StatusSkipped ExecutionStatus = "SKIPPED"
	StatusFailed  ExecutionStatus = "FAILED"
)

// ExecutionResult is the terminal record of one unit.
type ExecutionResult struct {
	ProductID           string          `json:"product_id"`
	MarketplaceID       string          `json:"marketplace_id"`
	Status              ExecutionStatus `json:"status"`
	Reason              Reason          `json:"reason,omitempty"`
	Message             string          `json:"message"`
	LocalPrice          float64         `json:"local_price,omitempty"`
	Currency            string          `json:"currency,omitempty"`
	GrossProfitHome     *float64        `json:"gross_profit_home,omitempty"`
	SubmissionReference string          `json:"submission_reference,omitempty"`
	Warnings            []string        `json:"warnings,omitempty"`
}

// BatchSummary counts results per status.
type BatchSummary struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

func Summarize(results []ExecutionResult) BatchSummary {
	s := BatchSummary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusSuccess:
			s.Success++
		case StatusSkipped:
			s.Skipped++
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}
