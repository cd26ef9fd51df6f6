package entity

// DefaultEstimate is shown when no price could be found for a vendor.
const DefaultEstimate = "Contact for quote"

// Quotation describes what a vendor is expected to charge for the move.
type Quotation struct {
	EstimatedCost    string   `json:"estimated_cost"`
	CostRange        string   `json:"cost_range,omitempty"`
	IncludedServices []string `json:"included_services,omitempty"`
	AdditionalFees   []string `json:"additional_fees,omitempty"`
	QuoteSource      string   `json:"quote_source,omitempty"`
}

// DefaultQuotation returns the sentinel quotation used when pricing is unknown.
func DefaultQuotation() Quotation {
	return Quotation{EstimatedCost: DefaultEstimate}
}

// HasEstimate reports whether the quotation carries an actual price.
func (q Quotation) HasEstimate() bool {
	return q.EstimatedCost != "" && q.EstimatedCost != DefaultEstimate
}
