package entity

// Variance analysis output. Produced once per PO item per request, never
// mutated after construction and never persisted. Plain structs on purpose:
// these are the engine's output contract, not database rows.

// Contribution buckets. The four buckets always sum to the total per-unit
// variance (posted minus ordered), each may be negative.
type Contributions struct {
	FX         float64 `json:"fx_eur"`
	Conditions float64 `json:"conditions_eur"`
	UoM        float64 `json:"uom_eur"`
	Residual   float64 `json:"residual_eur"`
}

// Total is the sum of all buckets.
func (c Contributions) Total() float64 {
	return c.FX + c.Conditions + c.UoM + c.Residual
}

// ActionSet is the recommended handling for the selected root causes.
type ActionSet struct {
	Resolution []string `json:"resolution"`
	Prevention []string `json:"prevention"`
}

// ExternalContext is the one-sentence market context returned by the
// external lookup capability. Optional; nil when the lookup was not
// triggered, unavailable or timed out.
type ExternalContext struct {
	Sentence   string `json:"sentence"`
	SourceLink string `json:"source_link"`
}

// PostingReference points at a journal entry backing an invoice posting.
type PostingReference struct {
	DocumentNumber string  `json:"document_number"`
	LineItem       string  `json:"line_item"`
	GLAccount      string  `json:"gl_account"`
	AmountInEUR    float64 `json:"amount_in_eur"`
}

// VarianceResult is the full explanation for one PO item.
type VarianceResult struct {
	PurchaseOrder     string `json:"purchase_order"`
	PurchaseOrderItem string `json:"purchase_order_item"`
	Material          string `json:"material"`
	Supplier          string `json:"supplier"`

	POUnitPriceEUR     float64 `json:"po_unit_price_eur"`
	PostedUnitPriceEUR float64 `json:"posted_unit_price_eur"`
	A2AUnitPriceEUR    float64 `json:"a2a_unit_price_eur"`
	PpvPostedPct       float64 `json:"ppv_posted_pct"`
	PpvA2APct          float64 `json:"ppv_a2a_pct"`

	NetQuantity float64 `json:"net_quantity"` // in PO unit of measure
	NetSpendEUR float64 `json:"net_spend_eur"`

	Contributions   Contributions      `json:"contributions"`
	RootCauses      []string           `json:"root_causes"` // at most 2, ranked
	Actions         ActionSet          `json:"actions"`
	ExternalContext *ExternalContext   `json:"external_context,omitempty"`
	Evidence        []PostingReference `json:"evidence,omitempty"`
}

// Flagged reports whether any root cause was selected.
func (r *VarianceResult) Flagged() bool {
	return len(r.RootCauses) > 0
}

// ItemFailure records an item that could not be analyzed. Batch analysis
// reports failures alongside the surviving results instead of aborting.
type ItemFailure struct {
	PurchaseOrderItem string `json:"purchase_order_item"`
	Kind              string `json:"kind"`
	Reason            string `json:"reason"`
}

// AggregateSummary is the weighted roll-up over a multi-item analysis.
type AggregateSummary struct {
	ItemCount           int     `json:"item_count"`
	FailedCount         int     `json:"failed_count"`
	FlaggedCount        int     `json:"flagged_count"`
	TotalSpendEUR       float64 `json:"total_spend_eur"`
	WeightedPpvPct      float64 `json:"weighted_ppv_pct"`
	PotentialSavingsEUR float64 `json:"potential_savings_eur"`
}

// POAnalysis is the envelope for a whole-PO analysis run.
type POAnalysis struct {
	RunID         string            `json:"run_id"`
	PurchaseOrder string            `json:"purchase_order"`
	Results       []VarianceResult  `json:"results"`
	Failures      []ItemFailure     `json:"failures,omitempty"`
	Summary       *AggregateSummary `json:"summary,omitempty"`
}
