package service

import "github.com/bitfantasy/ppv-engine/internal/ppv/entity"

// Aggregate folds per-item results into the weighted PO summary. Pure
// reduction: it runs only after every item has completed.
//
// TotalSpendEUR sums posted spend over succeeded items; WeightedPpvPct is
// the spend-weighted posted PPV; PotentialSavingsEUR counts the positive
// per-unit gap times net quantity over flagged items only.
func Aggregate(results []entity.VarianceResult, failedCount int) *entity.AggregateSummary {
	summary := &entity.AggregateSummary{
		ItemCount:   len(results) + failedCount,
		FailedCount: failedCount,
	}

	var weighted float64
	for i := range results {
		r := &results[i]
		summary.TotalSpendEUR += r.NetSpendEUR
		weighted += r.PpvPostedPct * r.NetSpendEUR

		if r.Flagged() {
			summary.FlaggedCount++
			if gap := r.PostedUnitPriceEUR - r.POUnitPriceEUR; gap > 0 {
				summary.PotentialSavingsEUR += gap * r.NetQuantity
			}
		}
	}
	if summary.TotalSpendEUR != 0 {
		summary.WeightedPpvPct = weighted / summary.TotalSpendEUR
	}
	return summary
}
