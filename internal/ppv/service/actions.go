package service

import "github.com/bitfantasy/ppv-engine/internal/ppv/entity"

// maxActionsPerBox caps how many entries each rendered box carries after
// merging two causes.
const maxActionsPerBox = 3

// actionCatalog is the full cause-to-action mapping. Kept in one table so
// the mapping stays auditable and deduplicable.
var actionCatalog = map[string]entity.ActionSet{
	CauseNoActiveContract: {
		Resolution: []string{
			"Verify the invoiced price with the buyer before releasing payment",
			"Source an outline agreement for the material and supplier",
		},
		Prevention: []string{
			"Negotiate a frame contract covering recurring demand for the material",
			"Add the material to the contract coverage watchlist",
		},
	},
	CauseUnlinkedContract: {
		Resolution: []string{
			"Re-post the invoice with reference to the existing contract",
			"Request a credit memo for the difference to the contract price",
		},
		Prevention: []string{
			"Enable automatic contract determination in the purchasing info record",
		},
	},
	CauseUnexpectedCost: {
		Resolution: []string{
			"Dispute the surcharge with the supplier and request a corrected invoice",
			"Check whether the fee was agreed in the order conditions",
		},
		Prevention: []string{
			"Agree an all-in price including freight and handling",
			"Add tolerance checks for unplanned delivery costs",
		},
	},
	CauseMaterialFluctuation: {
		Resolution: []string{
			"Validate the new market price level with the category manager",
			"Update the purchasing info record to the confirmed price",
		},
		Prevention: []string{
			"Index-link the material price in the next negotiation round",
		},
	},
}

// RecommendActions maps ranked causes to a merged, deduplicated action set.
// Priority follows the cause ranking, then declaration order within a cause.
func RecommendActions(causes []string) entity.ActionSet {
	var out entity.ActionSet
	seenRes := make(map[string]bool)
	seenPrev := make(map[string]bool)

	for _, cause := range causes {
		set, ok := actionCatalog[cause]
		if !ok {
			continue
		}
		for _, a := range set.Resolution {
			if !seenRes[a] && len(out.Resolution) < maxActionsPerBox {
				seenRes[a] = true
				out.Resolution = append(out.Resolution, a)
			}
		}
		for _, a := range set.Prevention {
			if !seenPrev[a] && len(out.Prevention) < maxActionsPerBox {
				seenPrev[a] = true
				out.Prevention = append(out.Prevention, a)
			}
		}
	}
	if out.Resolution == nil {
		out.Resolution = []string{}
	}
	if out.Prevention == nil {
		out.Prevention = []string{}
	}
	return out
}
