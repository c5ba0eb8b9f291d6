package service

import (
	"math"
	"sort"
)

// RootCause labels form a closed taxonomy; the classifier never invents
// labels outside it.
const (
	CauseNoActiveContract    = "No Active Contract"
	CauseUnlinkedContract    = "Unlinked Contract"
	CauseUnexpectedCost      = "Unexpected Cost"
	CauseMaterialFluctuation = "Material Price Fluctuation"
)

// ContractFacts are the two auxiliary booleans the decision tree consumes.
type ContractFacts struct {
	HasActiveContract       bool
	ContractLinkedToInvoice bool
}

// Classifier evaluates the fixed decision tree over a decomposition.
type Classifier struct {
	conditionThresholdPct float64 // |Conditions|/|posted|, percent
	residualThresholdPct  float64 // |Residual|/|posted|, percent
}

func NewClassifier(conditionThresholdPct, residualThresholdPct float64) *Classifier {
	if conditionThresholdPct <= 0 {
		conditionThresholdPct = 1.0
	}
	if residualThresholdPct <= 0 {
		residualThresholdPct = 1.0
	}
	return &Classifier{
		conditionThresholdPct: conditionThresholdPct,
		residualThresholdPct:  residualThresholdPct,
	}
}

type rankedCause struct {
	cause     string
	magnitude float64 // absolute driving contribution, EUR per unit
}

// Classify returns at most two causes, ranked. Contract causes take
// precedence over price causes; Material Price Fluctuation only fires when
// no contract issue was found; an empty list means no significant variance.
func (c *Classifier) Classify(dec *Decomposition, facts ContractFacts) []string {
	var contractCause string
	switch {
	case !facts.HasActiveContract:
		contractCause = CauseNoActiveContract
	case !facts.ContractLinkedToInvoice:
		contractCause = CauseUnlinkedContract
	}

	posted := math.Abs(dec.PostedUnitPriceEUR)
	var price []rankedCause

	if posted > 0 {
		if math.Abs(dec.Contributions.Conditions)/posted*100 >= c.conditionThresholdPct {
			price = append(price, rankedCause{CauseUnexpectedCost, math.Abs(dec.Contributions.Conditions)})
		}
		if contractCause == "" &&
			math.Abs(dec.Contributions.Residual)/posted*100 >= c.residualThresholdPct {
			price = append(price, rankedCause{CauseMaterialFluctuation, math.Abs(dec.Contributions.Residual)})
		}
	}

	sort.SliceStable(price, func(i, j int) bool {
		return price[i].magnitude > price[j].magnitude
	})

	var causes []string
	if contractCause != "" {
		causes = append(causes, contractCause)
		// one slot left: the largest qualifying price cause
		if len(price) > 0 {
			causes = append(causes, price[0].cause)
		}
		return causes
	}

	for i := 0; i < len(price) && i < 2; i++ {
		causes = append(causes, price[i].cause)
	}
	return causes
}
