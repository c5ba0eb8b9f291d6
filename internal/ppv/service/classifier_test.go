package service

import (
	"reflect"
	"testing"

	"github.com/bitfantasy/ppv-engine/internal/ppv/entity"
)

func classify(t *testing.T, dec Decomposition, facts ContractFacts) []string {
	t.Helper()
	return NewClassifier(1.0, 1.0).Classify(&dec, facts)
}

func TestClassifyNoContractSuppressesFluctuation(t *testing.T) {
	// A 5% residual would normally read as market movement, but without an
	// active contract the missing contract is the finding.
	dec := Decomposition{
		PostedUnitPriceEUR: 10.0,
		Contributions:      entity.Contributions{Residual: 0.5},
	}
	got := classify(t, dec, ContractFacts{HasActiveContract: false})
	want := []string{CauseNoActiveContract}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("causes = %v, want %v", got, want)
	}
}

func TestClassifyContractCausePlusLargestPriceCause(t *testing.T) {
	dec := Decomposition{
		PostedUnitPriceEUR: 10.0,
		Contributions:      entity.Contributions{Conditions: 0.2, Residual: 0.5},
	}
	got := classify(t, dec, ContractFacts{HasActiveContract: false})
	// Residual cannot fire without contract coverage, so the price slot
	// goes to the condition surcharge.
	want := []string{CauseNoActiveContract, CauseUnexpectedCost}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("causes = %v, want %v", got, want)
	}
}

func TestClassifyUnlinkedContract(t *testing.T) {
	dec := Decomposition{
		PostedUnitPriceEUR: 10.0,
		Contributions:      entity.Contributions{Conditions: 0.3},
	}
	got := classify(t, dec, ContractFacts{HasActiveContract: true, ContractLinkedToInvoice: false})
	want := []string{CauseUnlinkedContract, CauseUnexpectedCost}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("causes = %v, want %v", got, want)
	}
}

func TestClassifyTwoPriceCausesRankedByMagnitude(t *testing.T) {
	dec := Decomposition{
		PostedUnitPriceEUR: 2.30,
		Contributions:      entity.Contributions{Conditions: 0.20, Residual: 0.10},
	}
	facts := ContractFacts{HasActiveContract: true, ContractLinkedToInvoice: true}
	got := classify(t, dec, facts)
	want := []string{CauseUnexpectedCost, CauseMaterialFluctuation}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("causes = %v, want %v", got, want)
	}

	// Flip the magnitudes and the ranking flips with them.
	dec.Contributions = entity.Contributions{Conditions: 0.10, Residual: 0.20}
	got = classify(t, dec, facts)
	want = []string{CauseMaterialFluctuation, CauseUnexpectedCost}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("causes = %v, want %v", got, want)
	}
}

func TestClassifyNegativeContributionsCountByMagnitude(t *testing.T) {
	// A discount-driven variance is just as reportable as a surcharge.
	dec := Decomposition{
		PostedUnitPriceEUR: 10.0,
		Contributions:      entity.Contributions{Conditions: -0.4},
	}
	got := classify(t, dec, ContractFacts{HasActiveContract: true, ContractLinkedToInvoice: true})
	want := []string{CauseUnexpectedCost}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("causes = %v, want %v", got, want)
	}
}

func TestClassifyNothingSignificant(t *testing.T) {
	dec := Decomposition{
		PostedUnitPriceEUR: 10.0,
		Contributions:      entity.Contributions{Conditions: 0.05, Residual: 0.05},
	}
	got := classify(t, dec, ContractFacts{HasActiveContract: true, ContractLinkedToInvoice: true})
	if len(got) != 0 {
		t.Errorf("causes = %v, want none", got)
	}
}
