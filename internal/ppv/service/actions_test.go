package service

import (
	"reflect"
	"testing"
)

func TestRecommendActionsEmptyInput(t *testing.T) {
	got := RecommendActions(nil)
	if got.Resolution == nil || got.Prevention == nil {
		t.Fatal("action lists must be empty slices, not nil")
	}
	if len(got.Resolution) != 0 || len(got.Prevention) != 0 {
		t.Errorf("actions = %+v, want empty", got)
	}
}

func TestRecommendActionsSingleCause(t *testing.T) {
	got := RecommendActions([]string{CauseUnexpectedCost})
	want := actionCatalog[CauseUnexpectedCost]
	if !reflect.DeepEqual(got.Resolution, want.Resolution) {
		t.Errorf("resolution = %v, want %v", got.Resolution, want.Resolution)
	}
	if !reflect.DeepEqual(got.Prevention, want.Prevention) {
		t.Errorf("prevention = %v, want %v", got.Prevention, want.Prevention)
	}
}

func TestRecommendActionsMergeCapAndPriority(t *testing.T) {
	got := RecommendActions([]string{CauseNoActiveContract, CauseUnexpectedCost})

	if len(got.Resolution) != maxActionsPerBox {
		t.Fatalf("resolution has %d entries, want %d", len(got.Resolution), maxActionsPerBox)
	}
	// First-ranked cause keeps all its entries, the second fills what is left.
	nac := actionCatalog[CauseNoActiveContract]
	uc := actionCatalog[CauseUnexpectedCost]
	want := []string{nac.Resolution[0], nac.Resolution[1], uc.Resolution[0]}
	if !reflect.DeepEqual(got.Resolution, want) {
		t.Errorf("resolution = %v, want %v", got.Resolution, want)
	}
	if len(got.Prevention) != maxActionsPerBox {
		t.Errorf("prevention has %d entries, want %d", len(got.Prevention), maxActionsPerBox)
	}
}

func TestRecommendActionsDeduplicates(t *testing.T) {
	got := RecommendActions([]string{CauseMaterialFluctuation, CauseMaterialFluctuation})
	want := actionCatalog[CauseMaterialFluctuation]
	if !reflect.DeepEqual(got.Resolution, want.Resolution) {
		t.Errorf("resolution = %v, want %v", got.Resolution, want.Resolution)
	}
}

func TestRecommendActionsIgnoresUnknownCause(t *testing.T) {
	got := RecommendActions([]string{"Something Else"})
	if len(got.Resolution) != 0 || len(got.Prevention) != 0 {
		t.Errorf("actions = %+v, want empty for unknown cause", got)
	}
}

func TestActionCatalogCoversTaxonomy(t *testing.T) {
	for _, cause := range []string{
		CauseNoActiveContract, CauseUnlinkedContract,
		CauseUnexpectedCost, CauseMaterialFluctuation,
	} {
		set, ok := actionCatalog[cause]
		if !ok {
			t.Errorf("no catalog entry for %q", cause)
			continue
		}
		if len(set.Resolution) == 0 || len(set.Prevention) == 0 {
			t.Errorf("catalog entry for %q is incomplete: %+v", cause, set)
		}
	}
}
