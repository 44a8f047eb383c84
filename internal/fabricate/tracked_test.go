package fabricate

import "testing"

func TestTrackedCombination(t *testing.T) {
	required := essences(NewUnit(water, 2), NewUnit(earth, 4))
	found := essences(NewUnit(water, 1), NewUnit(earth, 3), NewUnit(fire, 1))
	tracked := NewTrackedCombination(required, found)

	if tracked.IsSufficient() {
		t.Error("Expected tracked requirement to be insufficient")
	}
	if tracked.Deficit() != 1 {
		t.Errorf("Expected deficit 1, got %d", tracked.Deficit())
	}
	if tracked.AmountRequiredFor(earth) != 4 {
		t.Errorf("Expected 4 earth required, got %d", tracked.AmountRequiredFor(earth))
	}
	if tracked.AmountFoundForID("water") != 1 {
		t.Errorf("Expected 1 water found, got %d", tracked.AmountFoundForID("water"))
	}

	units := tracked.Units()
	if len(units) != 2 {
		t.Fatalf("Expected 2 tracked units, got %d", len(units))
	}
	if units[0].ID() != "water" || units[0].Target() != 2 || units[0].Actual() != 1 || units[0].IsSufficient() {
		t.Errorf("Unexpected water unit: target=%d actual=%d", units[0].Target(), units[0].Actual())
	}
	if units[1].Element() != earth {
		t.Errorf("Expected second unit to track earth, got %s", units[1].ID())
	}
}

func TestTrackedCombination_Empty(t *testing.T) {
	tracked := NewTrackedCombination(Empty[Essence](), Empty[Essence]())
	if !tracked.IsEmpty() {
		t.Error("Expected empty target to be empty")
	}
	if !tracked.IsSufficient() {
		t.Error("Expected empty target to be sufficient")
	}
	if tracked.Deficit() != 0 {
		t.Errorf("Expected deficit 0, got %d", tracked.Deficit())
	}
}

func TestTrackedCombination_DeficitFloorsAtZero(t *testing.T) {
	tracked := NewTrackedCombination(Of(fire, 1), Of(fire, 5))
	if tracked.Deficit() != 0 {
		t.Errorf("Expected deficit 0, got %d", tracked.Deficit())
	}
	if !tracked.IsSufficient() {
		t.Error("Expected surplus to be sufficient")
	}
}
