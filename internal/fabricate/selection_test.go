package fabricate

import (
	"fmt"
	"strings"
	"testing"
)

type recordingLogger struct {
	NoOpLogger
	warnings []string
}

func (l *recordingLogger) Warnf(format string, v ...any) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, v...))
}

func TestEssenceSelection_Perform(t *testing.T) {
	tests := []struct {
		name      string
		required  Combination[Essence]
		available Combination[Component]
		want      Combination[Component]
	}{
		{
			name:      "closest incomplete match",
			required:  essences(NewUnit(water, 2), NewUnit(earth, 4)),
			available: OfUnits(NewUnit(c5, 1), NewUnit(c6, 1), NewUnit(c2, 3), NewUnit(c4, 3)),
			want:      OfUnits(NewUnit(c5, 1), NewUnit(c6, 1)),
		},
		{
			name:      "smallest sufficient match",
			required:  essences(NewUnit(fire, 3), NewUnit(air, 1)),
			available: OfUnits(NewUnit(c5, 3), NewUnit(c2, 2), NewUnit(c7, 1), NewUnit(c4, 1)),
			want:      OfUnits(NewUnit(c2, 2), NewUnit(c7, 1)),
		},
		{
			name:      "nothing required",
			required:  Empty[Essence](),
			available: OfUnits(NewUnit(c5, 3), NewUnit(c2, 2)),
			want:      Empty[Component](),
		},
		{
			name:      "no useful components",
			required:  Of(water, 1),
			available: OfUnits(NewUnit(c1, 4), NewUnit(c2, 2)),
			want:      Empty[Component](),
		},
		{
			name:      "least waste breaks size ties",
			required:  Of(air, 1),
			available: OfUnits(NewUnit(c4, 1), NewUnit(c7, 1)),
			want:      Of(c7, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewEssenceSelection(tt.required, SelectionOptions{}).Perform(tt.available)
			if !got.Equals(tt.want) {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestEssenceSelection_Minimality(t *testing.T) {
	required := essences(NewUnit(fire, 3), NewUnit(air, 1))
	available := OfUnits(NewUnit(c5, 3), NewUnit(c2, 2), NewUnit(c7, 1), NewUnit(c4, 1))

	selection := NewEssenceSelection(required, SelectionOptions{}).Evaluate(available)
	if !selection.Sufficient {
		t.Fatal("Expected a sufficient selection")
	}

	result := NewCombinationGenerator(available, required).Generate()
	for _, c := range result.Sufficient {
		if c.Components.Size() < selection.Components.Size() {
			t.Errorf("Expected no smaller sufficient candidate, found %s", c.Components)
		}
		if c.Components.Size() == selection.Components.Size() && c.Essences.Size() < selection.Essences.Size() {
			t.Errorf("Expected no less wasteful candidate of equal size, found %s", c.Components)
		}
	}
	if !selection.Requirement.IsSufficient() {
		t.Error("Expected tracked requirement to be sufficient")
	}
}

func TestEssenceSelection_ClosestMatchFallback(t *testing.T) {
	required := essences(NewUnit(water, 2), NewUnit(earth, 4))
	available := OfUnits(NewUnit(c5, 1), NewUnit(c6, 1))

	selection := NewEssenceSelection(required, SelectionOptions{}).Evaluate(available)
	if selection.Sufficient {
		t.Fatal("Expected an insufficient selection")
	}
	chosen := selection.Requirement.Deficit()
	if chosen != 1 {
		t.Errorf("Expected deficit 1, got %d", chosen)
	}

	result := NewCombinationGenerator(available, required).Generate()
	for _, c := range result.Insufficient {
		if d := NewTrackedCombination(required, c.Essences).Deficit(); d < chosen {
			t.Errorf("Expected no closer candidate, %s has deficit %d", c.Components, d)
		}
	}
	if selection.Requirement.AmountFoundForID("earth") != 3 {
		t.Errorf("Expected 3 earth found, got %d", selection.Requirement.AmountFoundForID("earth"))
	}
}

func TestEssenceSelection_MaxCandidateTypes(t *testing.T) {
	required := essences(NewUnit(fire, 3), NewUnit(air, 1))
	available := OfUnits(NewUnit(c2, 2), NewUnit(c7, 1), NewUnit(c4, 1))

	capped := NewEssenceSelection(required, SelectionOptions{MaxCandidateTypes: 1}).Evaluate(available)
	if capped.Sufficient {
		t.Error("Expected capped search to miss the air components")
	}
	if !capped.Components.Equals(Of(c2, 2)) {
		t.Errorf("Expected {c2:2}, got %s", capped.Components)
	}
	if capped.Candidates != 2 {
		t.Errorf("Expected 2 candidates, got %d", capped.Candidates)
	}

	uncapped := NewEssenceSelection(required, SelectionOptions{}).Evaluate(available)
	if !uncapped.Sufficient {
		t.Error("Expected uncapped search to succeed")
	}
}

func TestEssenceSelection_NodeLimitLogsTruncation(t *testing.T) {
	logger := &recordingLogger{}
	required := essences(NewUnit(fire, 3), NewUnit(air, 1))
	available := OfUnits(NewUnit(c5, 3), NewUnit(c2, 2), NewUnit(c7, 1), NewUnit(c4, 1))

	selection := NewEssenceSelection(required, SelectionOptions{NodeLimit: 5}).
		WithLogger(logger).
		Evaluate(available)

	if !selection.Truncated {
		t.Error("Expected selection to be truncated")
	}
	if selection.NodesVisited != 5 {
		t.Errorf("Expected 5 nodes, got %d", selection.NodesVisited)
	}
	if len(logger.warnings) != 1 || !strings.Contains(logger.warnings[0], "truncated") {
		t.Errorf("Expected one truncation warning, got %v", logger.warnings)
	}
}

func TestEssenceSelection_Required(t *testing.T) {
	required := Of(fire, 2)
	if !NewEssenceSelection(required, SelectionOptions{}).Required().Equals(required) {
		t.Error("Expected Required to return the requirement")
	}
}

func TestSelectionOptions_Within(t *testing.T) {
	tests := []struct {
		name      string
		requested SelectionOptions
		ceiling   SelectionOptions
		want      SelectionOptions
	}{
		{"no ceiling keeps request", SelectionOptions{NodeLimit: 50}, SelectionOptions{}, SelectionOptions{NodeLimit: 50}},
		{"no ceiling keeps unbounded", SelectionOptions{}, SelectionOptions{}, SelectionOptions{}},
		{"unbounded request gets ceiling", SelectionOptions{}, SelectionOptions{NodeLimit: 5, MaxCandidateTypes: 1}, SelectionOptions{NodeLimit: 5, MaxCandidateTypes: 1}},
		{"larger request is capped", SelectionOptions{NodeLimit: 500, MaxCandidateTypes: 9}, SelectionOptions{NodeLimit: 5, MaxCandidateTypes: 2}, SelectionOptions{NodeLimit: 5, MaxCandidateTypes: 2}},
		{"smaller request wins", SelectionOptions{NodeLimit: 3, MaxCandidateTypes: 1}, SelectionOptions{NodeLimit: 5, MaxCandidateTypes: 2}, SelectionOptions{NodeLimit: 3, MaxCandidateTypes: 1}},
		{"fields capped independently", SelectionOptions{NodeLimit: 3}, SelectionOptions{MaxCandidateTypes: 2}, SelectionOptions{NodeLimit: 3, MaxCandidateTypes: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.requested.Within(tt.ceiling); got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
