package main

import "github.com/daniacca/fabricate/internal/fabricate"

type trackedView struct {
	ID         string `json:"id"`
	Target     int    `json:"target"`
	Actual     int    `json:"actual"`
	Sufficient bool   `json:"sufficient"`
}

func trackedUnits[T fabricate.Identifiable](t fabricate.TrackedCombination[T]) []trackedView {
	units := t.Units()
	out := make([]trackedView, 0, len(units))
	for _, u := range units {
		out = append(out, trackedView{
			ID:         u.ID(),
			Target:     u.Target(),
			Actual:     u.Actual(),
			Sufficient: u.IsSufficient(),
		})
	}
	return out
}

type selectionView struct {
	Components   fabricate.Record `json:"components"`
	Essences     fabricate.Record `json:"essences"`
	Sufficient   bool             `json:"sufficient"`
	Deficit      int              `json:"deficit"`
	Requirement  []trackedView    `json:"requirement"`
	Candidates   int              `json:"candidates"`
	NodesVisited int              `json:"nodes_visited"`
	Truncated    bool             `json:"truncated"`
}

func newSelectionView(sel fabricate.Selection) selectionView {
	return selectionView{
		Components:   sel.Components.ToRecord(),
		Essences:     sel.Essences.ToRecord(),
		Sufficient:   sel.Sufficient,
		Deficit:      sel.Requirement.Deficit(),
		Requirement:  trackedUnits(sel.Requirement),
		Candidates:   sel.Candidates,
		NodesVisited: sel.NodesVisited,
		Truncated:    sel.Truncated,
	}
}

type checkView struct {
	Recipe            fabricate.RecipeID `json:"recipe"`
	Option            string             `json:"option,omitempty"`
	Craftable         bool               `json:"craftable"`
	Deficit           int                `json:"deficit"`
	Ingredients       []trackedView      `json:"ingredients"`
	Catalysts         []trackedView      `json:"catalysts"`
	Essences          []trackedView      `json:"essences"`
	EssenceComponents fabricate.Record   `json:"essence_components"`
	Consumed          fabricate.Record   `json:"consumed"`
	Truncated         bool               `json:"truncated"`
}

func newCheckView(c fabricate.CraftingCheck) checkView {
	return checkView{
		Recipe:            c.Recipe,
		Option:            c.Option,
		Craftable:         c.Craftable,
		Deficit:           c.Deficit(),
		Ingredients:       trackedUnits(c.Ingredients),
		Catalysts:         trackedUnits(c.Catalysts),
		Essences:          trackedUnits(c.Essences),
		EssenceComponents: c.EssenceComponents.ToRecord(),
		Consumed:          c.Consumed().ToRecord(),
		Truncated:         c.Truncated,
	}
}

type inventoryView struct {
	ActorID  fabricate.ActorID `json:"actor_id"`
	Catalog  string            `json:"catalog"`
	Contents fabricate.Record  `json:"contents"`
}

func newInventoryView(inv *fabricate.Inventory) inventoryView {
	view := inventoryView{ActorID: inv.ActorID(), Contents: inv.Contents().ToRecord()}
	if catalog := inv.Catalog(); catalog != nil {
		view.Catalog = catalog.Name
	}
	return view
}
