package fabricate

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type sinkRecorder struct {
	mu     sync.Mutex
	events []NotificationEvent
}

func (s *sinkRecorder) Publish(event NotificationEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func newTestInventory(t *testing.T, record Record) (*Inventory, *sinkRecorder) {
	t.Helper()
	catalog := fixtureCatalog()
	sink := &sinkRecorder{}
	inv := NewInventory("alice", catalog).WithEventSink(sink)
	inv.now = func() time.Time { return time.Unix(1700000000, 0) }
	if err := inv.AddRecord(record); err != nil {
		t.Fatalf("Expected record to be added, got: %v", err)
	}
	return inv, sink
}

func TestInventory_AddRemove(t *testing.T) {
	inv, _ := newTestInventory(t, Record{"c2": 2})

	if err := inv.AddRecord(Record{"c2": 1, "c7": 1}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if inv.Contents().AmountForID("c2") != 3 {
		t.Errorf("Expected 3 c2, got %d", inv.Contents().AmountForID("c2"))
	}

	if err := inv.RemoveRecord(Record{"c2": 4}); !errors.Is(err, ErrInsufficient) {
		t.Errorf("Expected ErrInsufficient, got: %v", err)
	}
	if inv.Contents().Size() != 4 {
		t.Errorf("Expected failed removal to leave contents untouched, got %s", inv.Contents())
	}

	if err := inv.RemoveRecord(Record{"c2": 3}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if inv.Contents().HasID("c2", 1) {
		t.Errorf("Expected c2 to be gone, got %s", inv.Contents())
	}

	if err := inv.AddRecord(Record{"ghost": 1}); !errors.Is(err, ErrComponentNotFound) {
		t.Errorf("Expected ErrComponentNotFound, got: %v", err)
	}
}

func TestInventory_Craft(t *testing.T) {
	inv, sink := newTestInventory(t, Record{"c1": 1, "c3": 2, "c2": 1, "c5": 1, "c7": 1})

	check, err := inv.Craft("torch")
	if err != nil {
		t.Fatalf("Expected craft to succeed, got: %v", err)
	}
	if check.Option != "nailed" {
		t.Errorf("Expected nailed option, got %s", check.Option)
	}

	contents := inv.Contents()
	if contents.AmountForID("torch") != 1 {
		t.Errorf("Expected a torch, got %s", contents)
	}
	if contents.Size() != 2 || contents.AmountForID("c7") != 1 {
		t.Errorf("Expected {c7:1, torch:1}, got %s", contents)
	}

	if len(sink.events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(sink.events))
	}
	event := sink.events[0]
	if event.Kind != EventCrafted || event.ActorID != "alice" || event.RecipeID != "torch" {
		t.Errorf("Unexpected event: %+v", event)
	}
	if event.Consumed["c3"] != 2 || event.Produced["torch"] != 1 {
		t.Errorf("Expected consumed c3 and produced torch, got %+v", event)
	}
	if event.Timestamp != 1700000000 {
		t.Errorf("Expected timestamp 1700000000, got %d", event.Timestamp)
	}
}

func TestInventory_CraftFailures(t *testing.T) {
	inv, sink := newTestInventory(t, Record{"c1": 1, "c3": 2})

	if _, err := inv.Craft("torch"); !errors.Is(err, ErrNotCraftable) {
		t.Errorf("Expected ErrNotCraftable, got: %v", err)
	}
	if _, err := inv.Craft("lantern"); !errors.Is(err, ErrRecipeNotFound) {
		t.Errorf("Expected ErrRecipeNotFound, got: %v", err)
	}
	if inv.Contents().Size() != 3 {
		t.Errorf("Expected failed crafts to leave contents untouched, got %s", inv.Contents())
	}
	if len(sink.events) != 0 {
		t.Errorf("Expected no events, got %d", len(sink.events))
	}
}

func TestInventory_Salvage(t *testing.T) {
	inv, sink := newTestInventory(t, Record{"c5": 2})

	produced, err := inv.Salvage("c5")
	if err != nil {
		t.Fatalf("Expected salvage to succeed, got: %v", err)
	}
	if produced.AmountForID("c1") != 2 || produced.AmountForID("c2") != 1 {
		t.Errorf("Expected {c1:2, c2:1}, got %s", produced)
	}
	contents := inv.Contents()
	if contents.AmountForID("c5") != 1 || contents.AmountForID("c1") != 2 {
		t.Errorf("Expected one c5 left plus salvage, got %s", contents)
	}
	if len(sink.events) != 1 || sink.events[0].Kind != EventSalvaged || sink.events[0].ComponentID != "c5" {
		t.Errorf("Expected a salvage event, got %+v", sink.events)
	}

	if _, err := inv.Salvage("c2"); !errors.Is(err, ErrNothingToSalvage) {
		t.Errorf("Expected ErrNothingToSalvage, got: %v", err)
	}
	if _, err := inv.Salvage("c55"); !errors.Is(err, ErrComponentNotFound) {
		t.Errorf("Expected ErrComponentNotFound, got: %v", err)
	}
	inv.Salvage("c5")
	if _, err := inv.Salvage("c5"); !errors.Is(err, ErrInsufficient) {
		t.Errorf("Expected ErrInsufficient once c5 runs out, got: %v", err)
	}
}

func TestInventory_Select(t *testing.T) {
	inv, _ := newTestInventory(t, Record{"c5": 3, "c2": 2, "c7": 1, "c4": 1})

	selection := inv.Select(essences(NewUnit(fire, 3), NewUnit(air, 1)))
	if !selection.Sufficient {
		t.Fatal("Expected a sufficient selection")
	}
	if selection.Components.Size() != 3 {
		t.Errorf("Expected 3 components, got %s", selection.Components)
	}
	if inv.Contents().Size() != 7 {
		t.Error("Expected Select not to consume anything")
	}
}

func TestInventory_SetCatalogDropsUnknownComponents(t *testing.T) {
	inv, _ := newTestInventory(t, Record{"c2": 2, "torch": 1})

	cfg := fixtureCatalogConfig()
	cfg.Name = "no-torches"
	cfg.Components = cfg.Components[:7]
	cfg.Recipes = cfg.Recipes[1:]
	catalog, err := BuildCatalogFromConfig(cfg)
	if err != nil {
		t.Fatalf("Expected valid catalog, got: %v", err)
	}

	inv.SetCatalog(catalog)
	if inv.Catalog().Name != "no-torches" {
		t.Errorf("Expected new catalog, got %s", inv.Catalog().Name)
	}
	if inv.Contents().HasID("torch", 1) || inv.Contents().AmountForID("c2") != 2 {
		t.Errorf("Expected only {c2:2} left, got %s", inv.Contents())
	}
}

func TestInventory_CraftReplansWhenContentsChange(t *testing.T) {
	inv, sink := newTestInventory(t, Record{"c1": 1, "c3": 2, "c2": 1, "c5": 1, "c7": 1})

	plans := 0
	inv.planned = func() {
		plans++
		if plans > 1 {
			return
		}
		// The lock is free while the craft is planned, so reads and writes
		// go through. Taking the c5 leaves too little fire for any option.
		if inv.Contents().AmountForID("c5") != 1 {
			t.Errorf("Expected to read contents while planning")
		}
		if err := inv.RemoveRecord(Record{"c5": 1}); err != nil {
			t.Errorf("Expected removal while planning, got: %v", err)
		}
	}

	if _, err := inv.Craft("torch"); !errors.Is(err, ErrNotCraftable) {
		t.Errorf("Expected ErrNotCraftable after replanning, got: %v", err)
	}
	if plans != 1 {
		t.Errorf("Expected the stale plan to be dropped before a second commit, got %d plans", plans)
	}
	contents := inv.Contents()
	if contents.Size() != 5 || contents.HasID("torch", 1) {
		t.Errorf("Expected only the c5 to be gone, got %s", contents)
	}
	if len(sink.events) != 0 {
		t.Errorf("Expected no events, got %d", len(sink.events))
	}
}

func TestInventory_ConcurrentCrafts(t *testing.T) {
	inv, sink := newTestInventory(t, Record{"c4": 5, "c6": 5})

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inv.Craft("storm")
		}()
	}
	wg.Wait()

	if len(sink.events) != 5 {
		t.Errorf("Expected exactly 5 successful crafts, got %d", len(sink.events))
	}
	if inv.Contents().AmountForID("c7") != 10 {
		t.Errorf("Expected 10 c7, got %d", inv.Contents().AmountForID("c7"))
	}
}
