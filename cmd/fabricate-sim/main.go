package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/spf13/pflag"

	"github.com/daniacca/fabricate/internal/fabricate"
)

func main() {
	var (
		catalogFile = pflag.String("catalog-file", "", "path to catalog JSON file (required)")
		seedFile    = pflag.String("seed", "", "path to starting inventory JSON record (required)")
		rounds      = pflag.Int("rounds", 10, "maximum number of crafting rounds")
		actorID     = pflag.String("actor", "simulation", "actor ID")
		salvage     = pflag.Bool("salvage", false, "salvage every salvageable component before crafting")
		nodeLimit   = pflag.Int("node-limit", 0, "essence search node limit per check (0 = unbounded)")
	)
	pflag.Parse()

	if *catalogFile == "" || *seedFile == "" {
		fmt.Fprintf(os.Stderr, "error: --catalog-file and --seed are required\n")
		pflag.Usage()
		os.Exit(1)
	}

	catalog, err := loadCatalogFromFile(*catalogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading catalog: %v\n", err)
		os.Exit(1)
	}

	counter := newEventCounter()
	inv := fabricate.NewInventory(fabricate.ActorID(*actorID), catalog).
		WithSelectionOptions(fabricate.SelectionOptions{NodeLimit: *nodeLimit}).
		WithEventSink(counter)

	if err := loadSeed(inv, *seedFile); err != nil {
		fmt.Fprintf(os.Stderr, "error loading seed inventory: %v\n", err)
		os.Exit(1)
	}

	if *salvage {
		salvageAll(inv)
	}
	played := simulate(inv, *rounds)

	printSummary(os.Stdout, catalog.Name, played, counter, inv)
}

func loadCatalogFromFile(path string) (*fabricate.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var cfg fabricate.CatalogConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing catalog JSON: %w", err)
	}

	catalog, err := fabricate.BuildCatalogFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("building catalog: %w", err)
	}
	return catalog, nil
}

func loadSeed(inv *fabricate.Inventory, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading seed file: %w", err)
	}

	var record fabricate.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return fmt.Errorf("parsing seed JSON: %w", err)
	}
	return inv.AddRecord(record)
}

// salvageAll breaks down every salvageable unit the inventory starts with.
// Components produced by salvaging are kept as they are.
func salvageAll(inv *fabricate.Inventory) {
	for _, u := range inv.Contents().Units() {
		if !u.Element().IsSalvageable() {
			continue
		}
		for range u.Quantity() {
			if _, err := inv.Salvage(u.Element().ID); err != nil {
				fmt.Fprintf(os.Stderr, "salvage %s: %v\n", u.ID(), err)
				break
			}
		}
	}
}

// simulate crafts every craftable recipe once per round, in catalog order,
// until a round crafts nothing or rounds is reached. It returns the number
// of rounds that crafted something.
func simulate(inv *fabricate.Inventory, rounds int) int {
	played := 0
	for played < rounds {
		crafted := false
		for _, recipe := range inv.Catalog().Recipes() {
			_, err := inv.Craft(recipe.ID)
			switch {
			case err == nil:
				crafted = true
			case errors.Is(err, fabricate.ErrNotCraftable):
			default:
				fmt.Fprintf(os.Stderr, "craft %s: %v\n", recipe.ID, err)
			}
		}
		if !crafted {
			break
		}
		played++
	}
	return played
}

// eventCounter tallies inventory events by recipe and salvaged component.
type eventCounter struct {
	mu       sync.Mutex
	crafted  map[string]int
	salvaged map[string]int
}

func newEventCounter() *eventCounter {
	return &eventCounter{
		crafted:  make(map[string]int),
		salvaged: make(map[string]int),
	}
}

func (c *eventCounter) Publish(event fabricate.NotificationEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch event.Kind {
	case fabricate.EventCrafted:
		c.crafted[string(event.RecipeID)]++
	case fabricate.EventSalvaged:
		c.salvaged[string(event.ComponentID)]++
	}
}

func printSummary(w io.Writer, catalogName string, rounds int, counter *eventCounter, inv *fabricate.Inventory) {
	fmt.Fprintf(w, "Simulation finished (catalog=%s, rounds=%d)\n", catalogName, rounds)
	printCounts(w, "Salvaged:", counter.salvaged)
	printCounts(w, "Crafted:", counter.crafted)
	printCounts(w, "Contents:", inv.Contents().ToRecord())
}

func printCounts(w io.Writer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintln(w, title)
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(w, "  %s: %d\n", id, counts[id])
	}
}
