package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/daniacca/fabricate/internal/fabricate"
	"github.com/daniacca/fabricate/pkg/client"
)

func main() {
	server := pflag.String("server", "", "fabricate server base URL; selections run locally when empty")
	pflag.Parse()

	if err := run(context.Background(), os.Stdout, *server); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// scenario is one essence requirement checked against a satchel.
type scenario struct {
	name      string
	required  fabricate.Record
	available fabricate.Record
}

var scenarios = []scenario{
	{
		name:      "flame and breeze",
		required:  fabricate.Record{"fire": 3, "air": 1},
		available: fabricate.Record{"c5": 3, "c2": 2, "c7": 1, "c4": 1},
	},
	{
		name:      "mud without enough water",
		required:  fabricate.Record{"water": 2, "earth": 4},
		available: fabricate.Record{"c5": 1, "c6": 1, "c2": 3, "c4": 3},
	},
}

func alchemyCatalog() *client.CatalogBuilder {
	return client.NewCatalog("alchemy").
		Essence("fire", "Fire", "Heat and flame").
		Essence("water", "Water", "Flow and cold").
		Essence("earth", "Earth", "Weight and stone").
		Essence("air", "Air", "Breath and motion").
		Component(
			client.NewComponent("c1").Name("Iron Nail"),
			client.NewComponent("c2").Name("Ember").Essence("fire", 2),
			client.NewComponent("c3").Name("Twine"),
			client.NewComponent("c4").Name("Feather").Essence("air", 2),
			client.NewComponent("c5").Name("Volcanic Rock").
				Essence("fire", 1).
				Essence("earth", 3).
				Salvage("c2", 1).
				Salvage("c1", 2),
			client.NewComponent("c6").Name("Dew Drop").Essence("water", 1),
			client.NewComponent("c7").Name("Breeze Shard").Essence("air", 1),
			client.NewComponent("torch").Name("Torch"),
		).
		Recipe(
			client.NewRecipe("torch").Name("Torch").
				Option(
					client.NewOption("nailed").Ingredient("c1", 1).Ingredient("c3", 2),
					client.NewOption("tied").Ingredient("c3", 3).Catalyst("c1", 1),
				).
				Essence("fire", 3).
				Result("torch", 1),
			client.NewRecipe("storm").Name("Storm").
				Essence("air", 2).
				Essence("water", 1).
				Result("c7", 2),
		)
}

func run(ctx context.Context, w io.Writer, server string) error {
	builder := alchemyCatalog()

	selectFn, err := localSelect(builder)
	if err != nil {
		return err
	}
	if server != "" {
		if err := client.ApplyCatalog(ctx, server, builder); err != nil {
			return fmt.Errorf("applying catalog: %w", err)
		}
		selectFn = func(required, available fabricate.Record) (client.SelectionResult, error) {
			return client.Select(ctx, server, required, available)
		}
	}

	for _, sc := range scenarios {
		result, err := selectFn(sc.required, sc.available)
		if err != nil {
			return fmt.Errorf("%s: %w", sc.name, err)
		}
		fmt.Fprintf(w, "%s\n", sc.name)
		fmt.Fprintf(w, "  spend:      %v\n", result.Components)
		fmt.Fprintf(w, "  essences:   %v\n", result.Essences)
		fmt.Fprintf(w, "  sufficient: %t (deficit %d)\n", result.Sufficient, result.Deficit)
	}
	return nil
}

// localSelect builds the catalog in process and returns a selector that
// answers like the server's /select endpoint.
func localSelect(builder *client.CatalogBuilder) (func(required, available fabricate.Record) (client.SelectionResult, error), error) {
	catalog, err := fabricate.BuildCatalogFromConfig(builder.Build())
	if err != nil {
		return nil, fmt.Errorf("building catalog: %w", err)
	}
	return func(required, available fabricate.Record) (client.SelectionResult, error) {
		req, err := catalog.EssencesFromRecord(required)
		if err != nil {
			return client.SelectionResult{}, err
		}
		avail, err := catalog.ComponentsFromRecord(available)
		if err != nil {
			return client.SelectionResult{}, err
		}
		sel := fabricate.NewEssenceSelection(req, fabricate.SelectionOptions{}).Evaluate(avail)
		return client.SelectionResult{
			Components:   sel.Components.ToRecord(),
			Essences:     sel.Essences.ToRecord(),
			Sufficient:   sel.Sufficient,
			Deficit:      sel.Requirement.Deficit(),
			Candidates:   sel.Candidates,
			NodesVisited: sel.NodesVisited,
			Truncated:    sel.Truncated,
		}, nil
	}, nil
}
