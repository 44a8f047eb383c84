package checkcmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/daniacca/fabricate/cmd/fabricate/cmdutil"
	"github.com/daniacca/fabricate/internal/fabricate"
)

func NewCmd() *cobra.Command {
	const (
		checkUse   = "check --catalog FILE --inventory FILE --recipe ID"
		checkShort = "check whether a recipe can be crafted from an inventory."
		checkLong  = "check every ingredient option of a recipe against an inventory and report what is missing."
	)

	cmd := &cobra.Command{
		Use:   checkUse,
		Short: checkShort,
		Long:  checkLong,
		Args:  cobra.NoArgs,
	}

	var opts options

	opts.AddFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if opts.Recipe == "" {
			return fmt.Errorf("%w: --recipe is required", cmdutil.ErrInvalidArgs)
		}

		logger := cmdutil.NewLogger(cmd)
		defer func() { _ = logger.Sync() }()

		catalog, err := cmdutil.LoadCatalog(opts.Catalog)
		if err != nil {
			return err
		}
		recipe, ok := catalog.Recipe(fabricate.RecipeID(opts.Recipe))
		if !ok {
			return fmt.Errorf("%w: %s", fabricate.ErrRecipeNotFound, opts.Recipe)
		}
		contents, err := cmdutil.LoadInventory(opts.Inventory)
		if err != nil {
			return err
		}
		inventory, err := catalog.ComponentsFromRecord(contents)
		if err != nil {
			return fmt.Errorf("resolving inventory: %w", err)
		}

		checks := fabricate.CheckRecipe(recipe, inventory, fabricate.SelectionOptions{NodeLimit: opts.NodeLimit})
		best, _ := fabricate.BestOption(checks)
		logger.Debugf("checked recipe %s: %d options, best %q", recipe.ID, len(checks), best.Option)

		if opts.JSON {
			out := result{Recipe: string(recipe.ID), Craftable: best.Craftable, BestOption: best.Option}
			for _, c := range checks {
				out.Options = append(out.Options, newOptionResult(c))
			}
			return cmdutil.WriteJSON(cmd, out)
		}

		w := cmd.OutOrStdout()
		if best.Craftable {
			fmt.Fprintf(w, "recipe %s is craftable", recipe.ID)
			if best.Option != "" {
				fmt.Fprintf(w, " with option %q", best.Option)
			}
			fmt.Fprintln(w)
		} else {
			fmt.Fprintf(w, "recipe %s is not craftable\n", recipe.ID)
		}
		for _, c := range checks {
			printCheck(w, c)
		}
		return nil
	}

	return cmd
}

func printCheck(w io.Writer, c fabricate.CraftingCheck) {
	name := c.Option
	if name == "" {
		name = "(essences only)"
	}
	status := "craftable"
	if !c.Craftable {
		status = fmt.Sprintf("missing %d", c.Deficit())
	}
	fmt.Fprintf(w, "option %s: %s\n", name, status)
	if !c.Ingredients.IsEmpty() {
		fmt.Fprintln(w, "  ingredients:", formatTracked(c.Ingredients.Units()))
	}
	if !c.Catalysts.IsEmpty() {
		fmt.Fprintln(w, "  catalysts:", formatTracked(c.Catalysts.Units()))
	}
	if !c.Essences.IsEmpty() {
		fmt.Fprintf(w, "  essences: %s from %s\n",
			formatTracked(c.Essences.Units()), cmdutil.FormatRecord(c.EssenceComponents.ToRecord()))
	}
	if c.Truncated {
		fmt.Fprintln(w, "  essence search truncated")
	}
}

func formatTracked[T fabricate.Identifiable](units []fabricate.TrackedUnit[T]) string {
	parts := make([]string, len(units))
	for i, u := range units {
		parts[i] = fmt.Sprintf("%s %d/%d", u.ID(), u.Actual(), u.Target())
	}
	return strings.Join(parts, ", ")
}

type result struct {
	Recipe     string         `json:"recipe"`
	Craftable  bool           `json:"craftable"`
	BestOption string         `json:"best_option,omitempty"`
	Options    []optionResult `json:"options"`
}

type optionResult struct {
	Option            string           `json:"option,omitempty"`
	Craftable         bool             `json:"craftable"`
	Deficit           int              `json:"deficit"`
	EssenceComponents fabricate.Record `json:"essence_components"`
	Consumed          fabricate.Record `json:"consumed"`
	Truncated         bool             `json:"truncated"`
}

func newOptionResult(c fabricate.CraftingCheck) optionResult {
	return optionResult{
		Option:            c.Option,
		Craftable:         c.Craftable,
		Deficit:           c.Deficit(),
		EssenceComponents: c.EssenceComponents.ToRecord(),
		Consumed:          c.Consumed().ToRecord(),
		Truncated:         c.Truncated,
	}
}

type options struct {
	Catalog   string
	Inventory string
	Recipe    string
	NodeLimit int
	JSON      bool
}

func (o *options) AddFlags(flags *pflag.FlagSet) {
	flags.StringVarP(
		&o.Catalog,
		"catalog", "c",
		o.Catalog,
		"path to a catalog JSON file",
	)
	flags.StringVarP(
		&o.Inventory,
		"inventory", "i",
		o.Inventory,
		"path to an inventory record or snapshot JSON file",
	)
	flags.StringVarP(
		&o.Recipe,
		"recipe", "r",
		o.Recipe,
		"id of the recipe to check",
	)
	flags.IntVar(
		&o.NodeLimit,
		"node-limit",
		o.NodeLimit,
		"stop each essence search after this many nodes (0 = unbounded)",
	)
	flags.BoolVar(
		&o.JSON,
		"json",
		o.JSON,
		"print the result as JSON",
	)
}
