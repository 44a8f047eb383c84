package selectcmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/daniacca/fabricate/cmd/fabricate/cmdutil"
	"github.com/daniacca/fabricate/internal/fabricate"
)

func NewCmd() *cobra.Command {
	const (
		selectUse   = "select --catalog FILE --inventory FILE --essence id=qty..."
		selectShort = "choose which components to spend for an essence requirement."
		selectLong  = "choose which components of an inventory to spend so that their essences cover the requirement. " +
			"Prints the smallest sufficient pick, or the closest insufficient one."
	)

	cmd := &cobra.Command{
		Use:   selectUse,
		Short: selectShort,
		Long:  selectLong,
		Args:  cobra.NoArgs,
	}

	var opts options

	opts.AddFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if opts.MaxCandidateTypes < 0 || opts.NodeLimit < 0 {
			return fmt.Errorf("%w: --max-candidate-types and --node-limit must not be negative", cmdutil.ErrInvalidArgs)
		}
		requiredRecord, err := cmdutil.ParseRecord(opts.Essences)
		if err != nil {
			return err
		}
		if len(requiredRecord) == 0 {
			return fmt.Errorf("%w: at least one --essence is required", cmdutil.ErrInvalidArgs)
		}

		logger := cmdutil.NewLogger(cmd)
		defer func() { _ = logger.Sync() }()

		catalog, err := cmdutil.LoadCatalog(opts.Catalog)
		if err != nil {
			return err
		}
		contents, err := cmdutil.LoadInventory(opts.Inventory)
		if err != nil {
			return err
		}
		available, err := catalog.ComponentsFromRecord(contents)
		if err != nil {
			return fmt.Errorf("resolving inventory: %w", err)
		}
		required, err := catalog.EssencesFromRecord(requiredRecord)
		if err != nil {
			return fmt.Errorf("resolving essences: %w", err)
		}

		sel := fabricate.NewEssenceSelection(required, fabricate.SelectionOptions{
			MaxCandidateTypes: opts.MaxCandidateTypes,
			NodeLimit:         opts.NodeLimit,
		}).WithLogger(logger).Evaluate(available)

		out := result{
			Components:   sel.Components.ToRecord(),
			Essences:     sel.Essences.ToRecord(),
			Sufficient:   sel.Sufficient,
			Deficit:      sel.Requirement.Deficit(),
			NodesVisited: sel.NodesVisited,
			Truncated:    sel.Truncated,
		}
		if opts.JSON {
			return cmdutil.WriteJSON(cmd, out)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, "components:", cmdutil.FormatRecord(out.Components))
		fmt.Fprintln(w, "essences:", cmdutil.FormatRecord(out.Essences))
		fmt.Fprintln(w, "sufficient:", out.Sufficient)
		fmt.Fprintln(w, "deficit:", out.Deficit)
		if out.Truncated {
			fmt.Fprintf(w, "search truncated after %d nodes\n", out.NodesVisited)
		}
		return nil
	}

	return cmd
}

type result struct {
	Components   fabricate.Record `json:"components"`
	Essences     fabricate.Record `json:"essences"`
	Sufficient   bool             `json:"sufficient"`
	Deficit      int              `json:"deficit"`
	NodesVisited int              `json:"nodes_visited"`
	Truncated    bool             `json:"truncated"`
}

type options struct {
	Catalog           string
	Inventory         string
	Essences          []string
	MaxCandidateTypes int
	NodeLimit         int
	JSON              bool
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
	flags.StringArrayVarP(
		&o.Essences,
		"essence", "e",
		o.Essences,
		"required essence as id=qty, repeatable",
	)
	flags.IntVar(
		&o.MaxCandidateTypes,
		"max-candidate-types",
		o.MaxCandidateTypes,
		"search at most this many distinct component types (0 = unbounded)",
	)
	flags.IntVar(
		&o.NodeLimit,
		"node-limit",
		o.NodeLimit,
		"stop the search after this many nodes (0 = unbounded)",
	)
	flags.BoolVar(
		&o.JSON,
		"json",
		o.JSON,
		"print the result as JSON",
	)
}
