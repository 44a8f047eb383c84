package importcmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/daniacca/fabricate/cmd/fabricate/cmdutil"
	"github.com/daniacca/fabricate/internal/fabricate"
)

func NewCmd() *cobra.Command {
	const (
		importUse   = "import [--essences FILE] [--name NAME] items.json"
		importShort = "convert a Foundry item export into a catalog."
		importLong  = "convert a Foundry item export into a catalog JSON document. " +
			"Essence definitions are not part of item exports and are read from --essences."
	)

	cmd := &cobra.Command{
		Use:   importUse,
		Short: importShort,
		Long:  importLong,
		Args:  cobra.ExactArgs(1),
	}

	var opts options

	opts.AddFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		src := args[0]
		if src == "" {
			return fmt.Errorf("%w: 'items.json' must not be empty", cmdutil.ErrInvalidArgs)
		}

		logger := cmdutil.NewLogger(cmd)
		defer func() { _ = logger.Sync() }()

		var essences []fabricate.EssenceConfig
		if opts.Essences != "" {
			data, err := os.ReadFile(opts.Essences)
			if err != nil {
				return fmt.Errorf("reading essences: %w", err)
			}
			if err := json.Unmarshal(data, &essences); err != nil {
				return fmt.Errorf("parsing essences %s: %w", opts.Essences, err)
			}
		}

		items, err := os.ReadFile(src)
		if err != nil {
			return fmt.Errorf("reading items: %w", err)
		}

		name := opts.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		}
		cfg, err := fabricate.ImportFoundryItems(name, string(items), essences)
		if err != nil {
			return err
		}
		logger.Infof("imported catalog %s: %d components, %d recipes", cfg.Name, len(cfg.Components), len(cfg.Recipes))

		return cmdutil.WriteJSON(cmd, cfg)
	}

	return cmd
}

type options struct {
	Essences string
	Name     string
}

func (o *options) AddFlags(flags *pflag.FlagSet) {
	flags.StringVar(
		&o.Essences,
		"essences",
		o.Essences,
		"path to a JSON array of essence definitions",
	)
	flags.StringVar(
		&o.Name,
		"name",
		o.Name,
		"catalog name, defaults to the items file name",
	)
}
