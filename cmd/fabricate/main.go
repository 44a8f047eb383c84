package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/daniacca/fabricate/cmd/fabricate/checkcmd"
	"github.com/daniacca/fabricate/cmd/fabricate/importcmd"
	"github.com/daniacca/fabricate/cmd/fabricate/selectcmd"
)

const (
	// ReturnCodeSuccess is passed to os.Exit() when no error is reported.
	ReturnCodeSuccess = 0
	// ReturnCodeError is passed to os.Exit() if a command report an error.
	ReturnCodeError = 1
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Run(ctx, os.Stdin, os.Stdout, os.Stderr, os.Args[1:])
	stop()
	os.Exit(code)
}

func Run(ctx context.Context, inReader io.Reader, outWriter, errWriter io.Writer, args []string) int {
	cmd := CobraRoot()
	cmd.SetIn(inReader)
	cmd.SetOut(outWriter)
	cmd.SetErr(errWriter)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		return ReturnCodeError
	}

	return ReturnCodeSuccess
}

func CobraRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "fabricate",
		Short:        "essence-constrained crafting tools",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().BoolP("verbose", "v", false, "log search diagnostics to stderr")

	cmd.AddCommand(
		selectcmd.NewCmd(),
		checkcmd.NewCmd(),
		importcmd.NewCmd(),
	)

	return cmd
}
