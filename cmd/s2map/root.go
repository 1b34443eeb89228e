package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// newRootCmd builds the s2map command tree. Subcommands write payload
// output to stdout; logs go to stderr.
func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "s2map",
		Short: "Inspect and edit StarCraft II map package headers",
		Long: `s2map reads the binary documentheader record inside an extracted
.sc2map directory, prints it as structured data, and appends dependency
entries to both the header and the documentinfo XML sidecar.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newAddDepCmd())
	return cmd
}
