// Package cmd contains the screenbreak CLI commands
package cmd

import (
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"screenBreak/pkg/logger"
)

var version = "dev"

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

// Execute builds the command tree and runs it against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd returns a fresh command tree; tests build their own so flag
// state never leaks between runs.
func NewRootCmd() *cobra.Command {
	var (
		verbose bool
		noColor bool
	)

	root := &cobra.Command{
		Use:   "screenbreak",
		Short: "Screen time break recommender",
		Long: `screenbreak places a day of phone usage into a low, medium or high usage
group relative to a reference population and prints the matching break advice.

Example usage:
  screenbreak evaluate --data data/mobile_screen_time.csv --minutes 240 --unlocks 60 --notifications 90
  screenbreak tiers`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger.InitWithLevel("cli", cmd.ErrOrStderr(), level)
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable coloured output")

	root.AddCommand(newEvaluateCmd(), newTiersCmd())
	return root
}
