package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"screenBreak/business/screentime"
)

func newTiersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tiers",
		Short: "List the usage levels and their break advice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, tier := range screentime.DefaultRecommendationTable().Tiers() {
				tierColor(tier.Level).Fprintf(out, "%d %-6s ", tier.ClusterID, tier.Level)
				fmt.Fprintln(out, tier.Text)
			}
			return nil
		},
	}
}
