package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"screenBreak/business/clustering"
	"screenBreak/business/screentime"
	"screenBreak/domain"
	"screenBreak/internal/repository/csvfile"
)

type evaluateOptions struct {
	dataPath      string
	minutes       float64
	unlocks       int
	notifications int
	mode          string
	seed          int64
	asJSON        bool
}

func newEvaluateCmd() *cobra.Command {
	opts := evaluateOptions{}

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Recommend a break interval for one day of usage",
		Example: `  screenbreak evaluate --minutes 240 --unlocks 60 --notifications 90
  screenbreak evaluate --data usage.csv --minutes 30 --unlocks 10 --notifications 5 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dataPath, "data", "d", "data/mobile_screen_time.csv", "reference dataset CSV")
	cmd.Flags().Float64VarP(&opts.minutes, "minutes", "m", 0, "screen time in minutes")
	cmd.Flags().IntVarP(&opts.unlocks, "unlocks", "u", 0, "screen unlocks for the day")
	cmd.Flags().IntVarP(&opts.notifications, "notifications", "n", 0, "notifications received for the day")
	cmd.Flags().StringVar(&opts.mode, "mode", screentime.ModeRecompute, "evaluation mode: recompute or fitted")
	cmd.Flags().Int64Var(&opts.seed, "seed", clustering.DefaultConfig().Seed, "clustering seed")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the evaluation as JSON")

	_ = cmd.MarkFlagRequired("minutes")
	_ = cmd.MarkFlagRequired("unlocks")
	_ = cmd.MarkFlagRequired("notifications")

	return cmd
}

func runEvaluate(cmd *cobra.Command, opts evaluateOptions) error {
	obs, err := domain.NewObservation(opts.minutes, opts.unlocks, opts.notifications)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	ref, err := screentime.LoadReference(ctx, csvfile.NewReferenceRepository(opts.dataPath))
	if err != nil {
		return err
	}

	cfg := screentime.DefaultConfig()
	cfg.Clustering.Seed = opts.seed
	cfg.Mode = opts.mode

	svc, err := screentime.NewScreenTimeService(ref, nil, cfg)
	if err != nil {
		return err
	}

	ev, err := svc.Evaluate(ctx, obs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(ev)
	}

	printEvaluation(out, ev)
	return nil
}

func printEvaluation(w io.Writer, ev domain.Evaluation) {
	color.New(color.FgWhite, color.Bold).Fprintf(w, "Usage level: ")
	tierColor(ev.Tier).Fprintf(w, "%s (cluster %d)\n", ev.Tier, ev.ClusterID)
	fmt.Fprintf(w, "%s\n\n", ev.Recommendation)

	fmt.Fprintf(w, "Screen time:   %.2f h  (normalized %.3f)\n", ev.Observation.ScreenTimeHours, ev.Normalized.ScreenTimeHours)
	fmt.Fprintf(w, "Unlocks:       %d  (normalized %.3f)\n", ev.Observation.Unlocks, ev.Normalized.Unlocks)
	fmt.Fprintf(w, "Notifications: %d  (normalized %.3f)\n", ev.Observation.Notifications, ev.Normalized.Notifications)
	color.New(color.Faint).Fprintf(w, "Compared against %d reference rows (%s mode)\n", ev.ReferenceRows, ev.Mode)
}

func tierColor(tier string) *color.Color {
	switch tier {
	case "low":
		return color.New(color.FgGreen)
	case "medium":
		return color.New(color.FgYellow)
	case "high":
		return color.New(color.FgRed)
	default:
		return color.New(color.FgWhite)
	}
}
