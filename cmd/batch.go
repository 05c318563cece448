package cmd

import (
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/chrisdamba/regionrank/internal/logger"
	"github.com/chrisdamba/regionrank/internal/recommender"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Rank regions for every user in a file or the database",
	Long: `batch loads one catalog snapshot and ranks it for each user profile, writing
every ranked list to the configured output.`,
	Example: `  regionrank batch --users-file users.json --output-format parquet --output-path out
  regionrank batch --catalog-source postgres --output-format kafka --metrics-file batch.prom`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().String("users-file", "", "User profiles file (json or yaml); postgres when empty")
	batchCmd.Flags().Bool("no-progress", false, "Disable the progress bar")
	addModifierFlags(batchCmd)

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	mods, err := modifiersFromFlags(cmd, a.cfg)
	if err != nil {
		return err
	}
	path, _ := cmd.Flags().GetString("users-file")
	users, err := a.users(ctx, path)
	if err != nil {
		return err
	}

	svc, err := a.service(ctx)
	if err != nil {
		return err
	}
	dest, err := a.destination(ctx)
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	if noProgress, _ := cmd.Flags().GetBool("no-progress"); !noProgress {
		bar = progressbar.NewOptions(len(users),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("ranking users"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetItsString("users"),
			progressbar.OptionShowIts(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}

	start := time.Now()
	records := 0
	done, err := svc.RecommendBatch(ctx, users, mods, func(resp *recommender.Response) error {
		if err := a.publish(dest, svc.Engine(), resp); err != nil {
			return err
		}
		records += len(resp.Results)
		if bar != nil {
			_ = bar.Add(1)
		}
		return nil
	})
	if bar != nil {
		_ = bar.Finish()
	}

	a.log.Info("batch completed",
		logger.Int("users", len(users)),
		logger.Int("ranked", done),
		logger.Int("records", records),
		logger.String("format", a.cfg.Output.Format),
		logger.Duration("duration", time.Since(start)),
	)
	return err
}
