package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chrisdamba/regionrank/internal/models"
)

func addModifierFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("weekend", false, "Apply the weekend boost")
	cmd.Flags().String("location", "", "Preferred location; regions whose name contains it are boosted")
	cmd.Flags().String("time-period", "", "Time-period label added to the reasons")
	cmd.Flags().Int("top-n", 0, "Number of regions to return (default from config)")
}

func modifiersFromFlags(cmd *cobra.Command, cfg *models.Config) (models.RequestModifiers, error) {
	var mods models.RequestModifiers
	var err error

	if mods.IsWeekend, err = cmd.Flags().GetBool("weekend"); err != nil {
		return mods, err
	}
	if mods.LocationPreference, err = cmd.Flags().GetString("location"); err != nil {
		return mods, err
	}
	if mods.TimePeriod, err = cmd.Flags().GetString("time-period"); err != nil {
		return mods, err
	}
	if mods.TopN, err = cmd.Flags().GetInt("top-n"); err != nil {
		return mods, err
	}
	if mods.TopN < 0 {
		return mods, fmt.Errorf("--top-n must be >= 0, got %d", mods.TopN)
	}
	if mods.TopN == 0 {
		mods.TopN = cfg.TopN
	}
	return mods, nil
}

// parseSpending converts category=amount pairs into a spending vector.
func parseSpending(raw map[string]string) (map[string]float64, error) {
	spending := make(map[string]float64, len(raw))
	for category, value := range raw {
		amount, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid spending amount for %q: %w", category, err)
		}
		spending[category] = amount
	}
	return spending, nil
}
