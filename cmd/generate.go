package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/chrisdamba/regionrank/internal/factories"
	"github.com/chrisdamba/regionrank/internal/logger"
	"github.com/chrisdamba/regionrank/internal/repositories/file"
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Short:   "Write a synthetic region catalog and user profiles",
	Example: `  regionrank generate --regions 200 --regions-file regions.json --users 1000 --users-file users.json`,
	RunE:    runGenerate,
}

func init() {
	generateCmd.Flags().Int("regions", 100, "Number of regions to generate")
	generateCmd.Flags().String("regions-file", "", "Destination for the region catalog (json or yaml)")
	generateCmd.Flags().Int("users", 1000, "Number of users to generate")
	generateCmd.Flags().String("users-file", "", "Destination for the user profiles (json or yaml)")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	regionsFile, _ := cmd.Flags().GetString("regions-file")
	usersFile, _ := cmd.Flags().GetString("users-file")
	if regionsFile == "" && usersFile == "" {
		return errors.New("set --regions-file and/or --users-file")
	}
	nRegions, _ := cmd.Flags().GetInt("regions")
	nUsers, _ := cmd.Flags().GetInt("users")
	if nRegions < 0 || nUsers < 0 {
		return errors.New("--regions and --users must be >= 0")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if regionsFile != "" {
		rf := &factories.RegionFactory{}
		if err := file.SaveRegions(regionsFile, rf.CreateCatalog(nRegions)); err != nil {
			return err
		}
		a.log.Info("region catalog written", logger.String("file", regionsFile), logger.Int("regions", nRegions))
	}
	if usersFile != "" {
		uf := &factories.UserFactory{}
		if err := file.SaveUsers(usersFile, uf.CreateUsers(nUsers)); err != nil {
			return err
		}
		a.log.Info("user profiles written", logger.String("file", usersFile), logger.Int("users", nUsers))
	}
	return nil
}
