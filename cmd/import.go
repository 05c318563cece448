package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/chrisdamba/regionrank/internal/logger"
	"github.com/chrisdamba/regionrank/internal/repositories/file"
	"github.com/chrisdamba/regionrank/internal/repositories/postgres"
)

var importCmd = &cobra.Command{
	Use:     "import",
	Short:   "Load region and user files into postgres",
	Example: `  regionrank import --regions-file regions.yaml --users-file users.yaml --replace`,
	RunE:    runImport,
}

func init() {
	importCmd.Flags().String("regions-file", "", "Region catalog file to import")
	importCmd.Flags().String("users-file", "", "User profiles file to import")
	importCmd.Flags().Bool("replace", false, "Delete existing rows before importing")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	regionsFile, _ := cmd.Flags().GetString("regions-file")
	usersFile, _ := cmd.Flags().GetString("users-file")
	replace, _ := cmd.Flags().GetBool("replace")
	if regionsFile == "" && usersFile == "" {
		return errors.New("nothing to import: set --regions-file and/or --users-file")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	pool, err := postgres.NewPool(ctx, a.cfg.Database.DSN())
	if err != nil {
		return err
	}
	a.onClose(pool.Close)
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	if regionsFile != "" {
		regions, err := file.LoadRegions(regionsFile)
		if err != nil {
			return err
		}
		repo := postgres.NewRegionRepository(pool)
		if replace {
			if err := repo.DeleteAll(ctx); err != nil {
				return err
			}
		}
		if err := repo.BulkCreate(ctx, regions); err != nil {
			return err
		}
		count, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		a.log.Info("regions imported",
			logger.String("file", regionsFile),
			logger.Int("imported", len(regions)),
			logger.Int("total", count),
		)
	}

	if usersFile != "" {
		users, err := file.LoadUsers(usersFile)
		if err != nil {
			return err
		}
		repo := postgres.NewUserRepository(pool)
		if replace {
			if err := repo.DeleteAll(ctx); err != nil {
				return err
			}
		}
		if err := repo.BulkCreate(ctx, users); err != nil {
			return err
		}
		a.log.Info("users imported", logger.String("file", usersFile), logger.Int("imported", len(users)))
	}
	return nil
}
