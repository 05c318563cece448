package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chrisdamba/regionrank/internal/logger"
	"github.com/chrisdamba/regionrank/internal/models"
	"github.com/chrisdamba/regionrank/internal/repositories/file"
	"github.com/chrisdamba/regionrank/internal/segment"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank regions for a single user",
	Example: `  regionrank rank --age 27 --gender f --income 4200 \
    --spending food=40,cafe=25,shopping=20 --industries cafe,fashion --weekend
  regionrank rank --user-id u-123 --users-file users.yaml --output-format json --output-path out`,
	RunE: runRank,
}

func init() {
	f := rankCmd.Flags()
	f.String("user-id", "", "Load the user profile with this id instead of using the profile flags")
	f.String("users-file", "", "User profiles file used with --user-id (postgres when empty)")
	f.Int("age", 0, "User age")
	f.String("gender", "", "User gender (male/m/female/f and aliases)")
	f.Float64("income", 0, "User monthly income")
	f.StringToString("spending", nil, "Spending per category, e.g. food=40,cafe=20")
	f.StringSlice("industries", nil, "Preferred industries, most preferred first")
	addModifierFlags(rankCmd)

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	user, err := userFromFlags(ctx, cmd, a)
	if err != nil {
		return err
	}
	mods, err := modifiersFromFlags(cmd, a.cfg)
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

	resp, err := svc.Recommend(ctx, user, mods)
	if err != nil {
		return err
	}
	if len(resp.Results) == 0 {
		a.log.Warn("no regions to recommend", logger.String("request_id", resp.RequestID))
	}
	return a.publish(dest, svc.Engine(), resp)
}

func userFromFlags(ctx context.Context, cmd *cobra.Command, a *app) (*models.UserProfile, error) {
	f := cmd.Flags()

	if id, _ := f.GetString("user-id"); id != "" {
		path, _ := f.GetString("users-file")
		return findUser(ctx, a, path, id)
	}

	if !f.Changed("age") {
		return nil, errors.New("--age is required when --user-id is not set")
	}
	age, _ := f.GetInt("age")
	if age < 0 {
		return nil, fmt.Errorf("--age must be >= 0, got %d", age)
	}
	var gender models.Gender
	if rawGender, _ := f.GetString("gender"); rawGender != "" {
		g, err := segment.ParseGender(rawGender)
		if err != nil {
			return nil, err
		}
		gender = g
	}
	income, _ := f.GetFloat64("income")
	rawSpending, _ := f.GetStringToString("spending")
	spending, err := parseSpending(rawSpending)
	if err != nil {
		return nil, err
	}
	industries, _ := f.GetStringSlice("industries")

	return &models.UserProfile{
		ID:                  "cli",
		Age:                 age,
		Gender:              gender,
		Income:              income,
		SpendingCategories:  spending,
		PreferredIndustries: industries,
	}, nil
}

func findUser(ctx context.Context, a *app, path, id string) (*models.UserProfile, error) {
	if path == "" {
		repo, err := a.userRepository(ctx)
		if err != nil {
			return nil, err
		}
		return repo.GetByID(ctx, id)
	}

	users, err := file.LoadUsers(path)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u != nil && u.ID == id {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %s not found in %s", id, path)
}
