package cmd

import (
	"github.com/chrisdamba/regionrank/internal/models"
	"github.com/chrisdamba/regionrank/internal/repositories/file"
)

func saveUsersFixture(path string) error {
	return file.SaveUsers(path, []*models.UserProfile{
		{ID: "u-1", Age: 24, Gender: models.GenderMale},
		{ID: "u-2", Age: 52, Gender: models.GenderFemale},
	})
}
