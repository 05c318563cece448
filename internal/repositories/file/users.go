package file

import (
	"fmt"

	"github.com/chrisdamba/regionrank/internal/models"
)

// LoadUsers reads a list of user profiles, used by batch ranking and import.
func LoadUsers(path string) ([]*models.UserProfile, error) {
	var users []*models.UserProfile
	if err := decodeFile(path, &users); err != nil {
		return nil, err
	}

	out := users[:0]
	for i, u := range users {
		if u == nil {
			continue
		}
		if u.Age < 0 {
			return nil, fmt.Errorf("%s: user %d has negative age %d", path, i, u.Age)
		}
		out = append(out, u)
	}
	return out, nil
}

func SaveUsers(path string, users []*models.UserProfile) error {
	return encodeFile(path, users)
}
