// Package segment maps a user's age and gender onto the demographic segment
// used for profile lookup and recommendation reasons.
package segment

import (
	"fmt"
	"strings"

	"github.com/chrisdamba/regionrank/internal/models"
)

type Segment struct {
	ID          string
	AgeGroup    string
	Gender      models.Gender
	Description string
}

var genderAliases = map[string]models.Gender{
	"male":   models.GenderMale,
	"m":      models.GenderMale,
	"man":    models.GenderMale,
	"남":      models.GenderMale,
	"남자":     models.GenderMale,
	"남성":     models.GenderMale,
	"female": models.GenderFemale,
	"f":      models.GenderFemale,
	"woman":  models.GenderFemale,
	"여":      models.GenderFemale,
	"여자":     models.GenderFemale,
	"여성":     models.GenderFemale,
}

// ParseGender normalizes free-form gender input.
func ParseGender(s string) (models.Gender, error) {
	g, ok := genderAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("invalid gender value: %q", s)
	}
	return g, nil
}

// AgeGroup returns the segment age group: teen, 20s ... 60s, 70plus.
func AgeGroup(age int) string {
	switch {
	case age < 20:
		return "teen"
	case age < 30:
		return "20s"
	case age < 40:
		return "30s"
	case age < 50:
		return "40s"
	case age < 60:
		return "50s"
	case age < 70:
		return "60s"
	default:
		return "70plus"
	}
}

func ageGroupLabel(group string) string {
	switch group {
	case "teen":
		return "teens"
	case "70plus":
		return "70+"
	default:
		return group
	}
}

// Resolve builds the segment for a user. Unknown genders resolve to an
// age-only segment rather than failing.
func Resolve(age int, gender models.Gender) Segment {
	group := AgeGroup(age)
	seg := Segment{AgeGroup: group, Gender: gender}

	switch gender {
	case models.GenderMale, models.GenderFemale:
		seg.ID = fmt.Sprintf("%s_%s", group, gender)
		seg.Description = fmt.Sprintf("%s %s", ageGroupLabel(group), gender)
	default:
		seg.ID = group
		seg.Description = ageGroupLabel(group)
	}
	return seg
}
