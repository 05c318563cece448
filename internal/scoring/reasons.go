package scoring

import (
	"fmt"

	"github.com/chrisdamba/regionrank/internal/models"
	"github.com/chrisdamba/regionrank/internal/segment"
)

// MaxReasons caps the justification tags attached to a recommendation.
const MaxReasons = 4

// Reasons derives justification tags from an already computed breakdown. The
// output is a pure function of its inputs, in fixed priority order: shared
// industry, user segment, premium tier, time period.
func (m *Matcher) Reasons(user *models.UserProfile, region *models.RegionalProfile, match models.MatchResult, tier models.Tier, mods models.RequestModifiers) []string {
	reasons := make([]string, 0, MaxReasons)

	if hasIndustryOverlap(match) {
		if industry, ok := m.firstSharedIndustry(user, region); ok {
			reasons = append(reasons, fmt.Sprintf("specializes in %s", industry))
		}
	}
	if user != nil {
		seg := segment.Resolve(user.Age, user.Gender)
		reasons = append(reasons, fmt.Sprintf("popular with %s", seg.Description))
	}
	if tier == models.Tier1 || tier == models.Tier2 {
		reasons = append(reasons, string(tier))
	}
	if mods.TimePeriod != "" {
		reasons = append(reasons, mods.TimePeriod)
	}

	if len(reasons) > MaxReasons {
		reasons = reasons[:MaxReasons]
	}
	return reasons
}

func hasIndustryOverlap(match models.MatchResult) bool {
	return match.IndustryScore > 0 && !match.Defaults.Has(models.DefaultIndustry)
}
