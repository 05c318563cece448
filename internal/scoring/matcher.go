package scoring

import (
	"math"
	"strings"

	"github.com/chrisdamba/regionrank/internal/models"
)

// Matcher scores how well one user fits one region across four dimensions.
type Matcher struct {
	weights     MatchingWeights
	demographic DemographicWeights
	income      IncomeBuckets
	brackets    AgeBrackets
	aliases     map[string]string
}

func NewMatcher(cfg Config) (*Matcher, error) {
	if err := cfg.validateMatching(); err != nil {
		return nil, err
	}
	return &Matcher{
		weights:     cfg.Matching,
		demographic: cfg.Demographic,
		income:      cfg.Income,
		brackets:    cfg.AgeBrackets,
		aliases:     normalizeAliases(cfg.IndustryAliases),
	}, nil
}

func (m *Matcher) Match(user *models.UserProfile, region *models.RegionalProfile) models.MatchResult {
	if user == nil {
		user = &models.UserProfile{}
	}
	if region == nil {
		region = &models.RegionalProfile{}
	}

	var res models.MatchResult
	res.DemographicScore = m.demographicScore(user, region, &res.Defaults)
	res.ConsumptionScore = m.consumptionScore(user, region, &res.Defaults)
	res.IncomeScore = m.incomeScore(user, region, &res.Defaults)
	res.IndustryScore = m.industryScore(user, region, &res.Defaults)
	res.MatchingScore = clamp(res.DemographicScore*m.weights.Demographic +
		res.ConsumptionScore*m.weights.Consumption +
		res.IncomeScore*m.weights.Income +
		res.IndustryScore*m.weights.Industry)
	return res
}

// AgeBracket returns the distribution key an age falls into.
func (m *Matcher) AgeBracket(age int) string {
	return m.brackets.Lookup(age)
}

func (m *Matcher) demographicScore(user *models.UserProfile, region *models.RegionalProfile, defaults *models.DefaultFlag) float64 {
	share, ok := region.AgeDistribution[m.brackets.Lookup(user.Age)]
	if !ok {
		*defaults |= models.DefaultAgeBracket
	}
	// A bracket holding half the population or more counts as a full match.
	ageScore := clamp(finite(share) * 2)

	genderScore, ok := region.GenderDistribution[string(user.Gender)]
	if !ok {
		genderScore = NeutralScore
		*defaults |= models.DefaultGender
	}
	genderScore = clamp(genderScore)

	return clamp(ageScore*m.demographic.Age + genderScore*m.demographic.Gender)
}

func (m *Matcher) consumptionScore(user *models.UserProfile, region *models.RegionalProfile, defaults *models.DefaultFlag) float64 {
	sim, ok := cosineSimilarity(user.SpendingCategories, region.ConsumptionPattern)
	if !ok {
		*defaults |= models.DefaultConsumption
		return NeutralScore
	}
	return clamp(sim * 100)
}

func (m *Matcher) incomeScore(user *models.UserProfile, region *models.RegionalProfile, defaults *models.DefaultFlag) float64 {
	if region.AvgIncome == 0 || math.IsNaN(region.AvgIncome) {
		*defaults |= models.DefaultIncome
		return NeutralScore
	}
	ratio := user.Income / region.AvgIncome
	if math.IsNaN(ratio) {
		return clamp(m.income.Fallback)
	}
	return clamp(m.income.Lookup(ratio))
}

func (m *Matcher) industryScore(user *models.UserProfile, region *models.RegionalProfile, defaults *models.DefaultFlag) float64 {
	preferred := m.industrySet(user.PreferredIndustries)
	if len(preferred) == 0 {
		*defaults |= models.DefaultIndustry
		return NeutralScore
	}
	specialized := m.industrySet(region.SpecializedIndustries)
	overlap := 0
	for k := range preferred {
		if _, ok := specialized[k]; ok {
			overlap++
		}
	}
	return clamp(float64(overlap) / float64(len(preferred)) * 100)
}

// canonicalIndustry resolves aliases and folds case so "Cafe" and "coffee
// shop" can meet on the same key. Blank names yield "".
func (m *Matcher) canonicalIndustry(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return ""
	}
	if canonical, ok := m.aliases[key]; ok && canonical != "" {
		return strings.ToLower(canonical)
	}
	return key
}

func (m *Matcher) industrySet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if k := m.canonicalIndustry(n); k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}

// firstSharedIndustry returns the first preferred industry, in the user's
// order, that the region specializes in.
func (m *Matcher) firstSharedIndustry(user *models.UserProfile, region *models.RegionalProfile) (string, bool) {
	if user == nil || region == nil {
		return "", false
	}
	specialized := m.industrySet(region.SpecializedIndustries)
	for _, p := range user.PreferredIndustries {
		k := m.canonicalIndustry(p)
		if k == "" {
			continue
		}
		if _, ok := specialized[k]; ok {
			return strings.TrimSpace(p), true
		}
	}
	return "", false
}
