package models

import "strings"

const DefaultTopN = 10

type Tier string

const (
	Tier1 Tier = "Tier1"
	Tier2 Tier = "Tier2"
	Tier3 Tier = "Tier3"
	Tier4 Tier = "Tier4"
	Tier5 Tier = "Tier5"
)

// RequestModifiers carry the contextual, per-request adjustments.
type RequestModifiers struct {
	IsWeekend          bool   `json:"is_weekend" yaml:"is_weekend"`
	LocationPreference string `json:"location_preference,omitempty" yaml:"location_preference,omitempty"`
	TimePeriod         string `json:"time_period,omitempty" yaml:"time_period,omitempty"`
	TopN               int    `json:"top_n,omitempty" yaml:"top_n,omitempty"`
}

// Limit returns the effective result size.
func (m RequestModifiers) Limit() int {
	if m.TopN <= 0 {
		return DefaultTopN
	}
	return m.TopN
}

// DefaultFlag marks a neutral default applied while matching a user to a region.
type DefaultFlag uint8

const (
	DefaultAgeBracket DefaultFlag = 1 << iota
	DefaultGender
	DefaultConsumption
	DefaultIncome
	DefaultIndustry
)

var defaultFlagNames = []struct {
	flag DefaultFlag
	name string
}{
	{DefaultAgeBracket, "age_bracket"},
	{DefaultGender, "gender"},
	{DefaultConsumption, "consumption"},
	{DefaultIncome, "income"},
	{DefaultIndustry, "industry"},
}

func (f DefaultFlag) Has(flag DefaultFlag) bool {
	return f&flag != 0
}

// Names lists the set flags in a fixed order.
func (f DefaultFlag) Names() []string {
	var names []string
	for _, d := range defaultFlagNames {
		if f.Has(d.flag) {
			names = append(names, d.name)
		}
	}
	return names
}

func (f DefaultFlag) String() string {
	if f == 0 {
		return "none"
	}
	return strings.Join(f.Names(), "|")
}

type MatchResult struct {
	DemographicScore float64     `json:"demographic_score"`
	ConsumptionScore float64     `json:"consumption_score"`
	IncomeScore      float64     `json:"income_score"`
	IndustryScore    float64     `json:"industry_score"`
	MatchingScore    float64     `json:"matching_score"`
	Defaults         DefaultFlag `json:"-"`
}

type RecommendationResult struct {
	Rank          int         `json:"rank"`
	Region        string      `json:"region"`
	RegionID      string      `json:"region_id"`
	QualityScore  float64     `json:"quality_score"`
	MatchingScore float64     `json:"matching_score"`
	FinalScore    float64     `json:"final_score"`
	Tier          Tier        `json:"tier"`
	Reasons       []string    `json:"reasons"`
	Breakdown     MatchResult `json:"breakdown"`
}
