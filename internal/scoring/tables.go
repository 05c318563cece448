package scoring

import (
	"math"

	"github.com/chrisdamba/regionrank/internal/models"
)

// TierThreshold assigns Tier to any quality score >= LowerBound.
type TierThreshold struct {
	LowerBound  float64
	Tier        models.Tier
	Description string
}

// TierTable is evaluated top-down; the first matching row wins and Fallback
// applies below the last bound.
type TierTable struct {
	Thresholds          []TierThreshold
	Fallback            models.Tier
	FallbackDescription string
}

func DefaultTierTable() TierTable {
	return TierTable{
		Thresholds: []TierThreshold{
			{LowerBound: 80, Tier: models.Tier1, Description: "prime commercial area"},
			{LowerBound: 70, Tier: models.Tier2, Description: "strong commercial area"},
			{LowerBound: 60, Tier: models.Tier3, Description: "established commercial area"},
			{LowerBound: 50, Tier: models.Tier4, Description: "basic commercial area"},
		},
		Fallback:            models.Tier5,
		FallbackDescription: "developing area",
	}
}

func (t TierTable) Lookup(score float64) models.Tier {
	tier, _ := t.lookup(score)
	return tier
}

// Describe returns the interpretation attached to the tier for score.
func (t TierTable) Describe(score float64) string {
	_, desc := t.lookup(score)
	return desc
}

func (t TierTable) lookup(score float64) (models.Tier, string) {
	for _, row := range t.Thresholds {
		if score >= row.LowerBound {
			return row.Tier, row.Description
		}
	}
	return t.Fallback, t.FallbackDescription
}

func (t TierTable) Validate() error {
	if t.Fallback == "" {
		return configErrorf("tier_table", "fallback tier is required")
	}
	prev := math.Inf(1)
	for i, row := range t.Thresholds {
		if row.Tier == "" {
			return configErrorf("tier_table", "row %d has no tier label", i)
		}
		if row.LowerBound >= prev {
			return configErrorf("tier_table", "bounds must be strictly descending, row %d has %.2f after %.2f", i, row.LowerBound, prev)
		}
		prev = row.LowerBound
	}
	return nil
}

// IncomeBand scores an income ratio falling between Min and Max.
type IncomeBand struct {
	Min          float64
	Max          float64
	MinInclusive bool
	MaxInclusive bool
	Score        float64
}

func (b IncomeBand) contains(ratio float64) bool {
	lowerOK := ratio > b.Min || (b.MinInclusive && ratio == b.Min)
	upperOK := ratio < b.Max || (b.MaxInclusive && ratio == b.Max)
	return lowerOK && upperOK
}

type IncomeBuckets struct {
	Bands    []IncomeBand
	Fallback float64
}

// DefaultIncomeBuckets: [0.8,1.2] -> 100, [0.6,0.8) and (1.2,1.5] -> 70, else 40.
func DefaultIncomeBuckets() IncomeBuckets {
	return IncomeBuckets{
		Bands: []IncomeBand{
			{Min: 0.8, Max: 1.2, MinInclusive: true, MaxInclusive: true, Score: 100},
			{Min: 0.6, Max: 0.8, MinInclusive: true, MaxInclusive: false, Score: 70},
			{Min: 1.2, Max: 1.5, MinInclusive: false, MaxInclusive: true, Score: 70},
		},
		Fallback: 40,
	}
}

func (b IncomeBuckets) Lookup(ratio float64) float64 {
	for _, band := range b.Bands {
		if band.contains(ratio) {
			return band.Score
		}
	}
	return b.Fallback
}

func (b IncomeBuckets) Validate() error {
	if !inScoreRange(b.Fallback) {
		return configErrorf("income_buckets", "fallback score %.2f outside [0,100]", b.Fallback)
	}
	for i, band := range b.Bands {
		if band.Min > band.Max {
			return configErrorf("income_buckets", "band %d has min %.2f above max %.2f", i, band.Min, band.Max)
		}
		if !inScoreRange(band.Score) {
			return configErrorf("income_buckets", "band %d score %.2f outside [0,100]", i, band.Score)
		}
	}
	return nil
}

type AgeBracket struct {
	MinAge int
	Label  string
}

// AgeBrackets resolve an age to the key used in a region's age distribution.
// Rows are ordered by descending MinAge.
type AgeBrackets []AgeBracket

func DefaultAgeBrackets() AgeBrackets {
	return AgeBrackets{
		{MinAge: 60, Label: "60+"},
		{MinAge: 50, Label: "50-59"},
		{MinAge: 40, Label: "40-49"},
		{MinAge: 30, Label: "30-39"},
		{MinAge: 20, Label: "20-29"},
		{MinAge: 0, Label: "0-19"},
	}
}

func (a AgeBrackets) Lookup(age int) string {
	for _, b := range a {
		if age >= b.MinAge {
			return b.Label
		}
	}
	if len(a) == 0 {
		return ""
	}
	return a[len(a)-1].Label
}

func (a AgeBrackets) Validate() error {
	if len(a) == 0 {
		return configErrorf("age_brackets", "at least one bracket is required")
	}
	for i, b := range a {
		if b.Label == "" {
			return configErrorf("age_brackets", "bracket %d has no label", i)
		}
		if i > 0 && b.MinAge >= a[i-1].MinAge {
			return configErrorf("age_brackets", "brackets must be ordered by descending min age")
		}
	}
	return nil
}

func inScoreRange(v float64) bool {
	return v >= MinScore && v <= MaxScore
}
