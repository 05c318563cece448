package scoring

import (
	"math"
	"strings"
)

type CombineMode string

const (
	// CombineMultiplicative gates the final score on quality: (q/100) * m.
	CombineMultiplicative CombineMode = "multiplicative"
	// CombineAverage blends the two scores linearly with AverageQualityWeight.
	CombineAverage CombineMode = "average"
)

const (
	DefaultWeekendMultiplier    = 1.10
	DefaultLocationMultiplier   = 1.05
	DefaultAverageQualityWeight = 0.5
)

// Config is validated once by the constructors and treated as immutable
// afterwards. Callers must not mutate slices or maps after construction.
type Config struct {
	Quality     QualityWeights
	Matching    MatchingWeights
	Demographic DemographicWeights

	Tiers       TierTable
	Income      IncomeBuckets
	AgeBrackets AgeBrackets

	CombineMode          CombineMode
	AverageQualityWeight float64
	WeekendMultiplier    float64
	LocationMultiplier   float64

	// IndustryAliases maps alternative industry spellings to a canonical name.
	// Keys are matched case-insensitively.
	IndustryAliases map[string]string

	// Workers bounds the per-region scoring pool; 0 means GOMAXPROCS.
	Workers int
}

func DefaultConfig() Config {
	return Config{
		Quality:              DefaultQualityWeights(),
		Matching:             DefaultMatchingWeights(),
		Demographic:          DefaultDemographicWeights(),
		Tiers:                DefaultTierTable(),
		Income:               DefaultIncomeBuckets(),
		AgeBrackets:          DefaultAgeBrackets(),
		CombineMode:          CombineMultiplicative,
		AverageQualityWeight: DefaultAverageQualityWeight,
		WeekendMultiplier:    DefaultWeekendMultiplier,
		LocationMultiplier:   DefaultLocationMultiplier,
	}
}

func (c Config) Validate() error {
	if err := c.Quality.Validate(); err != nil {
		return err
	}
	if err := c.Tiers.Validate(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	return c.validateCombiner()
}

func (c Config) validateMatching() error {
	if err := c.Matching.Validate(); err != nil {
		return err
	}
	if err := c.Demographic.Validate(); err != nil {
		return err
	}
	if err := c.Income.Validate(); err != nil {
		return err
	}
	return c.AgeBrackets.Validate()
}

func (c Config) validateCombiner() error {
	switch c.CombineMode {
	case CombineMultiplicative:
	case CombineAverage:
		if !(c.AverageQualityWeight >= 0 && c.AverageQualityWeight <= 1) {
			return configErrorf("average_quality_weight", "must be within [0,1], got %v", c.AverageQualityWeight)
		}
	default:
		return configErrorf("combine_mode", "unknown mode %q", c.CombineMode)
	}
	if !validMultiplier(c.WeekendMultiplier) {
		return configErrorf("weekend_multiplier", "must be finite and positive, got %v", c.WeekendMultiplier)
	}
	if !validMultiplier(c.LocationMultiplier) {
		return configErrorf("location_multiplier", "must be finite and positive, got %v", c.LocationMultiplier)
	}
	if c.Workers < 0 {
		return configErrorf("workers", "must not be negative, got %d", c.Workers)
	}
	return nil
}

func validMultiplier(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// normalizeAliases lowercases and trims alias keys; values are only trimmed.
func normalizeAliases(aliases map[string]string) map[string]string {
	if len(aliases) == 0 {
		return nil
	}
	out := make(map[string]string, len(aliases))
	for k, v := range aliases {
		out[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	return out
}
