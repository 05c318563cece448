package scoring

import (
	"strings"

	"github.com/chrisdamba/regionrank/internal/models"
)

// Combiner merges quality and matching into the final score and applies the
// contextual multipliers.
type Combiner struct {
	mode          CombineMode
	qualityWeight float64
	weekend       float64
	location      float64
}

func NewCombiner(cfg Config) (*Combiner, error) {
	if err := cfg.validateCombiner(); err != nil {
		return nil, err
	}
	return &Combiner{
		mode:          cfg.CombineMode,
		qualityWeight: cfg.AverageQualityWeight,
		weekend:       cfg.WeekendMultiplier,
		location:      cfg.LocationMultiplier,
	}, nil
}

func (c *Combiner) Mode() CombineMode {
	return c.mode
}

// Combine returns the final score for a candidate. regionName is only used for
// the location preference check.
func (c *Combiner) Combine(quality, matching float64, regionName string, mods models.RequestModifiers) float64 {
	quality, matching = clamp(quality), clamp(matching)

	var final float64
	switch c.mode {
	case CombineAverage:
		final = c.qualityWeight*quality + (1-c.qualityWeight)*matching
	default:
		final = quality / MaxScore * matching
	}

	if mods.IsWeekend {
		final *= c.weekend
	}
	if matchesLocation(regionName, mods.LocationPreference) {
		final *= c.location
	}
	return clamp(final)
}

func matchesLocation(regionName, preference string) bool {
	return preference != "" && strings.Contains(regionName, preference)
}
