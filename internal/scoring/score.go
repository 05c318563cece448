package scoring

import "math"

const (
	MinScore = 0.0
	MaxScore = 100.0

	// NeutralScore is returned by a sub-scorer that has nothing to compare.
	NeutralScore = 50.0
)

// clamp bounds v to [0,100]; NaN collapses to the floor.
func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return MinScore
	}
	return math.Max(MinScore, math.Min(MaxScore, v))
}
