package factories

import (
	"math"
	"math/rand"
)

// Indicator scores cluster around the middle tiers rather than spreading
// uniformly over 0-100.
const (
	indicatorMean = 60.0
	indicatorStd  = 18.0

	regionIncomeMean = 3_500_000.0
	regionIncomeStd  = 1_200_000.0
)

// normalizedValue draws from N(mean, std) and clamps the result to [min, max].
func normalizedValue(mean, std, min, max float64) float64 {
	// Box-Muller transform
	u1 := 1 - rand.Float64()
	u2 := rand.Float64()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

	return math.Max(min, math.Min(max, mean+z*std))
}

func indicatorScore() float64 {
	return normalizedValue(indicatorMean, indicatorStd, 0, 100)
}
