package scoring

import "math"

// WeightTolerance is the allowed deviation of a weight set's sum from 1.0.
const WeightTolerance = 1e-6

type QualityWeights struct {
	CommercialActivity float64
	Specialization     float64
	Demographic        float64
	EconomicPower      float64
}

func DefaultQualityWeights() QualityWeights {
	return QualityWeights{
		CommercialActivity: 0.30,
		Specialization:     0.25,
		Demographic:        0.20,
		EconomicPower:      0.25,
	}
}

func (w QualityWeights) Sum() float64 {
	return w.CommercialActivity + w.Specialization + w.Demographic + w.EconomicPower
}

func (w QualityWeights) Validate() error {
	return validateWeightSet("quality_weights", w.Sum(),
		w.CommercialActivity, w.Specialization, w.Demographic, w.EconomicPower)
}

type MatchingWeights struct {
	Demographic float64
	Consumption float64
	Income      float64
	Industry    float64
}

func DefaultMatchingWeights() MatchingWeights {
	return MatchingWeights{
		Demographic: 0.40,
		Consumption: 0.35,
		Income:      0.15,
		Industry:    0.10,
	}
}

func (w MatchingWeights) Sum() float64 {
	return w.Demographic + w.Consumption + w.Income + w.Industry
}

func (w MatchingWeights) Validate() error {
	return validateWeightSet("matching_weights", w.Sum(),
		w.Demographic, w.Consumption, w.Income, w.Industry)
}

// DemographicWeights split the demographic sub-score between age and gender.
type DemographicWeights struct {
	Age    float64
	Gender float64
}

func DefaultDemographicWeights() DemographicWeights {
	return DemographicWeights{Age: 0.8, Gender: 0.2}
}

func (w DemographicWeights) Sum() float64 {
	return w.Age + w.Gender
}

func (w DemographicWeights) Validate() error {
	return validateWeightSet("demographic_weights", w.Sum(), w.Age, w.Gender)
}

func validateWeightSet(field string, sum float64, weights ...float64) error {
	for _, v := range weights {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return configErrorf(field, "weights must be finite and non-negative, got %v", v)
		}
	}
	if math.Abs(sum-1.0) > WeightTolerance {
		return configErrorf(field, "weights sum to %.6f, must sum to 1.0", sum)
	}
	return nil
}
