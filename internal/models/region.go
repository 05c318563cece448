package models

// QualityComponents are the pre-normalized (0-100) indicators produced by the
// upstream aggregation pipeline. Absent values decode as 0.
type QualityComponents struct {
	CommercialActivity float64 `json:"commercial_activity" yaml:"commercial_activity"`
	Specialization     float64 `json:"specialization" yaml:"specialization"`
	EconomicPower      float64 `json:"economic_power" yaml:"economic_power"`
	Demographic        float64 `json:"demographic" yaml:"demographic"`
}

type RegionalProfile struct {
	ID                    string             `json:"id" yaml:"id"`
	Name                  string             `json:"name,omitempty" yaml:"name,omitempty"`
	QualityComponents     QualityComponents  `json:"quality_components" yaml:"quality_components"`
	AgeDistribution       map[string]float64 `json:"age_distribution" yaml:"age_distribution"`
	GenderDistribution    map[string]float64 `json:"gender_distribution" yaml:"gender_distribution"`
	ConsumptionPattern    map[string]float64 `json:"consumption_pattern" yaml:"consumption_pattern"`
	AvgIncome             float64            `json:"avg_income" yaml:"avg_income"`
	SpecializedIndustries []string           `json:"specialized_industries" yaml:"specialized_industries"`
}

// DisplayName returns the name used for ranking and location matching.
func (r *RegionalProfile) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}
