package scoring

import "github.com/chrisdamba/regionrank/internal/models"

type QualityResult struct {
	QualityScore float64
	Tier         models.Tier
}

// QualityScorer rates a region independently of any user.
type QualityScorer struct {
	weights QualityWeights
	tiers   TierTable
}

func NewQualityScorer(weights QualityWeights, tiers TierTable) (*QualityScorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if err := tiers.Validate(); err != nil {
		return nil, err
	}
	return &QualityScorer{weights: weights, tiers: tiers}, nil
}

// Score computes the weighted component sum. A nil region scores as if every
// component were absent.
func (s *QualityScorer) Score(region *models.RegionalProfile) QualityResult {
	var c models.QualityComponents
	if region != nil {
		c = region.QualityComponents
	}
	q := clamp(c.CommercialActivity*s.weights.CommercialActivity +
		c.Specialization*s.weights.Specialization +
		c.Demographic*s.weights.Demographic +
		c.EconomicPower*s.weights.EconomicPower)
	return QualityResult{QualityScore: q, Tier: s.tiers.Lookup(q)}
}

func (s *QualityScorer) Tiers() TierTable {
	return s.tiers
}
