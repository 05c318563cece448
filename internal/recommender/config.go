package recommender

import (
	"github.com/chrisdamba/regionrank/internal/models"
	"github.com/chrisdamba/regionrank/internal/scoring"
)

// ScoringConfig derives the engine configuration from the application config.
// Tables that are not configurable keep their defaults.
func ScoringConfig(cfg *models.Config) scoring.Config {
	sc := scoring.DefaultConfig()
	sc.Quality = scoring.QualityWeights(cfg.Weights.Quality)
	sc.Matching = scoring.MatchingWeights(cfg.Weights.Matching)
	sc.CombineMode = scoring.CombineMode(cfg.CombineMode)
	sc.AverageQualityWeight = cfg.AverageQualityWeight
	sc.IndustryAliases = cfg.IndustryAliases
	sc.Workers = cfg.Workers
	return sc
}
