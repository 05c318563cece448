package scoring

import (
	"runtime"
	"sort"

	"github.com/sourcegraph/conc/iter"

	"github.com/chrisdamba/regionrank/internal/models"
)

// Recommender ranks a region catalog for one user. It holds only validated,
// immutable configuration and is safe for concurrent use.
type Recommender struct {
	quality  *QualityScorer
	matcher  *Matcher
	combiner *Combiner
	workers  int
}

func NewRecommender(cfg Config) (*Recommender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	quality, err := NewQualityScorer(cfg.Quality, cfg.Tiers)
	if err != nil {
		return nil, err
	}
	matcher, err := NewMatcher(cfg)
	if err != nil {
		return nil, err
	}
	combiner, err := NewCombiner(cfg)
	if err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Recommender{
		quality:  quality,
		matcher:  matcher,
		combiner: combiner,
		workers:  workers,
	}, nil
}

func (r *Recommender) Mode() CombineMode {
	return r.combiner.Mode()
}

// TierDescription interprets a quality score using the configured tier table.
func (r *Recommender) TierDescription(quality float64) string {
	return r.quality.Tiers().Describe(quality)
}

// Score evaluates a single candidate without reasons or rank.
func (r *Recommender) Score(user *models.UserProfile, region *models.RegionalProfile, mods models.RequestModifiers) models.RecommendationResult {
	q := r.quality.Score(region)
	match := r.matcher.Match(user, region)

	var name, id string
	if region != nil {
		name, id = region.DisplayName(), region.ID
	}
	return models.RecommendationResult{
		Region:        name,
		RegionID:      id,
		QualityScore:  q.QualityScore,
		MatchingScore: match.MatchingScore,
		FinalScore:    r.combiner.Combine(q.QualityScore, match.MatchingScore, name, mods),
		Tier:          q.Tier,
		Breakdown:     match,
	}
}

type scored struct {
	region *models.RegionalProfile
	result models.RecommendationResult
}

// Rank scores every region in catalog and returns at most mods.Limit()
// results ordered by final score, quality score, region name and region id.
// Nil entries and candidates at the zero floor are left out. The returned
// slice is never nil.
func (r *Recommender) Rank(user *models.UserProfile, catalog []*models.RegionalProfile, mods models.RequestModifiers) []models.RecommendationResult {
	regions := make([]*models.RegionalProfile, 0, len(catalog))
	for _, region := range catalog {
		if region != nil {
			regions = append(regions, region)
		}
	}
	if len(regions) == 0 {
		return []models.RecommendationResult{}
	}

	mapper := iter.Mapper[*models.RegionalProfile, scored]{MaxGoroutines: r.workers}
	all := mapper.Map(regions, func(region **models.RegionalProfile) scored {
		return scored{region: *region, result: r.Score(user, *region, mods)}
	})

	candidates := all[:0]
	for _, c := range all {
		if c.result.FinalScore > MinScore {
			candidates = append(candidates, c)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return rankLess(candidates[i].result, candidates[j].result)
	})

	if limit := mods.Limit(); len(candidates) > limit {
		candidates = candidates[:limit]
	}

	results := make([]models.RecommendationResult, len(candidates))
	for i, c := range candidates {
		res := c.result
		res.Rank = i + 1
		res.Reasons = r.matcher.Reasons(user, c.region, res.Breakdown, res.Tier, mods)
		results[i] = res
	}
	return results
}

func rankLess(a, b models.RecommendationResult) bool {
	if a.FinalScore != b.FinalScore {
		return a.FinalScore > b.FinalScore
	}
	if a.QualityScore != b.QualityScore {
		return a.QualityScore > b.QualityScore
	}
	if a.Region != b.Region {
		return a.Region < b.Region
	}
	return a.RegionID < b.RegionID
}
