package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/regionrank/internal/models"
)

func newTestQualityScorer(t *testing.T) *QualityScorer {
	t.Helper()
	s, err := NewQualityScorer(DefaultQualityWeights(), DefaultTierTable())
	require.NoError(t, err)
	return s
}

func TestQualityScorer_Score(t *testing.T) {
	s := newTestQualityScorer(t)

	tests := []struct {
		name       string
		components models.QualityComponents
		wantScore  float64
		wantTier   models.Tier
	}{
		{
			name:       "uniform 80",
			components: models.QualityComponents{CommercialActivity: 80, Specialization: 80, EconomicPower: 80, Demographic: 80},
			wantScore:  80,
			wantTier:   models.Tier1,
		},
		{
			name:       "weighted mix",
			components: models.QualityComponents{CommercialActivity: 90, Specialization: 60, EconomicPower: 70, Demographic: 50},
			wantScore:  69.5,
			wantTier:   models.Tier3,
		},
		{
			name:       "exactly 80 is Tier1",
			components: models.QualityComponents{CommercialActivity: 80, Specialization: 80, EconomicPower: 80, Demographic: 80},
			wantScore:  80,
			wantTier:   models.Tier1,
		},
		{
			name:       "exactly 70 is Tier2",
			components: models.QualityComponents{CommercialActivity: 70, Specialization: 70, EconomicPower: 70, Demographic: 70},
			wantScore:  70,
			wantTier:   models.Tier2,
		},
		{
			name:       "exactly 60 is Tier3",
			components: models.QualityComponents{CommercialActivity: 60, Specialization: 60, EconomicPower: 60, Demographic: 60},
			wantScore:  60,
			wantTier:   models.Tier3,
		},
		{
			name:       "exactly 50 is Tier4",
			components: models.QualityComponents{CommercialActivity: 50, Specialization: 50, EconomicPower: 50, Demographic: 50},
			wantScore:  50,
			wantTier:   models.Tier4,
		},
		{
			name:       "just below 50 is Tier5",
			components: models.QualityComponents{CommercialActivity: 49, Specialization: 49, EconomicPower: 49, Demographic: 49},
			wantScore:  49,
			wantTier:   models.Tier5,
		},
		{
			name:       "missing components default to zero",
			components: models.QualityComponents{CommercialActivity: 100},
			wantScore:  30,
			wantTier:   models.Tier5,
		},
		{
			name:       "out of range input is clamped",
			components: models.QualityComponents{CommercialActivity: 500, Specialization: 500, EconomicPower: 500, Demographic: 500},
			wantScore:  100,
			wantTier:   models.Tier1,
		},
		{
			name:       "negative input is clamped",
			components: models.QualityComponents{CommercialActivity: -50},
			wantScore:  0,
			wantTier:   models.Tier5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(&models.RegionalProfile{ID: "r", QualityComponents: tt.components})
			assert.InDelta(t, tt.wantScore, got.QualityScore, 1e-9)
			assert.Equal(t, tt.wantTier, got.Tier)
		})
	}
}

func TestQualityScorer_NilRegion(t *testing.T) {
	got := newTestQualityScorer(t).Score(nil)
	assert.Equal(t, 0.0, got.QualityScore)
	assert.Equal(t, models.Tier5, got.Tier)
}
