package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/regionrank/internal/models"
)

func TestRecorder_ObserveRanking(t *testing.T) {
	r := New()

	results := []models.RecommendationResult{
		{FinalScore: 72, Breakdown: models.MatchResult{Defaults: models.DefaultGender | models.DefaultIndustry}},
		{FinalScore: 41, Breakdown: models.MatchResult{Defaults: models.DefaultGender}},
	}
	r.ObserveRanking(3*time.Millisecond, 25, results)
	r.ObserveRanking(time.Millisecond, 0, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.rankings))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.emptyRankings))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.neutralDefaults.WithLabelValues("gender")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.neutralDefaults.WithLabelValues("industry")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.neutralDefaults.WithLabelValues("income")))
	assert.Equal(t, uint64(2), histogramCount(t, r, "regionrank_final_score"))
	assert.Equal(t, uint64(2), histogramCount(t, r, "regionrank_ranking_duration_seconds"))
}

func histogramCount(t *testing.T, r *Recorder, name string) uint64 {
	t.Helper()
	families, err := r.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			require.Len(t, mf.GetMetric(), 1)
			return mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	t.Fatalf("metric %s not gathered", name)
	return 0
}

func TestRecorder_CatalogAndOutput(t *testing.T) {
	r := New()
	r.ObserveCatalogLoad(nil)
	r.ObserveCatalogLoad(errors.New("boom"))
	r.ObserveCatalogLoad(nil)
	r.ObserveOutputError(models.OutputFormatKafka)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.catalogLoads.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.catalogLoads.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.outputErrors.WithLabelValues("kafka")))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := New()
	r.ObserveRanking(time.Millisecond, 4, []models.RecommendationResult{{FinalScore: 55}})

	path := filepath.Join(t.TempDir(), "regionrank.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.Contains(out, "regionrank_rankings_total 1"), out)
	assert.Contains(t, out, "regionrank_ranking_duration_seconds_bucket")

	err = testutil.GatherAndCompare(r.Registry(), strings.NewReader(`
# HELP regionrank_empty_rankings_total Ranking requests that returned no recommendation
# TYPE regionrank_empty_rankings_total counter
regionrank_empty_rankings_total 0
`), "regionrank_empty_rankings_total")
	assert.NoError(t, err)
}
