// Package metrics records ranking activity in a dedicated prometheus registry
// that can be exported as a node_exporter textfile.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/chrisdamba/regionrank/internal/models"
)

const namespace = "regionrank"

type Recorder struct {
	registry *prometheus.Registry

	rankings        prometheus.Counter
	emptyRankings   prometheus.Counter
	duration        prometheus.Histogram
	candidates      prometheus.Histogram
	returned        prometheus.Histogram
	finalScores     prometheus.Histogram
	neutralDefaults *prometheus.CounterVec
	outputErrors    *prometheus.CounterVec
	catalogLoads    *prometheus.CounterVec
}

func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		rankings: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rankings_total",
			Help:      "Total ranking requests served",
		}),
		emptyRankings: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "empty_rankings_total",
			Help:      "Ranking requests that returned no recommendation",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ranking_duration_seconds",
			Help:      "Time to rank one catalog for one user",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		candidates: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ranking_candidates",
			Help:      "Catalog size per ranking request",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		returned: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ranking_results",
			Help:      "Recommendations returned per ranking request",
			Buckets:   []float64{0, 1, 3, 5, 10, 20, 50},
		}),
		finalScores: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "final_score",
			Help:      "Final scores of returned recommendations",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}),
		neutralDefaults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "neutral_defaults_total",
			Help:      "Neutral default scores applied in returned recommendations, by matching dimension",
		}, []string{"dimension"}),
		outputErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "output_errors_total",
			Help:      "Failed writes to a result destination",
		}, []string{"format"}),
		catalogLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_loads_total",
			Help:      "Catalog snapshot reads by outcome",
		}, []string{"outcome"}),
	}
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveRanking records one completed ranking request.
func (r *Recorder) ObserveRanking(elapsed time.Duration, candidates int, results []models.RecommendationResult) {
	r.rankings.Inc()
	r.duration.Observe(elapsed.Seconds())
	r.candidates.Observe(float64(candidates))
	r.returned.Observe(float64(len(results)))
	if len(results) == 0 {
		r.emptyRankings.Inc()
	}

	for _, res := range results {
		r.finalScores.Observe(res.FinalScore)
		for _, name := range res.Breakdown.Defaults.Names() {
			r.neutralDefaults.WithLabelValues(name).Inc()
		}
	}
}

func (r *Recorder) ObserveCatalogLoad(err error) {
	if err != nil {
		r.catalogLoads.WithLabelValues("error").Inc()
		return
	}
	r.catalogLoads.WithLabelValues("ok").Inc()
}

func (r *Recorder) ObserveOutputError(format string) {
	r.outputErrors.WithLabelValues(format).Inc()
}

// WriteTextfile atomically writes the registry in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
