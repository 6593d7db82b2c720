package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recommender Prometheus metrics.
var (
	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dinerec",
			Name:      "recommendations_total",
			Help:      "Total number of recommendation queries",
		},
		[]string{"order", "outcome"}, // outcome: "results" / "empty"
	)

	RecommendationResultSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "dinerec",
			Name:      "recommendation_result_size",
			Help:      "Number of restaurants returned per query",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)

	RecommendationCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dinerec",
			Name:      "recommendation_cache_total",
			Help:      "Recommendation cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	DatasetRows = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "dinerec",
			Name:      "dataset_rows",
			Help:      "Rows in the loaded dataset",
		},
		[]string{"state"}, // "loaded" / "skipped"
	)

	IndexVocabularySize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "dinerec",
			Name:      "index_vocabulary_size",
			Help:      "Number of terms in the TF-IDF vocabulary",
		},
	)
)

var recMetricsRegistered bool

// RegisterRecommendMetrics registers recommender metrics. Must be called once from main.
func RegisterRecommendMetrics() {
	if recMetricsRegistered {
		return
	}
	prometheus.MustRegister(
		RecommendationsTotal,
		RecommendationResultSize,
		RecommendationCacheTotal,
		DatasetRows,
		IndexVocabularySize,
	)
	recMetricsRegistered = true
}

// ObserveDataset records dataset and index sizes.
func ObserveDataset(loaded, skipped, vocabulary int) {
	DatasetRows.WithLabelValues("loaded").Set(float64(loaded))
	DatasetRows.WithLabelValues("skipped").Set(float64(skipped))
	IndexVocabularySize.Set(float64(vocabulary))
}
