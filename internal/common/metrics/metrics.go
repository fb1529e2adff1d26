// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	RankingListings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ranking_listings_total",
			Help: "Listings entering and leaving the ranking engine",
		},
		[]string{"stage"},
	)

	RankingDuplicatesRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ranking_duplicates_removed_total",
			Help: "Listings dropped as near duplicates",
		},
	)

	RankingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ranking_duration_seconds",
			Help:    "Time spent ranking one candidate set",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		},
	)

	ListingSearchSource = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_search_source_total",
			Help: "Listing searches by the source that answered them",
		},
		[]string{"source"},
	)

	GenAIFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genai_fallbacks_total",
			Help: "GenAI calls answered by a local fallback",
		},
		[]string{"operation"},
	)
)

// Stage labels for RankingListings.
const (
	StageInput  = "input"
	StageOutput = "output"
)

// ObserveRanking records one ranking pass.
func ObserveRanking(inputCount, outputCount int, seconds float64) {
	RankingListings.WithLabelValues(StageInput).Add(float64(inputCount))
	RankingListings.WithLabelValues(StageOutput).Add(float64(outputCount))
	if removed := inputCount - outputCount; removed > 0 {
		RankingDuplicatesRemoved.Add(float64(removed))
	}
	RankingDuration.Observe(seconds)
}
