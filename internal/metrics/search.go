package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search stage labels.
const (
	StageText   = "text"
	StageVector = "vector"
	StageFused  = "fused"
)

var (
	searchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "libris",
			Name:      "search_duration_seconds",
			Help:      "Search pipeline duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"mode", "status"},
	)

	searchStageCandidates = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "libris",
			Name:      "search_stage_candidates",
			Help:      "Number of candidates returned by a search stage",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 200},
		},
		[]string{"stage"},
	)

	searchDegradedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "libris",
			Name:      "search_degraded_total",
			Help:      "Hybrid searches answered lexical-only after a semantic stage failure",
		},
	)
)

func init() {
	prometheus.MustRegister(searchDuration)
	prometheus.MustRegister(searchStageCandidates)
	prometheus.MustRegister(searchDegradedTotal)
}

// ObserveSearch records the duration of one search request.
func ObserveSearch(mode string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	searchDuration.WithLabelValues(mode, status).Observe(time.Since(start).Seconds())
}

// ObserveStageCandidates records how many candidates a stage produced.
func ObserveStageCandidates(stage string, n int) {
	searchStageCandidates.WithLabelValues(stage).Observe(float64(n))
}

// IncSearchDegraded counts a hybrid search that fell back to lexical-only.
func IncSearchDegraded() {
	searchDegradedTotal.Inc()
}
