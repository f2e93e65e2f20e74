package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeCached  = "cached"
	OutcomeSkipped = "skipped"
)

var (
	InferenceCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evidentia_inference_calls_total",
		Help: "Judgment provider calls by provider and outcome",
	}, []string{"provider", "outcome"})

	Searches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evidentia_searches_total",
		Help: "Search queries by provider and outcome",
	}, []string{"provider", "outcome"})

	Fetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evidentia_fetches_total",
		Help: "Evidence page fetches by outcome",
	}, []string{"outcome"})

	Facts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evidentia_facts_total",
		Help: "Extracted facts by disposition (accepted, duplicate)",
	}, []string{"disposition"})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "evidentia_analysis_duration_seconds",
		Help:    "Wall time of complete analyses",
		Buckets: []float64{5, 15, 30, 60, 120, 300, 600, 1200},
	}, []string{"band"})

	ResearchIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "evidentia_research_iterations",
		Help:    "Research loop iterations per analysis",
		Buckets: prometheus.LinearBuckets(1, 1, 12),
	})
)
