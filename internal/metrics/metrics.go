// Package metrics exposes Prometheus instrumentation for the batch pipelines
// and the HTTP trigger surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline outcome counters, labeled by pipeline name
// (classification, image_tagging, video_tagging).
var (
	PipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "admirror_pipeline_runs_total",
		Help: "Total pipeline runs by pipeline name",
	}, []string{"pipeline"})

	PipelineDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "admirror_pipeline_duration_seconds",
		Help:    "Pipeline run duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"pipeline"})

	AdsTagged = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "admirror_ads_tagged_total",
		Help: "Ads tagged by pipeline and outcome (tagged, deduped, failed, skipped, no_audio)",
	}, []string{"pipeline", "outcome"})

	CompetitorsClassified = promauto.NewCounter(prometheus.CounterOpts{
		Name: "admirror_competitors_classified_total",
		Help: "Competitors classified across all runs",
	})

	TrackChanges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "admirror_track_changes_total",
		Help: "Competitor track changes logged",
	})

	AISpendUSD = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "admirror_ai_spend_usd_total",
		Help: "Estimated AI spend in USD by pipeline",
	}, []string{"pipeline"})
)
