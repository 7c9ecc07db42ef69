package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DatasetUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dataset_uploads_total",
		Help: "Total number of table uploads by kind",
	}, []string{"kind"})

	DatasetUploadsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dataset_uploads_failed_total",
		Help: "Total number of rejected table uploads",
	}, []string{"reason"})

	DatasetResetsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dataset_resets_total",
		Help: "Total number of dataset resets",
	})

	AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analyses_total",
		Help: "Total number of completed analyses by kind",
	}, []string{"kind"})

	AnalysesFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analyses_failed_total",
		Help: "Total number of failed analyses",
	}, []string{"kind", "reason"})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "analysis_duration_seconds",
		Help:    "Latency of analysis computations",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	InsightRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insight_requests_total",
		Help: "Total number of narrative generation requests",
	}, []string{"kind", "outcome"})

	InsightCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "insight_cache_hits_total",
		Help: "Total number of narrative cache hits",
	})

	InsightTokensTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "insight_tokens_total",
		Help: "Total tokens consumed by narrative generation",
	})

	InsightLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "insight_latency_seconds",
		Help:    "Latency of narrative generation calls",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
