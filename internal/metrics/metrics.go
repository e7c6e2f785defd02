package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ingestion metrics
var (
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_pipeline_uploads_total",
			Help: "Total number of upload submissions by admission outcome",
		},
		[]string{"outcome"},
	)

	UploadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_pipeline_upload_bytes_total",
			Help: "Total bytes streamed to the blob store during ingestion",
		},
	)
)

// Worker pipeline metrics
var (
	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_pipeline_runs_total",
			Help: "Total number of transcode pipeline runs by result",
		},
		[]string{"result"},
	)

	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_pipeline_run_duration_seconds",
			Help:    "Transcode pipeline run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)
)
