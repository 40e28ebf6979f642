package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const MetricsPrefix = "talent_pulse_"

var generationsCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: MetricsPrefix + "dataset_generations_total",
		Help: "Number of synthetic datasets generated",
	},
	[]string{"source"},
)

var generatedRowsGauge = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: MetricsPrefix + "dataset_rows",
		Help: "Number of observations in the cached dataset",
	},
	[]string{"months"},
)

var pipelineApplyHist = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    MetricsPrefix + "pipeline_apply_seconds",
		Help:    "Time taken to filter and aggregate the dataset",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	},
)

var filteredRowsHist = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    MetricsPrefix + "pipeline_filtered_rows",
		Help:    "Number of observations left after filtering",
		Buckets: []float64{0, 12, 24, 48, 96, 144, 288},
	},
)

var snapshotSavesCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: MetricsPrefix + "snapshot_saves_total",
		Help: "Number of dataset snapshot persistence attempts",
	},
	[]string{"status"},
)

var websocketClientsGauge = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: MetricsPrefix + "websocket_clients",
		Help: "Number of connected websocket clients",
	},
)

// RecordGeneration учитывает генерацию или восстановление набора данных.
// source: "generated" или "snapshot"
func RecordGeneration(source string, months string, rows int) {
	generationsCounter.WithLabelValues(source).Inc()
	generatedRowsGauge.WithLabelValues(months).Set(float64(rows))
}

func RecordPipelineApply(duration time.Duration, filteredRows int) {
	pipelineApplyHist.Observe(duration.Seconds())
	filteredRowsHist.Observe(float64(filteredRows))
}

func RecordSnapshotSave(status string) {
	snapshotSavesCounter.WithLabelValues(status).Inc()
}

func SetWebsocketClients(n int) {
	websocketClientsGauge.Set(float64(n))
}
