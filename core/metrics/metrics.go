package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "inventory"

var (
	importsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Feed imports by merge mode and outcome.",
		},
		[]string{"mode", "outcome"},
	)

	importRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_rows_total",
			Help:      "Parsed feed rows by result (valid, excluded, empty, invalid).",
		},
		[]string{"result"},
	)

	mergeFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merge_failures_total",
			Help:      "Items that could not be written during a merge.",
		},
		[]string{"mode"},
	)

	snapshotsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_total",
			Help:      "Snapshots taken by kind (manual, auto).",
		},
		[]string{"kind"},
	)

	diffDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "diff_duration_seconds",
			Help:      "Time spent computing snapshot diffs.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	itemsByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "items",
			Help:      "Live items by stock status, as of the last listing.",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(importsTotal, importRowsTotal, mergeFailuresTotal, snapshotsTotal, diffDuration, itemsByStatus)
}

// RecordImport counts one import and its rows.
func RecordImport(mode, outcome string, valid, excluded, empty, invalid, failed int) {
	importsTotal.WithLabelValues(mode, outcome).Inc()
	importRowsTotal.WithLabelValues("valid").Add(float64(valid))
	importRowsTotal.WithLabelValues("excluded").Add(float64(excluded))
	importRowsTotal.WithLabelValues("empty").Add(float64(empty))
	importRowsTotal.WithLabelValues("invalid").Add(float64(invalid))
	if failed > 0 {
		mergeFailuresTotal.WithLabelValues(mode).Add(float64(failed))
	}
}

// RecordSnapshot counts one snapshot.
func RecordSnapshot(auto bool) {
	kind := "manual"
	if auto {
		kind = "auto"
	}
	snapshotsTotal.WithLabelValues(kind).Inc()
}

// ObserveDiff records how long a diff took since start.
func ObserveDiff(start time.Time) {
	diffDuration.Observe(time.Since(start).Seconds())
}

// SetItemsByStatus replaces the per-status gauge values.
func SetItemsByStatus(counts map[string]int) {
	itemsByStatus.Reset()
	for status, n := range counts {
		itemsByStatus.WithLabelValues(status).Set(float64(n))
	}
}

// Handler exposes the default registry to Fiber.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
