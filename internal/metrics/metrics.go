package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg                    *prometheus.Registry
	ScansRecorded          prometheus.Counter
	UnitsScanned           prometheus.Counter
	StaleDetectionsDropped prometheus.Counter
	ActiveScans            prometheus.Gauge
	ReceiptsFinalized      *prometheus.CounterVec
	FinalizeLatencySec     prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	scans := prometheus.NewCounter(prometheus.CounterOpts{Name: "stockin_scans_recorded_total"})
	units := prometheus.NewCounter(prometheus.CounterOpts{Name: "stockin_units_scanned_total"})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{Name: "stockin_stale_detections_dropped_total"})
	active := prometheus.NewGauge(prometheus.GaugeOpts{Name: "stockin_active_scans"})
	receipts := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "stockin_receipts_finalized_total"}, []string{"po_status"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "stockin_finalize_latency_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(scans, units, dropped, active, receipts, latency)
	return &Registry{
		reg:                    r,
		ScansRecorded:          scans,
		UnitsScanned:           units,
		StaleDetectionsDropped: dropped,
		ActiveScans:            active,
		ReceiptsFinalized:      receipts,
		FinalizeLatencySec:     latency,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
