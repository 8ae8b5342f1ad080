package monitor

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector exposes a Buffer's fill level and a running duplicate-drop
// count as Prometheus metrics, following the const-metric collector
// shape used elsewhere in the pack for small hardware-adjacent tools:
// Describe/Collect built from a handful of prometheus.Desc values rather
// than a struct of promauto gauges, since the values it reports are all
// read out of the Buffer at scrape time, not accumulated independently.
type Collector struct {
	buf *Buffer
}

var (
	fillDesc = prometheus.NewDesc(
		"scsi_monitor_capture_buffer_samples",
		"Number of samples currently held in the capture buffer",
		nil, nil,
	)
	capacityDesc = prometheus.NewDesc(
		"scsi_monitor_capture_buffer_capacity",
		"Capacity of the capture buffer",
		nil, nil,
	)
	droppedDesc = prometheus.NewDesc(
		"scsi_monitor_duplicate_samples_dropped_total",
		"Acquisitions not appended because the bus word was unchanged",
		nil, nil,
	)
)

// NewCollector wraps buf; its metrics are read from buf at scrape time.
func NewCollector(buf *Buffer) *Collector {
	return &Collector{buf: buf}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- fillDesc
	ch <- capacityDesc
	ch <- droppedDesc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(fillDesc, prometheus.GaugeValue, float64(c.buf.Len()))
	ch <- prometheus.MustNewConstMetric(capacityDesc, prometheus.GaugeValue, float64(c.buf.capacity))
	ch <- prometheus.MustNewConstMetric(droppedDesc, prometheus.CounterValue, float64(c.buf.Dropped()))
}

// ServeMetrics registers c against a dedicated registry and serves it on
// addr at /metrics until the process exits or ListenAndServe errors. The
// caller runs it in its own goroutine; it is optional instrumentation,
// never required for capture or report generation to function.
func ServeMetrics(addr string, c *Collector) error {
	reg := prometheus.NewPedanticRegistry()
	reg.MustRegister(c)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return http.ListenAndServe(addr, mux)
}
