package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Observer is the process wide metrics sink.
var Observer = &Metrics{
	prometheus: NewPrometheusMetrics(),
}

func init() {
	prometheus.MustRegister(Observer.prometheus.collectors()...)
}

type Metrics struct {
	prometheus Prometheus
}

// Fit records a fitted model for the given cluster count and the number of initialisations it took.
func (m *Metrics) Fit(k int, restarts int) {
	label := strconv.Itoa(k)
	m.prometheus.Fits.WithLabelValues(label).Inc()
	m.prometheus.Restarts.WithLabelValues(label).Add(float64(restarts))
}

// Degenerate records a fit with empty clusters.
func (m *Metrics) Degenerate(k int) {
	m.prometheus.Degenerate.WithLabelValues(strconv.Itoa(k)).Inc()
}

// Silhouette records the latest silhouette score for the given cluster count.
func (m *Metrics) Silhouette(k int, score float64) {
	m.prometheus.Silhouette.WithLabelValues(strconv.Itoa(k)).Set(score)
}

// Sweep records the duration of a sweep.
func (m *Metrics) Sweep(d time.Duration) {
	m.prometheus.Sweeps.Observe(d.Seconds())
}

// Handler exposes the registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
