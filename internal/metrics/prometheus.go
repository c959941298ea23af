package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus holds the collectors exposed by the clustering processes.
type Prometheus struct {
	Fits       *prometheus.CounterVec
	Restarts   *prometheus.CounterVec
	Degenerate *prometheus.CounterVec
	Silhouette *prometheus.GaugeVec
	Sweeps     prometheus.Histogram
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Fits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cluster",
				Name:      "fits",
				Help:      "number of k-means models fitted",
			}, []string{"k"}),
		Restarts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cluster",
				Name:      "restarts",
				Help:      "number of k-means initialisations evaluated",
			}, []string{"k"}),
		Degenerate: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cluster",
				Name:      "degenerate",
				Help:      "number of fits ending up with empty clusters",
			}, []string{"k"}),
		Silhouette: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "cluster",
				Name:      "silhouette",
				Help:      "last mean silhouette coefficient per cluster count",
			}, []string{"k"}),
		Sweeps: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "cluster",
				Name:      "sweep_seconds",
				Help:      "duration of a full cluster count sweep",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
			}),
	}
}

func (p Prometheus) collectors() []prometheus.Collector {
	return []prometheus.Collector{p.Fits, p.Restarts, p.Degenerate, p.Silhouette, p.Sweeps}
}
