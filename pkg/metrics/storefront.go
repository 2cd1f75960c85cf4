package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records catalog fetch and cart activity.
type StorefrontMetrics struct {
	fetchDuration *prometheus.HistogramVec
	fetchFailure  *prometheus.CounterVec
	cartOps       *prometheus.CounterVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	fetchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_fetch_duration_seconds",
		Help:    "Duration of catalog API fetches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource"})
	fetchFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_fetch_failures",
		Help: "Failed catalog API fetches.",
	}, []string{"resource"})
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations",
		Help: "Cart mutations applied, by operation.",
	}, []string{"op"})
	reg.MustRegister(fetchDuration, fetchFailure, cartOps)
	return &StorefrontMetrics{
		fetchDuration: fetchDuration,
		fetchFailure:  fetchFailure,
		cartOps:       cartOps,
	}
}

// ObserveFetch records the duration of a catalog fetch for the named resource.
func (m *StorefrontMetrics) ObserveFetch(resource string, duration time.Duration) {
	if m == nil || m.fetchDuration == nil {
		return
	}
	m.fetchDuration.WithLabelValues(normalizeLabel(resource)).Observe(duration.Seconds())
}

// IncFetchFailure increments the failure counter for the named resource.
func (m *StorefrontMetrics) IncFetchFailure(resource string) {
	if m == nil || m.fetchFailure == nil {
		return
	}
	m.fetchFailure.WithLabelValues(normalizeLabel(resource)).Inc()
}

// IncCartOp increments the mutation counter for the named cart operation.
func (m *StorefrontMetrics) IncCartOp(op string) {
	if m == nil || m.cartOps == nil {
		return
	}
	m.cartOps.WithLabelValues(normalizeLabel(op)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
