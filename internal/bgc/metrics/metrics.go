package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for BGC product calls, the vendor endpoint
// and the result cache. All methods are safe on a nil receiver.
type Metrics struct {
	// Product call latency and outcome
	ProductLatency *prometheus.HistogramVec
	ProductOutcome *prometheus.CounterVec

	// Vendor endpoint round trips by HTTP status class
	EndpointLatency *prometheus.HistogramVec
	ResponseBytes   prometheus.Histogram

	// Vendor-reported error codes
	VendorErrors *prometheus.CounterVec

	// Result cache
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
}

// New creates a Metrics instance registered with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a Metrics instance registered with reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ProductLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "idcheck_bgc_product_duration_seconds",
			Help:    "Duration of BGC product calls including normalization",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"product"}),

		ProductOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "idcheck_bgc_product_outcomes_total",
			Help: "BGC product call outcomes by product and outcome",
		}, []string{"product", "outcome"}), // outcome: ok, api_error, product_error, malformed, failed

		EndpointLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "idcheck_bgc_endpoint_duration_seconds",
			Help:    "Duration of HTTP round trips to the BGC host",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"status"}),

		ResponseBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "idcheck_bgc_response_bytes",
			Help:    "Size of BGC response bodies",
			Buckets: prometheus.ExponentialBuckets(512, 4, 8),
		}),

		VendorErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "idcheck_bgc_vendor_errors_total",
			Help: "Error codes reported by BGC by tier",
		}, []string{"tier", "code"}),

		CacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "idcheck_bgc_cache_hits_total",
			Help: "Result cache hits by product",
		}, []string{"product"}),

		CacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "idcheck_bgc_cache_misses_total",
			Help: "Result cache misses by product",
		}, []string{"product"}),
	}
}

// ObserveProduct records the duration and outcome of a product call.
func (m *Metrics) ObserveProduct(product, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.ProductLatency.WithLabelValues(product).Observe(d.Seconds())
	m.ProductOutcome.WithLabelValues(product, outcome).Inc()
}

// ObserveEndpoint records an HTTP round trip. status is the status class
// ("2xx", "5xx") or "error" when no response arrived.
func (m *Metrics) ObserveEndpoint(status string, d time.Duration) {
	if m != nil {
		m.EndpointLatency.WithLabelValues(status).Observe(d.Seconds())
	}
}

// ObserveResponseBytes records the size of a response body.
func (m *Metrics) ObserveResponseBytes(n int) {
	if m != nil {
		m.ResponseBytes.Observe(float64(n))
	}
}

// IncrementVendorError counts one vendor-reported error code.
func (m *Metrics) IncrementVendorError(tier, code string) {
	if m != nil {
		m.VendorErrors.WithLabelValues(tier, CodeLabel(code)).Inc()
	}
}

// OtherCode labels vendor error codes outside the numeric range BGC uses.
const OtherCode = "other"

const maxCodeDigits = 3

// CodeLabel bounds vendor error codes to at most 1000 label values per tier.
func CodeLabel(code string) string {
	if code == "" || len(code) > maxCodeDigits {
		return OtherCode
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return OtherCode
		}
	}
	return code
}

// IncrementCacheHit records a result cache hit.
func (m *Metrics) IncrementCacheHit(product string) {
	if m != nil {
		m.CacheHits.WithLabelValues(product).Inc()
	}
}

// IncrementCacheMiss records a result cache miss.
func (m *Metrics) IncrementCacheMiss(product string) {
	if m != nil {
		m.CacheMisses.WithLabelValues(product).Inc()
	}
}
