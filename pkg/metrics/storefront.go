package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records checkout attempt outcomes and cart mutations.
type StorefrontMetrics struct {
	checkoutDuration *prometheus.HistogramVec
	checkoutSuccess  *prometheus.CounterVec
	checkoutFailure  *prometheus.CounterVec
	cartMutations    *prometheus.CounterVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided
// registerer. A nil registerer yields a no-op recorder, which keeps tests and
// workers that do not expose /metrics from panicking on double registration.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	checkoutDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_attempt_duration_seconds",
		Help:    "Duration of checkout submission attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	checkoutSuccess := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_success",
		Help: "Checkout attempts that produced an order.",
	}, []string{"discounted"})
	checkoutFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failure",
		Help: "Checkout attempts rejected or failed upstream.",
	}, []string{"reason"})
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations",
		Help: "Cart slot mutations by operation.",
	}, []string{"op"})
	reg.MustRegister(checkoutDuration, checkoutSuccess, checkoutFailure, cartMutations)
	return &StorefrontMetrics{
		checkoutDuration: checkoutDuration,
		checkoutSuccess:  checkoutSuccess,
		checkoutFailure:  checkoutFailure,
		cartMutations:    cartMutations,
	}
}

// ObserveCheckout records the duration of one submission attempt.
func (m *StorefrontMetrics) ObserveCheckout(outcome string, duration time.Duration) {
	if m == nil || m.checkoutDuration == nil {
		return
	}
	m.checkoutDuration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncCheckoutSuccess counts a confirmed order, split by whether a discount applied.
func (m *StorefrontMetrics) IncCheckoutSuccess(discounted bool) {
	if m == nil || m.checkoutSuccess == nil {
		return
	}
	label := "no"
	if discounted {
		label = "yes"
	}
	m.checkoutSuccess.WithLabelValues(label).Inc()
}

// IncCheckoutFailure counts a failed attempt by reason.
func (m *StorefrontMetrics) IncCheckoutFailure(reason string) {
	if m == nil || m.checkoutFailure == nil {
		return
	}
	m.checkoutFailure.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncCartMutation counts a cart slot write by operation name.
func (m *StorefrontMetrics) IncCartMutation(op string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
