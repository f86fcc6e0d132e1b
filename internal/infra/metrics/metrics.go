package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine's Prometheus collectors. One instance is built at
// bootstrap and shared; collectors are registered exactly once.
type Metrics struct {
	QuotesTotal           prometheus.Counter
	ConfirmationsTotal    prometheus.Counter
	CouponRejectionsTotal *prometheus.CounterVec
	PointsAwardedTotal    prometheus.Counter
	PointsRedeemedTotal   prometheus.Counter
	BadgesGrantedTotal    *prometheus.CounterVec
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		QuotesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "checkout_quotes_total",
			Help: "Number of pricing quotes computed.",
		}),
		ConfirmationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "checkout_confirmations_total",
			Help: "Number of confirmed orders settled against the ledger.",
		}),
		CouponRejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coupon_rejections_total",
			Help: "Coupon validation rejections by reason.",
		}, []string{"reason"}),
		PointsAwardedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loyalty_points_awarded_total",
			Help: "Loyalty points credited.",
		}),
		PointsRedeemedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loyalty_points_redeemed_total",
			Help: "Loyalty points debited.",
		}),
		BadgesGrantedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loyalty_badges_granted_total",
			Help: "Badges granted by tier.",
		}, []string{"badge"}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	reg.MustRegister(
		m.QuotesTotal,
		m.ConfirmationsTotal,
		m.CouponRejectionsTotal,
		m.PointsAwardedTotal,
		m.PointsRedeemedTotal,
		m.BadgesGrantedTotal,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)
	return m
}
