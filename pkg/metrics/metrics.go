package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Order metrics
	OrdersPlacedCounter  *prometheus.CounterVec
	OrderFailuresCounter *prometheus.CounterVec
	OrderRevenueCounter  prometheus.Counter

	// Coupon metrics
	CouponValidationsCounter *prometheus.CounterVec

	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec

	// Custom order image retention
	ImagesSweptCounter prometheus.Counter

	RateLimitedCounter *prometheus.CounterVec

	initOnce sync.Once
)

// Init registers all collectors with the default registry. Only the first
// call has any effect.
func Init(prefix string) {
	initOnce.Do(func() { register(prefix) })
}

func register(prefix string) {
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	OrdersPlacedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_orders_placed_total",
			Help: "Total number of committed orders",
		},
		[]string{"method"},
	)

	OrderFailuresCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_order_failures_total",
			Help: "Total number of rejected order attempts",
		},
		[]string{"reason"},
	)

	OrderRevenueCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_order_revenue_total",
			Help: "Sum of committed order totals",
		},
	)

	CouponValidationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_coupon_validations_total",
			Help: "Total number of coupon validations by result",
		},
		[]string{"result"},
	)

	DbOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	ImagesSweptCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_custom_order_images_swept_total",
			Help: "Total number of expired custom order images deleted",
		},
	)

	RateLimitedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_rate_limited_requests_total",
			Help: "Total number of requests refused by the rate limiter",
		},
		[]string{"class"},
	)
}

// The record helpers below are no-ops until Init has run, so packages can be
// used without a metrics registry (tests, tooling).

func RecordHTTPRequest(method, path, status string, d time.Duration) {
	if HttpRequestsTotal == nil {
		return
	}
	HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
}

func RecordOrderPlaced(method string, total float64) {
	if OrdersPlacedCounter == nil {
		return
	}
	OrdersPlacedCounter.WithLabelValues(method).Inc()
	OrderRevenueCounter.Add(total)
}

func RecordOrderFailure(reason string) {
	if OrderFailuresCounter == nil {
		return
	}
	OrderFailuresCounter.WithLabelValues(reason).Inc()
}

// RecordCouponValidation labels with "valid" or the rejection reason.
func RecordCouponValidation(result string) {
	if CouponValidationsCounter == nil {
		return
	}
	CouponValidationsCounter.WithLabelValues(result).Inc()
}

func RecordImagesSwept(n int) {
	if ImagesSweptCounter == nil {
		return
	}
	ImagesSweptCounter.Add(float64(n))
}

func RecordRateLimited(class string) {
	if RateLimitedCounter == nil {
		return
	}
	RateLimitedCounter.WithLabelValues(class).Inc()
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if DbOperationDuration == nil {
			return
		}
		DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}
