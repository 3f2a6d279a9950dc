package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Counter metrics
var (
	// Login counters
	LoginCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restb_auth_login_total",
			Help: "Total number of login attempts",
		},
		[]string{"audience"}, // b2c, b2b, google
	)

	// Registration counters
	RegisterCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restb_auth_register_total",
			Help: "Total number of registrations",
		},
		[]string{"audience"},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restb_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "login_failure", "invalid_token", "db_error" etc.
	)

	BookingCreatedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restb_bookings_created_total",
			Help: "Total number of bookings created by initial status",
		},
		[]string{"status"},
	)

	GeocodeCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restb_geocode_requests_total",
			Help: "Total number of geocoding lookups",
		},
		[]string{"result"}, // found, not_found, error
	)

	RateLimitedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "restb_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)

	EmailCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restb_emails_total",
			Help: "Total number of transactional emails by type and result",
		},
		[]string{"type", "result"},
	)
)

// Histogram metrics
var (
	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "restb_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "delete"
	)
)

func init() {
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(BookingCreatedCounter)
	prometheus.MustRegister(GeocodeCounter)
	prometheus.MustRegister(RateLimitedCounter)
	prometheus.MustRegister(EmailCounter)

	prometheus.MustRegister(DBOperationDuration)
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordLogin records a login attempt for an audience
func RecordLogin(audience string) {
	LoginCounter.With(prometheus.Labels{"audience": audience}).Inc()
}

// RecordRegister records a registration for an audience
func RecordRegister(audience string) {
	RegisterCounter.With(prometheus.Labels{"audience": audience}).Inc()
}

// RecordBookingCreated records a new booking by its initial status
func RecordBookingCreated(status string) {
	BookingCreatedCounter.With(prometheus.Labels{"status": status}).Inc()
}

// RecordGeocode records the outcome of an address lookup
func RecordGeocode(result string) {
	GeocodeCounter.With(prometheus.Labels{"result": result}).Inc()
}

// RecordRateLimited records a rejected request
func RecordRateLimited() {
	RateLimitedCounter.Inc()
}

// RecordEmail records an email send outcome
func RecordEmail(emailType, result string) {
	EmailCounter.With(prometheus.Labels{"type": emailType, "result": result}).Inc()
}
