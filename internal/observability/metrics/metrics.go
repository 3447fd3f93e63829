package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	RegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campusnest_registrations_total",
			Help: "Total number of account registration attempts.",
		},
		[]string{"service", "result"},
	)

	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campusnest_logins_total",
			Help: "Total number of login attempts.",
		},
		[]string{"service", "result"},
	)

	ReviewsSubmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campusnest_reviews_submitted_total",
			Help: "Total number of review submissions by outcome.",
		},
		[]string{"service", "result"},
	)

	FavoriteChangesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campusnest_favorite_changes_total",
			Help: "Total number of favorite add/remove attempts.",
		},
		[]string{"service", "action", "result"},
	)

	AuthenticationAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campusnest_authentication_attempts_total",
			Help: "Bearer token checks on protected routes.",
		},
		[]string{"service", "result"},
	)
)

var registerOnce sync.Once

// MustRegister curries the service label and registers every collector with
// reg. Only the first call has any effect; the vectors are package globals.
func MustRegister(reg prometheus.Registerer, serviceName string) {
	registerOnce.Do(func() { mustRegister(reg, serviceName) })
}

func mustRegister(reg prometheus.Registerer, serviceName string) {
	labels := prometheus.Labels{"service": serviceName}
	HTTPRequestsTotal = HTTPRequestsTotal.MustCurryWith(labels)
	HTTPRequestDurationSeconds = HTTPRequestDurationSeconds.MustCurryWith(labels).(*prometheus.HistogramVec)
	RegistrationsTotal = RegistrationsTotal.MustCurryWith(labels)
	LoginsTotal = LoginsTotal.MustCurryWith(labels)
	ReviewsSubmittedTotal = ReviewsSubmittedTotal.MustCurryWith(labels)
	FavoriteChangesTotal = FavoriteChangesTotal.MustCurryWith(labels)
	AuthenticationAttemptsTotal = AuthenticationAttemptsTotal.MustCurryWith(labels)

	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		RegistrationsTotal,
		LoginsTotal,
		ReviewsSubmittedTotal,
		FavoriteChangesTotal,
		AuthenticationAttemptsTotal,
	)
}

// Result maps an error to the result label value.
func Result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
