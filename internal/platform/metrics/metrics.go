package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics of the mock admissions backend.
type Metrics struct {
	ApplicationsCreated prometheus.Counter
	OTPsIssued          prometheus.Counter
	ExamLookups         *prometheus.CounterVec
	OTPVerifications    *prometheus.CounterVec
	RequestLatency      *prometheus.HistogramVec
}

// New creates and registers all backend metrics with reg. A nil reg uses the
// default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		ApplicationsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "capreg_mockapi_applications_created_total",
			Help: "Total number of application records created",
		}),
		OTPsIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "capreg_mockapi_otps_issued_total",
			Help: "Total number of OTPs issued, including resends",
		}),
		ExamLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "capreg_mockapi_exam_lookups_total",
			Help: "Exam-board lookups by result",
		}, []string{"result"}), // result: "valid", "not_found", "dob_mismatch"
		OTPVerifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "capreg_mockapi_otp_verifications_total",
			Help: "OTP verification attempts by result",
		}, []string{"result"}), // result: "verified", "invalid", "expired"
		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "capreg_mockapi_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) IncrementApplicationsCreated() {
	if m != nil {
		m.ApplicationsCreated.Inc()
	}
}

func (m *Metrics) IncrementOTPsIssued() {
	if m != nil {
		m.OTPsIssued.Inc()
	}
}

func (m *Metrics) IncrementExamLookup(result string) {
	if m != nil {
		m.ExamLookups.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) IncrementOTPVerification(result string) {
	if m != nil {
		m.OTPVerifications.WithLabelValues(result).Inc()
	}
}

// ObserveRequest records the latency of one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
	}
}
