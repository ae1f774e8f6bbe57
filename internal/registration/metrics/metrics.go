package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for OperationOutcome.
const (
	OutcomeSuccess      = "success"
	OutcomeRejected     = "rejected"
	OutcomeTransport    = "transport"
	OutcomePrecondition = "precondition"
)

// Metrics provides observability for the registration flow.
type Metrics struct {
	// Backend round-trip latency by operation
	OperationLatency *prometheus.HistogramVec

	// Operation results by operation and outcome
	OperationOutcome *prometheus.CounterVec

	// Successful OTP resends
	OTPResends prometheus.Counter
}

// New registers the registration metrics with reg. A nil reg uses the
// default Prometheus registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		OperationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "capreg_registration_operation_duration_seconds",
			Help:    "Duration of registration backend calls by operation",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}), // operation: "validate_exam", "register", "verify_otp", "resend_otp"

		OperationOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "capreg_registration_operation_outcomes_total",
			Help: "Total registration operation outcomes by operation and outcome",
		}, []string{"operation", "outcome"}),

		OTPResends: factory.NewCounter(prometheus.CounterOpts{
			Name: "capreg_registration_otp_resends_total",
			Help: "Total successful OTP resends",
		}),
	}
}

// ObserveLatency records the duration of one backend call.
func (m *Metrics) ObserveLatency(operation string, d time.Duration) {
	if m != nil {
		m.OperationLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}

// IncrementOutcome records how an operation ended.
func (m *Metrics) IncrementOutcome(operation, outcome string) {
	if m != nil {
		m.OperationOutcome.WithLabelValues(operation, outcome).Inc()
	}
}

// IncrementResends counts a successful OTP resend.
func (m *Metrics) IncrementResends() {
	if m != nil {
		m.OTPResends.Inc()
	}
}
