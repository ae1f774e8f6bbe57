// Package mockapi assembles the fake admissions backend: seeded exam-board
// records, the in-memory application store, and the HTTP routes.
package mockapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"capreg/internal/mockapi/handler"
	"capreg/internal/mockapi/models"
	"capreg/internal/mockapi/service"
	"capreg/internal/mockapi/store"
	"capreg/internal/platform/metrics"
	regmodels "capreg/internal/registration/models"
)

// SeedRecords are the exam-board rows the backend starts with.
func SeedRecords() []models.ExamRecord {
	return []models.ExamRecord{
		{ExamType: regmodels.ExamTypeNEET, RollNumber: "NEET2024001", DateOfBirth: "2006-04-12", CandidateName: "Asha Patil", Score: 612},
		{ExamType: regmodels.ExamTypeNEET, RollNumber: "NEET2024002", DateOfBirth: "2005-11-03", CandidateName: "Rohan Deshmukh", Score: 587},
		{ExamType: regmodels.ExamTypeMHTCET, RollNumber: "MHT2024101", DateOfBirth: "2006-01-25", CandidateName: "Sneha Kulkarni", Score: 98.42},
		{ExamType: regmodels.ExamTypeMHTCET, RollNumber: "MHT2024102", DateOfBirth: "2005-08-17", CandidateName: "Imran Shaikh", Score: 91.07},
	}
}

// Options configures a Server. Zero values fall back to service defaults.
type Options struct {
	Logger *slog.Logger
	// Registry receives the backend metrics. A fresh registry is used when nil.
	Registry *prometheus.Registry
	Token    string
	DevOTP   string
	OTPTTL   time.Duration
	Notifier service.Notifier
	Records  []models.ExamRecord
	// Service options applied after the ones derived from the fields above.
	ServiceOptions []service.Option
}

// Server is the assembled backend.
type Server struct {
	Store   *store.InMemory
	Service *service.Service
	Router  chi.Router
}

// New wires the store, service and routes, and serves /metrics.
func New(opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
	}
	records := opts.Records
	if records == nil {
		records = SeedRecords()
	}

	m := metrics.New(reg)
	st := store.New(records...)

	svcOpts := []service.Option{
		service.WithLogger(logger),
		service.WithMetrics(m),
		service.WithOTPTTL(opts.OTPTTL),
		service.WithDevOTP(opts.DevOTP),
	}
	if opts.Notifier != nil {
		svcOpts = append(svcOpts, service.WithNotifier(opts.Notifier))
	}
	svcOpts = append(svcOpts, opts.ServiceOptions...)

	svc, err := service.New(st, svcOpts...)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	handler.New(svc, logger, m, opts.Token).Register(r)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return &Server{Store: st, Service: svc, Router: r}, nil
}
