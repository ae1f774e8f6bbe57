// Package service implements the mock admissions backend: exam-board lookup,
// application creation, and OTP issue and verification.
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"capreg/internal/mockapi/models"
	"capreg/internal/platform/metrics"
	regmodels "capreg/internal/registration/models"
	"capreg/internal/registration/validation"
)

const (
	defaultOTPTTL = 10 * time.Minute
	// maxFailedChecks invalidates an outstanding code after this many wrong guesses.
	maxFailedChecks = 5
)

// Store is the persistence the backend needs.
type Store interface {
	FindExam(ctx context.Context, examType regmodels.ExamType, roll string) (models.ExamRecord, error)
	MobileExists(ctx context.Context, mobile string) bool
	EmailExists(ctx context.Context, email string) bool
	Create(ctx context.Context, app *models.Application) (string, error)
	Get(ctx context.Context, id string) (*models.Application, error)
	Update(ctx context.Context, id string, fn func(app *models.Application) error) (*models.Application, error)
}

// CodeGenerator returns a fresh 6-digit code.
type CodeGenerator func() (string, error)

type Service struct {
	store      Store
	notifier   Notifier
	validator  *validation.Validator
	logger     *slog.Logger
	metrics    *metrics.Metrics
	otpTTL     time.Duration
	bcryptCost int
	newCode    CodeGenerator
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

func WithOTPTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.otpTTL = ttl
		}
	}
}

// WithDevOTP issues code for every challenge. Local runs only.
func WithDevOTP(code string) Option {
	return func(s *Service) {
		if code != "" {
			s.newCode = func() (string, error) { return code, nil }
		}
	}
}

func WithCodeGenerator(gen CodeGenerator) Option {
	return func(s *Service) {
		s.newCode = gen
	}
}

// WithBcryptCost lowers the password hashing cost, for tests.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.bcryptCost = cost
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("application store is required")
	}

	svc := &Service{
		store:      store,
		validator:  validation.New(),
		logger:     slog.New(slog.DiscardHandler),
		otpTTL:     defaultOTPTTL,
		bcryptCost: bcrypt.DefaultCost,
		newCode:    randomCode,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.notifier == nil {
		svc.notifier = LogNotifier{Logger: svc.logger}
	}
	return svc, nil
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
