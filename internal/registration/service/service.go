// Package service runs the registration operations: exam validation,
// registration submission, OTP verification and OTP resend.
//
// Each operation performs at most one backend call and records its progress
// in the flow.Machine it was given, so the machine's snapshot always tells the
// caller which step to show and which error to display.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"capreg/internal/registration/flow"
	"capreg/internal/registration/metrics"
	"capreg/internal/registration/models"
	"capreg/internal/registration/ports"
)

const tracerName = "capreg/internal/registration/service"

type Service struct {
	api       ports.RegistrationAPI
	machine   *flow.Machine
	countdown *flow.Countdown
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer

	countdownOpts []flow.CountdownOption

	// lifetime scopes the cooldown goroutine; cancelled by Close.
	lifetime context.Context
	cancel   context.CancelFunc
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

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithCountdownOptions configures the resend cooldown countdown, for example
// to inject a manual tick source in tests.
func WithCountdownOptions(opts ...flow.CountdownOption) Option {
	return func(s *Service) {
		s.countdownOpts = append(s.countdownOpts, opts...)
	}
}

// New creates a Service that records progress in machine. The caller owns
// machine and may read snapshots from it directly.
func New(api ports.RegistrationAPI, machine *flow.Machine, opts ...Option) (*Service, error) {
	if api == nil {
		return nil, errors.New("registration api is required")
	}
	if machine == nil {
		return nil, errors.New("flow machine is required")
	}

	svc := &Service{
		api:     api,
		machine: machine,
		logger:  slog.New(slog.DiscardHandler),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(svc)
	}

	svc.countdown = flow.NewCountdown(machine, append([]flow.CountdownOption{
		flow.WithCountdownLogger(svc.logger),
	}, svc.countdownOpts...)...)
	svc.lifetime, svc.cancel = context.WithCancel(context.Background())
	// A machine resumed mid-cooldown keeps counting down.
	svc.countdown.Start(svc.lifetime)

	return svc, nil
}

// State returns the current snapshot of the registration attempt.
func (s *Service) State() models.State {
	return s.machine.Snapshot()
}

// UpdateForm merges patch into the draft.
func (s *Service) UpdateForm(patch models.DraftPatch) models.State {
	return s.machine.Dispatch(flow.UpdateFormData{Patch: patch})
}

// ClearErrors clears every error slot.
func (s *Service) ClearErrors() models.State {
	return s.machine.Dispatch(flow.ClearErrors{})
}

// Reset stops the cooldown and restores the initial state.
func (s *Service) Reset() models.State {
	s.countdown.Stop()
	return s.machine.Reset()
}

// CanResend reports whether ResendOTP would pass its local checks.
func (s *Service) CanResend() bool {
	return s.machine.Snapshot().CanResend()
}

// MaxAttemptsReached reports whether every resend attempt has been used.
func (s *Service) MaxAttemptsReached() bool {
	return s.machine.Snapshot().MaxAttemptsReached()
}

// CooldownRunning reports whether the resend countdown goroutine is active.
func (s *Service) CooldownRunning() bool {
	return s.countdown.Running()
}

// Close stops the cooldown countdown and waits for it to exit. The service
// must not be used afterwards.
func (s *Service) Close() {
	s.cancel()
	s.countdown.Stop()
}

// startSpan opens the span for one operation.
func (s *Service) startSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "registration."+op, trace.WithAttributes(
		attribute.String("registration.operation", op),
	))
}

// finish records the outcome of op on span, metrics and log.
func (s *Service) finish(ctx context.Context, span trace.Span, op string, start time.Time, err error, attrs ...any) {
	defer span.End()

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = string(KindOf(err))
		if outcome == "" {
			outcome = metrics.OutcomeTransport
		}
		span.SetStatus(codes.Error, outcome)
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.SetAttributes(attribute.String("registration.outcome", outcome))
	s.metrics.IncrementOutcome(op, outcome)

	if outcome != metrics.OutcomePrecondition {
		s.metrics.ObserveLatency(op, time.Since(start))
	}

	args := append([]any{"operation", op, "outcome", outcome, "duration", time.Since(start)}, attrs...)
	switch {
	case err == nil:
		s.logger.InfoContext(ctx, "registration operation succeeded", args...)
	case outcome == string(KindTransport):
		s.logger.ErrorContext(ctx, "registration operation failed", append(args, "error", err)...)
	default:
		s.logger.WarnContext(ctx, "registration operation refused", append(args, "reason", MessageOf(err))...)
	}
}
