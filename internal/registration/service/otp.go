package service

import (
	"context"
	"fmt"
	"time"

	"capreg/internal/registration/flow"
	"capreg/internal/registration/models"
)

const otpLength = 6

// ResendResult is returned by a successful resend.
type ResendResult struct {
	Message           string
	AttemptsUsed      int
	AttemptsRemaining int
	CooldownSeconds   int
}

// VerifyOTP confirms code against the current application. It requires an
// application ID from a prior successful Register and a 6-digit code; either
// missing is refused without calling the backend. On success the flow moves
// to the terminal step.
func (s *Service) VerifyOTP(ctx context.Context, code string) (err error) {
	ctx, span := s.startSpan(ctx, OpVerifyOTP)
	start := time.Now()
	snapshot := s.machine.Snapshot()
	defer func() {
		s.finish(ctx, span, OpVerifyOTP, start, err, "application_id", snapshot.ApplicationID)
	}()

	if !snapshot.HasApplicationID() {
		return preconditionError(OpVerifyOTP, ErrApplicationIDNotFound, MsgApplicationIDAbsent)
	}
	if !isOTP(code) {
		return preconditionError(OpVerifyOTP, ErrInvalidOTPFormat, MsgOTPFormat)
	}

	s.machine.Dispatch(flow.OTPVerificationStarted{})

	res, callErr := s.api.VerifyOTP(ctx, models.OTPVerificationRequest{
		ApplicationID: snapshot.ApplicationID,
		OTP:           code,
	})
	if callErr != nil {
		opErr := callError(OpVerifyOTP, callErr, MsgOTPFailed)
		s.machine.Dispatch(flow.OTPVerificationFailed{Message: opErr.Message})
		return opErr
	}

	if !res.Success || !res.Verified {
		opErr := rejectedError(OpVerifyOTP, res.Message, MsgOTPRejected)
		s.machine.Dispatch(flow.OTPVerificationFailed{Message: opErr.Message})
		return opErr
	}

	s.machine.Dispatch(flow.OTPVerificationSucceeded{}, flow.GoToSuccessStep{})
	s.countdown.Stop()
	return nil
}

// ResendOTP asks the backend for a new code. Local checks run first, in
// order: application ID present, attempts left, cooldown elapsed. A
// successful send consumes one attempt and starts the cooldown countdown;
// a failed one changes neither.
func (s *Service) ResendOTP(ctx context.Context) (result *ResendResult, err error) {
	ctx, span := s.startSpan(ctx, OpResendOTP)
	start := time.Now()
	snapshot := s.machine.Snapshot()
	defer func() {
		s.finish(ctx, span, OpResendOTP, start, err,
			"application_id", snapshot.ApplicationID,
			"resend_count", snapshot.OTPResendCount,
		)
	}()

	if !snapshot.HasApplicationID() {
		return nil, preconditionError(OpResendOTP, ErrApplicationIDNotFound, MsgApplicationIDAbsent)
	}
	if snapshot.MaxAttemptsReached() {
		return nil, preconditionError(OpResendOTP, ErrMaxResendAttempts, MsgMaxResendAttempts)
	}
	if snapshot.OTPResendTimer > 0 {
		return nil, preconditionError(OpResendOTP, ErrResendCooldown,
			fmt.Sprintf(MsgResendCooldownFmt, snapshot.OTPResendTimer))
	}

	s.machine.Dispatch(flow.ResendOTPStarted{})

	res, callErr := s.api.ResendOTP(ctx, models.ResendOTPRequest{ApplicationID: snapshot.ApplicationID})
	if callErr != nil {
		opErr := callError(OpResendOTP, callErr, MsgResendFailed)
		s.machine.Dispatch(flow.ResendOTPFailed{Message: opErr.Message})
		return nil, opErr
	}

	if !res.Success || !res.OTPSent {
		opErr := rejectedError(OpResendOTP, res.Message, MsgResendFailed)
		s.machine.Dispatch(flow.ResendOTPFailed{Message: opErr.Message})
		return nil, opErr
	}

	state := s.machine.Dispatch(flow.ResendOTPSucceeded{})
	s.metrics.IncrementResends()
	s.countdown.Start(s.lifetime)

	return &ResendResult{
		Message:           MsgOTPSent,
		AttemptsUsed:      state.OTPResendCount,
		AttemptsRemaining: max(models.MaxResendAttempts-state.OTPResendCount, 0),
		CooldownSeconds:   state.OTPResendTimer,
	}, nil
}

func isOTP(code string) bool {
	if len(code) != otpLength {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
