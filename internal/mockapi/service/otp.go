package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"capreg/internal/mockapi/models"
	regmodels "capreg/internal/registration/models"
	"capreg/pkg/platform/sentinel"
	"capreg/pkg/requestcontext"
)

const (
	msgApplicationIDRequired = "applicationId is required"
	msgApplicationNotFound   = "Application not found"
	msgAlreadyVerified       = "Application is already verified"
	msgOTPVerified           = "OTP verified successfully"
	msgOTPInvalid            = "Invalid OTP"
	msgOTPExpired            = "OTP has expired. Please request a new one."
	msgOTPLocked             = "Too many incorrect attempts. Please request a new OTP."
	msgOTPSent               = "OTP sent successfully"
	msgMaxResends            = "Maximum resend attempts reached. Please try after some time."
	msgResendCooldownFmt     = "Please wait %d seconds before resending"
)

const resendCooldown = regmodels.ResendCooldownSeconds * time.Second

// VerifyOTP checks code for an application. A wrong or expired code is a
// negative result; an unknown or already verified application is an error.
func (s *Service) VerifyOTP(ctx context.Context, req regmodels.OTPVerificationRequest) (*regmodels.OTPVerificationResponse, error) {
	if req.ApplicationID == "" {
		return nil, newError(KindInvalid, msgApplicationIDRequired, nil)
	}

	now := requestcontext.Now(ctx)
	var result string

	_, err := s.store.Update(ctx, req.ApplicationID, func(app *models.Application) error {
		if app.IsVerified() {
			return newError(KindConflict, msgAlreadyVerified, sentinel.ErrInvalidState)
		}

		switch {
		case app.OTP.FailedChecks >= maxFailedChecks:
			result = "locked"
		case app.OTP.IsExpiredAt(now):
			result = "expired"
		case app.OTP.Code != req.OTP:
			app.OTP.FailedChecks++
			result = "invalid"
		default:
			app.Status = models.StatusVerified
			app.VerifiedAt = &now
			app.OTP.Code = ""
			result = "verified"
		}
		return nil
	})
	if err != nil {
		return nil, s.applicationError(err)
	}

	s.metrics.IncrementOTPVerification(result)
	s.logger.InfoContext(ctx, "otp verification",
		"application_id", req.ApplicationID,
		"result", result,
		"request_id", requestcontext.RequestID(ctx),
	)

	switch result {
	case "verified":
		return &regmodels.OTPVerificationResponse{Success: true, Verified: true, Message: msgOTPVerified}, nil
	case "expired":
		return &regmodels.OTPVerificationResponse{Success: false, Verified: false, Message: msgOTPExpired}, nil
	case "locked":
		return &regmodels.OTPVerificationResponse{Success: false, Verified: false, Message: msgOTPLocked}, nil
	default:
		return &regmodels.OTPVerificationResponse{Success: false, Verified: false, Message: msgOTPInvalid}, nil
	}
}

// ResendOTP replaces the outstanding code. The backend enforces the same
// attempt cap and cooldown as the client.
func (s *Service) ResendOTP(ctx context.Context, req regmodels.ResendOTPRequest) (*regmodels.ResendOTPResponse, error) {
	if req.ApplicationID == "" {
		return nil, newError(KindInvalid, msgApplicationIDRequired, nil)
	}

	now := requestcontext.Now(ctx)

	app, err := s.store.Update(ctx, req.ApplicationID, func(app *models.Application) error {
		if app.IsVerified() {
			return newError(KindConflict, msgAlreadyVerified, sentinel.ErrInvalidState)
		}
		if app.OTP.ResendCount >= regmodels.MaxResendAttempts {
			return newError(KindRateLimited, msgMaxResends, nil)
		}
		if !app.OTP.LastResendAt.IsZero() {
			if wait := app.OTP.LastResendAt.Add(resendCooldown).Sub(now); wait > 0 {
				return newError(KindRateLimited, fmt.Sprintf(msgResendCooldownFmt, ceilSeconds(wait)), nil)
			}
		}

		next, err := s.issueChallenge(now)
		if err != nil {
			return err
		}
		next.ResendCount = app.OTP.ResendCount + 1
		next.LastResendAt = now
		app.OTP = next
		return nil
	})
	if err != nil {
		return nil, s.applicationError(err)
	}

	s.deliver(ctx, app)
	return &regmodels.ResendOTPResponse{Success: true, OTPSent: true, Message: msgOTPSent}, nil
}

func (s *Service) issueChallenge(now time.Time) (models.OTPChallenge, error) {
	code, err := s.newCode()
	if err != nil {
		return models.OTPChallenge{}, err
	}
	return models.OTPChallenge{
		ID:        uuid.NewString(),
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.otpTTL),
	}, nil
}

// deliver hands the code to the notifier. Delivery failures are logged; the
// candidate can always resend.
func (s *Service) deliver(ctx context.Context, app *models.Application) {
	s.metrics.IncrementOTPsIssued()
	if err := s.notifier.SendOTP(ctx, app); err != nil {
		s.logger.ErrorContext(ctx, "otp delivery failed",
			"application_id", app.ID,
			"challenge_id", app.OTP.ID,
			"error", err,
		)
	}
}

func (s *Service) applicationError(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return newError(KindNotFound, msgApplicationNotFound, err)
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return fmt.Errorf("update application: %w", err)
}

func ceilSeconds(d time.Duration) int {
	secs := int(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}
	return secs
}
