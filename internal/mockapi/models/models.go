// Package models holds the records kept by the mock admissions backend.
package models

import (
	"time"

	regmodels "capreg/internal/registration/models"
)

// ExamRecord is one row of the exam board's result sheet.
type ExamRecord struct {
	ExamType      regmodels.ExamType
	RollNumber    string
	DateOfBirth   string
	CandidateName string
	Score         float64
}

// ApplicationStatus tracks an application through contact verification.
type ApplicationStatus string

const (
	StatusPendingVerification ApplicationStatus = "pending_verification"
	StatusVerified            ApplicationStatus = "verified"
)

// Application is a registered candidate. The password is kept only as a hash.
type Application struct {
	ID           string
	Draft        regmodels.Draft // Password and ConfirmPassword are cleared before storage
	PasswordHash []byte
	DegreeCode   string
	Status       ApplicationStatus
	CreatedAt    time.Time
	VerifiedAt   *time.Time

	OTP OTPChallenge
}

// OTPChallenge is the code currently outstanding for an application.
type OTPChallenge struct {
	ID          string
	Code        string
	IssuedAt    time.Time
	ExpiresAt   time.Time
	ResendCount int
	// LastResendAt is zero until the first resend.
	LastResendAt time.Time
	FailedChecks int
}

// IsExpiredAt reports whether the code can no longer be used at now.
func (c OTPChallenge) IsExpiredAt(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// IsVerified reports whether the application's contacts were confirmed.
func (a *Application) IsVerified() bool {
	return a.Status == StatusVerified
}
