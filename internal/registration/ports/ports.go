// Package ports defines the interfaces the registration service consumes.
package ports

import (
	"context"

	"capreg/internal/registration/models"
)

//go:generate mockgen -source=ports.go -destination=mocks/ports_mock.go -package=mocks

// RegistrationAPI is the admissions backend as seen by the registration flow.
// Implementations own transport concerns (timeouts, auth headers); a non-nil
// error means no usable response body was obtained.
type RegistrationAPI interface {
	// ValidateExam looks up the exam-board record for a roll number and date of birth.
	ValidateExam(ctx context.Context, req models.ExamValidationRequest) (*models.ExamValidationResponse, error)

	// Register creates the application record from the full draft.
	Register(ctx context.Context, draft models.Draft) (*models.RegistrationResponse, error)

	// VerifyOTP confirms the code sent to the registered contacts.
	VerifyOTP(ctx context.Context, req models.OTPVerificationRequest) (*models.OTPVerificationResponse, error)

	// ResendOTP asks the backend to issue a new code.
	ResendOTP(ctx context.Context, req models.ResendOTPRequest) (*models.ResendOTPResponse, error)

	// CheckMobileDuplicate reports whether a mobile number is already registered.
	CheckMobileDuplicate(ctx context.Context, mobile string) (bool, error)

	// CheckEmailDuplicate reports whether an email address is already registered.
	CheckEmailDuplicate(ctx context.Context, email string) (bool, error)
}
