package models

// Step is the position of a registration attempt in the form -> otp -> success flow.
type Step string

const (
	StepForm    Step = "form"
	StepOTP     Step = "otp"
	StepSuccess Step = "success"
)

// Rank orders steps so transitions can be checked for forward-only movement.
func (s Step) Rank() int {
	switch s {
	case StepForm:
		return 0
	case StepOTP:
		return 1
	case StepSuccess:
		return 2
	}
	return -1
}

// IsValid checks if the step is one of the supported enum values.
func (s Step) IsValid() bool {
	return s.Rank() >= 0
}

func (s Step) String() string {
	return string(s)
}

const (
	// MaxResendAttempts caps successful OTP resends per registration attempt.
	MaxResendAttempts = 3
	// ResendCooldownSeconds is the wait imposed after each successful resend.
	ResendCooldownSeconds = 60
)

// State is the snapshot of one registration attempt. Values are copied on every
// transition; the zero value is not meaningful, use InitialState.
type State struct {
	FormData Draft `json:"formData"`

	// ApplicationID is empty until registration succeeds and immutable afterwards.
	ApplicationID string `json:"applicationId,omitempty"`
	// MobileNumber and Email echo what was submitted, for masked display.
	MobileNumber string `json:"mobileNumber,omitempty"`
	Email        string `json:"email,omitempty"`

	CurrentStep Step `json:"currentStep"`

	OTPSent        bool `json:"otpSent"`
	OTPVerified    bool `json:"otpVerified"`
	OTPResendCount int  `json:"otpResendCount"`
	OTPResendTimer int  `json:"otpResendTimer"`

	IsValidatingExam bool `json:"isValidatingExam"`
	IsRegistering    bool `json:"isRegistering"`
	IsVerifyingOTP   bool `json:"isVerifyingOtp"`
	IsResendingOTP   bool `json:"isResendingOtp"`

	// Empty string means no error.
	ExamValidationError string `json:"examValidationError,omitempty"`
	RegistrationError   string `json:"registrationError,omitempty"`
	OTPError            string `json:"otpError,omitempty"`

	RegistrationSuccess bool `json:"registrationSuccess"`
}

// InitialState is the state a fresh registration attempt starts from.
func InitialState() State {
	return State{
		FormData:    Draft{},
		CurrentStep: StepForm,
	}
}

// HasApplicationID reports whether registration has produced a correlation key.
func (s State) HasApplicationID() bool {
	return s.ApplicationID != ""
}

// MaxAttemptsReached reports whether the resend cap has been consumed.
func (s State) MaxAttemptsReached() bool {
	return s.OTPResendCount >= MaxResendAttempts
}

// CanResend reports whether a resend would pass the client-side checks.
func (s State) CanResend() bool {
	return s.OTPResendTimer == 0 && !s.MaxAttemptsReached()
}

// IsLoading reports whether any operation is in flight.
func (s State) IsLoading() bool {
	return s.IsValidatingExam || s.IsRegistering || s.IsVerifyingOTP || s.IsResendingOTP
}
