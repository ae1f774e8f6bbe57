// Package flow holds the registration state machine.
//
// Reduce is a pure function over (State, Event). Machine owns the single mutable
// instance for one registration attempt and applies events atomically. Nothing
// in this package performs I/O except Countdown, which only reads the clock.
package flow

import "capreg/internal/registration/models"

// Event is a transition of the registration state.
type Event interface {
	apply(s models.State) models.State
}

// Reduce returns the state that results from applying e to s. s is not modified.
func Reduce(s models.State, e Event) models.State {
	if e == nil {
		return s
	}
	return e.apply(s)
}

// -----------------------------------------------------------------------------
// Form data
// -----------------------------------------------------------------------------

// UpdateFormData merges a partial draft into the accumulated one.
type UpdateFormData struct {
	Patch models.DraftPatch
}

func (e UpdateFormData) apply(s models.State) models.State {
	s.FormData = s.FormData.Merge(e.Patch)
	return s
}

// ResetFormData clears the draft and nothing else.
type ResetFormData struct{}

func (ResetFormData) apply(s models.State) models.State {
	s.FormData = models.Draft{}
	return s
}

// -----------------------------------------------------------------------------
// Application info
// -----------------------------------------------------------------------------

// SetApplicationID records the server-assigned identifier. Once set it is kept
// for the rest of the attempt; a different value is ignored.
type SetApplicationID struct {
	ApplicationID string
}

func (e SetApplicationID) apply(s models.State) models.State {
	s.ApplicationID = assignOnce(s.ApplicationID, e.ApplicationID)
	return s
}

// SetContactInfo records the contact details the OTP was sent to.
type SetContactInfo struct {
	Mobile string
	Email  string
}

func (e SetContactInfo) apply(s models.State) models.State {
	s.MobileNumber = e.Mobile
	s.Email = e.Email
	return s
}

func assignOnce(current, next string) string {
	if current != "" || next == "" {
		return current
	}
	return next
}

// -----------------------------------------------------------------------------
// Steps
// -----------------------------------------------------------------------------

// SetCurrentStep moves to the given step if it is the immediate successor of
// the current one. Backward or skipping moves are ignored.
type SetCurrentStep struct {
	Step models.Step
}

func (e SetCurrentStep) apply(s models.State) models.State {
	if e.Step.Rank() == s.CurrentStep.Rank()+1 {
		s.CurrentStep = e.Step
	}
	return s
}

// GoToOTPStep enters the OTP step after a successful registration.
type GoToOTPStep struct{}

func (GoToOTPStep) apply(s models.State) models.State {
	switch s.CurrentStep {
	case models.StepForm, models.StepOTP:
		s.CurrentStep = models.StepOTP
		s.OTPSent = true
	}
	return s
}

// GoToSuccessStep enters the terminal step after a successful OTP verification.
type GoToSuccessStep struct{}

func (GoToSuccessStep) apply(s models.State) models.State {
	switch s.CurrentStep {
	case models.StepOTP, models.StepSuccess:
		s.CurrentStep = models.StepSuccess
		s.OTPVerified = true
		s.RegistrationSuccess = true
	}
	return s
}

// -----------------------------------------------------------------------------
// Exam validation
// -----------------------------------------------------------------------------

type ExamValidationStarted struct{}

func (ExamValidationStarted) apply(s models.State) models.State {
	s.IsValidatingExam = true
	s.ExamValidationError = ""
	return s
}

type ExamValidationSucceeded struct {
	CandidateName string
}

func (e ExamValidationSucceeded) apply(s models.State) models.State {
	s.IsValidatingExam = false
	s.ExamValidationError = ""
	s.FormData.CandidateName = e.CandidateName
	return s
}

type ExamValidationFailed struct {
	Message string
}

func (e ExamValidationFailed) apply(s models.State) models.State {
	s.IsValidatingExam = false
	s.ExamValidationError = e.Message
	return s
}

// -----------------------------------------------------------------------------
// Registration
// -----------------------------------------------------------------------------

type RegistrationStarted struct{}

func (RegistrationStarted) apply(s models.State) models.State {
	s.IsRegistering = true
	s.RegistrationError = ""
	return s
}

type RegistrationSucceeded struct {
	ApplicationID string
	Mobile        string
	Email         string
}

func (e RegistrationSucceeded) apply(s models.State) models.State {
	s.IsRegistering = false
	s.RegistrationError = ""
	s.ApplicationID = assignOnce(s.ApplicationID, e.ApplicationID)
	s.MobileNumber = e.Mobile
	s.Email = e.Email
	return s
}

type RegistrationFailed struct {
	Message string
}

func (e RegistrationFailed) apply(s models.State) models.State {
	s.IsRegistering = false
	s.RegistrationError = e.Message
	return s
}

// -----------------------------------------------------------------------------
// OTP verification
// -----------------------------------------------------------------------------

type OTPVerificationStarted struct{}

func (OTPVerificationStarted) apply(s models.State) models.State {
	s.IsVerifyingOTP = true
	s.OTPError = ""
	return s
}

type OTPVerificationSucceeded struct{}

func (OTPVerificationSucceeded) apply(s models.State) models.State {
	s.IsVerifyingOTP = false
	s.OTPVerified = true
	s.OTPError = ""
	return s
}

type OTPVerificationFailed struct {
	Message string
}

func (e OTPVerificationFailed) apply(s models.State) models.State {
	s.IsVerifyingOTP = false
	s.OTPError = e.Message
	return s
}

// -----------------------------------------------------------------------------
// OTP resend
// -----------------------------------------------------------------------------

type ResendOTPStarted struct{}

func (ResendOTPStarted) apply(s models.State) models.State {
	s.IsResendingOTP = true
	s.OTPError = ""
	return s
}

// ResendOTPSucceeded consumes one attempt and starts the cooldown.
type ResendOTPSucceeded struct{}

func (ResendOTPSucceeded) apply(s models.State) models.State {
	s.IsResendingOTP = false
	s.OTPResendCount++
	s.OTPResendTimer = models.ResendCooldownSeconds
	s.OTPError = ""
	return s
}

// ResendOTPFailed leaves the attempt counter and timer untouched.
type ResendOTPFailed struct {
	Message string
}

func (e ResendOTPFailed) apply(s models.State) models.State {
	s.IsResendingOTP = false
	s.OTPError = e.Message
	return s
}

// DecrementResendTimer is fired once per second by Countdown. Floors at zero.
type DecrementResendTimer struct{}

func (DecrementResendTimer) apply(s models.State) models.State {
	if s.OTPResendTimer > 0 {
		s.OTPResendTimer--
	}
	return s
}

// -----------------------------------------------------------------------------
// Reset
// -----------------------------------------------------------------------------

// ResetRegistration discards the attempt and returns to the initial state.
type ResetRegistration struct{}

func (ResetRegistration) apply(models.State) models.State {
	return models.InitialState()
}

// ClearErrors clears every error slot without touching loading flags or step.
type ClearErrors struct{}

func (ClearErrors) apply(s models.State) models.State {
	s.ExamValidationError = ""
	s.RegistrationError = ""
	s.OTPError = ""
	return s
}
