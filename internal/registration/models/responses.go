package models

// ExamValidationResponse is returned by the exam-board lookup.
type ExamValidationResponse struct {
	Valid         bool     `json:"valid"`
	CandidateName string   `json:"candidateName,omitempty"`
	Score         *float64 `json:"score,omitempty"`
	Message       string   `json:"message,omitempty"`
}

// RegistrationResponse is returned when the application record is created.
type RegistrationResponse struct {
	Success       bool   `json:"success"`
	ApplicationID string `json:"applicationId"`
	Message       string `json:"message,omitempty"`
	MobileNumber  string `json:"mobileNumber"`
	Email         string `json:"email"`
}

// OTPVerificationResponse is returned by the OTP check.
type OTPVerificationResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Verified bool   `json:"verified"`
}

// ResendOTPResponse is returned when a new OTP is requested.
type ResendOTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	OTPSent bool   `json:"otpSent"`
}

// DuplicateCheckResponse is returned by GET /api/registration/check-duplicate.
type DuplicateCheckResponse struct {
	Exists bool `json:"exists"`
}

// ErrorResponse is the error envelope the backend uses for non-2xx replies.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
