package models

// ExamValidationRequest is the body of POST /api/registration/validate-exam.
type ExamValidationRequest struct {
	ExamType    ExamType `json:"examType"`
	RollNumber  string   `json:"rollNumber"`
	DateOfBirth string   `json:"dateOfBirth"`
}

// IsComplete reports whether all three lookup keys are present.
func (r ExamValidationRequest) IsComplete() bool {
	return r.ExamType != "" && r.RollNumber != "" && r.DateOfBirth != ""
}

// OTPVerificationRequest is the body of POST /api/registration/verify-otp.
type OTPVerificationRequest struct {
	ApplicationID string `json:"applicationId"`
	OTP           string `json:"otp"`
}

// ResendOTPRequest is the body of POST /api/registration/resend-otp.
type ResendOTPRequest struct {
	ApplicationID string `json:"applicationId"`
}
