package service

import (
	"errors"

	"capreg/internal/registration/client"
)

// Precondition sentinels. Returned wrapped in *OperationError before any
// backend call is made.
var (
	ErrApplicationIDNotFound = errors.New("application id not found")
	ErrMaxResendAttempts     = errors.New("maximum resend attempts reached")
	ErrResendCooldown        = errors.New("resend cooldown active")
	ErrIncompleteExamDetails = errors.New("incomplete exam details")
	ErrInvalidOTPFormat      = errors.New("invalid otp format")
)

// User-visible messages.
const (
	MsgExamRejected        = "Exam validation failed. Please check your details."
	MsgExamFailed          = "Failed to validate exam details"
	MsgRegisterRejected    = "Registration failed"
	MsgRegisterFailed      = "Failed to register. Please try again."
	MsgOTPRejected         = "Invalid OTP"
	MsgOTPFailed           = "OTP verification failed"
	MsgResendFailed        = "Failed to resend OTP"
	MsgApplicationIDAbsent = "Application ID not found"
	MsgMaxResendAttempts   = "Maximum resend attempts reached. Please try after some time."
	MsgResendCooldownFmt   = "Please wait %d seconds before resending"
	MsgOTPSent             = "OTP sent successfully"
	MsgExamIncomplete      = "Exam type, roll number and date of birth are required"
	MsgOTPFormat           = "OTP must be a 6-digit number"
)

// Operation names, used in errors, spans, logs and metric labels.
const (
	OpValidateExam   = "validate_exam"
	OpRegister       = "register"
	OpVerifyOTP      = "verify_otp"
	OpResendOTP      = "resend_otp"
	OpCheckDuplicate = "check_duplicate"
)

// ErrorKind classifies why an operation failed.
type ErrorKind string

const (
	// KindPrecondition: refused locally, the backend was not contacted.
	KindPrecondition ErrorKind = "precondition"
	// KindRejected: the backend answered with a negative business outcome.
	KindRejected ErrorKind = "rejected"
	// KindTransport: no usable answer was obtained.
	KindTransport ErrorKind = "transport"
)

// OperationError is returned by every failed operation. Message is the exact
// text to show the candidate.
type OperationError struct {
	Op      string
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	return e.Message
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// MessageOf returns the user-visible message carried by err, or err.Error().
func MessageOf(err error) string {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// KindOf returns the failure kind of err, or "" if err is not an OperationError.
func KindOf(err error) ErrorKind {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Kind
	}
	return ""
}

func preconditionError(op string, sentinel error, message string) *OperationError {
	return &OperationError{Op: op, Kind: KindPrecondition, Message: message, Err: sentinel}
}

// rejectedError builds the error for a 2xx reply that reported failure.
func rejectedError(op, serverMessage, fallback string) *OperationError {
	msg := serverMessage
	if msg == "" {
		msg = fallback
	}
	return &OperationError{Op: op, Kind: KindRejected, Message: msg}
}

// callError builds the error for a failed backend call. A non-2xx reply is a
// rejection. A reply that could not be decoded, or no reply at all, is a
// transport failure. The message prefers the server's text, then the
// transport description, then fallback.
func callError(op string, err error, fallback string) *OperationError {
	opErr := &OperationError{Op: op, Kind: KindTransport, Message: fallback, Err: err}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode != 0 && apiErr.Category != client.ErrorBadData {
			opErr.Kind = KindRejected
		}
		if msg := apiErr.UserMessage(); msg != "" {
			opErr.Message = msg
		}
		return opErr
	}

	if err != nil && err.Error() != "" {
		opErr.Message = err.Error()
	}
	return opErr
}
