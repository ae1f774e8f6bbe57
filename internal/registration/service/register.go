package service

import (
	"context"
	"time"

	"capreg/internal/registration/flow"
	"capreg/internal/registration/models"
	"capreg/pkg/platform/privacy"
)

// RegistrationResult is returned by a successful submission.
type RegistrationResult struct {
	ApplicationID string
	MobileNumber  string
	Email         string
}

// Register submits the full draft. On success the application ID and the
// contact echo are recorded and the flow moves to the OTP step; on failure
// the step stays on the form. The draft is merged into the stored form data
// first, so nothing entered is lost on a failed attempt.
//
// Field-level validation is the caller's job, see package validation.
func (s *Service) Register(ctx context.Context, draft models.Draft) (result *RegistrationResult, err error) {
	ctx, span := s.startSpan(ctx, OpRegister)
	start := time.Now()
	defer func() {
		s.finish(ctx, span, OpRegister, start, err,
			"mobile", privacy.MaskMobile(draft.MobileNo),
			"email", privacy.MaskEmail(draft.Email),
		)
	}()

	s.machine.Dispatch(
		flow.UpdateFormData{Patch: draft.AsPatch()},
		flow.RegistrationStarted{},
	)

	res, callErr := s.api.Register(ctx, draft)
	if callErr != nil {
		opErr := callError(OpRegister, callErr, MsgRegisterFailed)
		s.machine.Dispatch(flow.RegistrationFailed{Message: opErr.Message})
		return nil, opErr
	}

	if !res.Success || res.ApplicationID == "" {
		opErr := rejectedError(OpRegister, res.Message, MsgRegisterRejected)
		s.machine.Dispatch(flow.RegistrationFailed{Message: opErr.Message})
		return nil, opErr
	}

	mobile := firstNonEmpty(res.MobileNumber, draft.MobileNo)
	email := firstNonEmpty(res.Email, draft.Email)

	state := s.machine.Dispatch(
		flow.RegistrationSucceeded{ApplicationID: res.ApplicationID, Mobile: mobile, Email: email},
		flow.GoToOTPStep{},
	)

	return &RegistrationResult{
		ApplicationID: state.ApplicationID,
		MobileNumber:  mobile,
		Email:         email,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
