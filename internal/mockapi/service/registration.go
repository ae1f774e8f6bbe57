package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"capreg/internal/mockapi/models"
	"capreg/internal/mockapi/store"
	regmodels "capreg/internal/registration/models"
	"capreg/internal/registration/validation"
	"capreg/pkg/platform/privacy"
	"capreg/pkg/platform/sentinel"
	"capreg/pkg/requestcontext"
)

const (
	msgExamFieldsRequired = "examType, rollNumber and dateOfBirth are required"
	msgExamNotFound       = "No exam record found for the given roll number"
	msgExamDOBMismatch    = "Date of birth does not match exam records"
	msgExamUnverified     = "Exam details could not be verified"
	msgMobileTaken        = "Mobile number is already registered"
	msgEmailTaken         = "Email is already registered"
	msgRegistered         = "Registration successful. OTP sent to your registered mobile and email."
	msgDuplicateParam     = "mobile or email query parameter is required"
)

// ValidateExam checks a roll number and date of birth against the exam board.
// An unknown roll or a mismatched date is a negative result, not an error.
func (s *Service) ValidateExam(ctx context.Context, req regmodels.ExamValidationRequest) (*regmodels.ExamValidationResponse, error) {
	if !req.IsComplete() {
		return nil, newError(KindInvalid, msgExamFieldsRequired, nil)
	}

	record, err := s.store.FindExam(ctx, req.ExamType, req.RollNumber)
	if errors.Is(err, sentinel.ErrNotFound) {
		s.metrics.IncrementExamLookup("not_found")
		return &regmodels.ExamValidationResponse{Valid: false, Message: msgExamNotFound}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find exam record: %w", err)
	}

	if record.DateOfBirth != strings.TrimSpace(req.DateOfBirth) {
		s.metrics.IncrementExamLookup("dob_mismatch")
		return &regmodels.ExamValidationResponse{Valid: false, Message: msgExamDOBMismatch}, nil
	}

	s.metrics.IncrementExamLookup("valid")
	score := record.Score
	return &regmodels.ExamValidationResponse{
		Valid:         true,
		CandidateName: record.CandidateName,
		Score:         &score,
	}, nil
}

// Register creates an application from a complete draft and issues the first OTP.
func (s *Service) Register(ctx context.Context, draft regmodels.Draft) (*regmodels.RegistrationResponse, error) {
	if err := s.validator.ValidateDraft(draft); err != nil {
		var fieldErrs validation.FieldErrors
		if errors.As(err, &fieldErrs) {
			return nil, newError(KindInvalid, firstMessage(fieldErrs), err)
		}
		return nil, fmt.Errorf("validate draft: %w", err)
	}

	if _, err := s.store.FindExam(ctx, draft.ExamType, draft.ExamRollNumber); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, newError(KindUnprocessed, msgExamUnverified, err)
		}
		return nil, fmt.Errorf("find exam record: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(draft.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := requestcontext.Now(ctx)
	challenge, err := s.issueChallenge(now)
	if err != nil {
		return nil, err
	}

	stored := draft
	stored.Password = ""
	stored.ConfirmPassword = ""
	stored.Captcha = ""

	app := &models.Application{
		Draft:        stored,
		PasswordHash: hash,
		DegreeCode:   requestcontext.DegreeCode(ctx),
		Status:       models.StatusPendingVerification,
		CreatedAt:    now,
		OTP:          challenge,
	}

	id, err := s.store.Create(ctx, app)
	if err != nil {
		var conflict *store.ConflictError
		if errors.As(err, &conflict) {
			msg := msgMobileTaken
			if conflict.Field == "email" {
				msg = msgEmailTaken
			}
			return nil, newError(KindConflict, msg, err)
		}
		return nil, fmt.Errorf("create application: %w", err)
	}
	app.ID = id

	s.metrics.IncrementApplicationsCreated()
	s.deliver(ctx, app)

	s.logger.InfoContext(ctx, "application created",
		"application_id", id,
		"exam_type", draft.ExamType,
		"mobile", privacy.MaskMobile(draft.MobileNo),
		"email", privacy.MaskEmail(draft.Email),
		"request_id", requestcontext.RequestID(ctx),
	)

	return &regmodels.RegistrationResponse{
		Success:       true,
		ApplicationID: id,
		Message:       msgRegistered,
		MobileNumber:  draft.MobileNo,
		Email:         draft.Email,
	}, nil
}

// CheckDuplicate reports whether a mobile number or email is registered.
// Exactly one of mobile and email is expected; mobile wins if both are given.
func (s *Service) CheckDuplicate(ctx context.Context, mobile, email string) (*regmodels.DuplicateCheckResponse, error) {
	switch {
	case strings.TrimSpace(mobile) != "":
		return &regmodels.DuplicateCheckResponse{Exists: s.store.MobileExists(ctx, mobile)}, nil
	case strings.TrimSpace(email) != "":
		return &regmodels.DuplicateCheckResponse{Exists: s.store.EmailExists(ctx, email)}, nil
	default:
		return nil, newError(KindInvalid, msgDuplicateParam, nil)
	}
}

// firstMessage picks a stable message to report for a failed draft.
func firstMessage(errs validation.FieldErrors) string {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return errs[fields[0]]
}
