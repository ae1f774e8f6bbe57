package service

import (
	"context"
	"time"

	"capreg/internal/registration/flow"
	"capreg/internal/registration/models"
)

// ExamResult is returned by a successful exam validation.
type ExamResult struct {
	CandidateName string
	Score         *float64
}

// ValidateExam looks up the exam-board record for req. On success the
// candidate name is written into the draft. Incomplete input is refused
// without touching state or calling the backend.
func (s *Service) ValidateExam(ctx context.Context, req models.ExamValidationRequest) (result *ExamResult, err error) {
	ctx, span := s.startSpan(ctx, OpValidateExam)
	start := time.Now()
	defer func() {
		s.finish(ctx, span, OpValidateExam, start, err, "exam_type", req.ExamType)
	}()

	if !req.IsComplete() {
		return nil, preconditionError(OpValidateExam, ErrIncompleteExamDetails, MsgExamIncomplete)
	}

	s.machine.Dispatch(flow.ExamValidationStarted{})

	res, callErr := s.api.ValidateExam(ctx, req)
	if callErr != nil {
		opErr := callError(OpValidateExam, callErr, MsgExamFailed)
		s.machine.Dispatch(flow.ExamValidationFailed{Message: opErr.Message})
		return nil, opErr
	}

	if !res.Valid || res.CandidateName == "" {
		opErr := rejectedError(OpValidateExam, res.Message, MsgExamRejected)
		s.machine.Dispatch(flow.ExamValidationFailed{Message: opErr.Message})
		return nil, opErr
	}

	s.machine.Dispatch(flow.ExamValidationSucceeded{CandidateName: res.CandidateName})
	return &ExamResult{CandidateName: res.CandidateName, Score: res.Score}, nil
}
