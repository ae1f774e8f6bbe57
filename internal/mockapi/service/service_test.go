package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"capreg/internal/mockapi/models"
	"capreg/internal/mockapi/store"
	"capreg/internal/platform/metrics"
	regmodels "capreg/internal/registration/models"
	"capreg/pkg/platform/sentinel"
	"capreg/pkg/requestcontext"
)

// =============================================================================
// Mock Backend Service Test Suite
// =============================================================================
// The backend is what the registration client talks to in local runs and
// end-to-end tests, so its refusals must carry the exact messages and kinds
// the handler turns into status codes. Time is pinned through the request
// context so expiry and cooldown are deterministic.

type recordingNotifier struct {
	mu    sync.Mutex
	codes []string
}

func (n *recordingNotifier) SendOTP(_ context.Context, app *models.Application) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.codes = append(n.codes, app.OTP.Code)
	return nil
}

func (n *recordingNotifier) sent() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.codes)
}

type MockBackendServiceSuite struct {
	suite.Suite
	store    *store.InMemory
	notifier *recordingNotifier
	metrics  *metrics.Metrics
	service  *Service
	now      time.Time
	codes    []string
}

func TestMockBackendServiceSuite(t *testing.T) {
	suite.Run(t, new(MockBackendServiceSuite))
}

func (s *MockBackendServiceSuite) SetupTest() {
	s.store = store.New(models.ExamRecord{
		ExamType:      regmodels.ExamTypeNEET,
		RollNumber:    "NEET2024001",
		DateOfBirth:   "2006-04-12",
		CandidateName: "Asha Patil",
		Score:         612,
	})
	s.notifier = &recordingNotifier{}
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.now = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

	// Codes are handed out in order: 111111, 222222, ...
	s.codes = nil
	next := 0
	svc, err := New(s.store,
		WithNotifier(s.notifier),
		WithMetrics(s.metrics),
		WithBcryptCost(bcrypt.MinCost),
		WithCodeGenerator(func() (string, error) {
			next++
			code := fmt.Sprintf("%d%d%d%d%d%d", next, next, next, next, next, next)
			s.codes = append(s.codes, code)
			return code, nil
		}),
	)
	s.Require().NoError(err)
	s.service = svc
}

func (s *MockBackendServiceSuite) ctxAt(offset time.Duration) context.Context {
	return requestcontext.WithTime(context.Background(), s.now.Add(offset))
}

func (s *MockBackendServiceSuite) draft() regmodels.Draft {
	return regmodels.Draft{
		ExamType:        regmodels.ExamTypeNEET,
		ExamRollNumber:  "NEET2024001",
		DateOfBirth:     "2006-04-12",
		CandidateName:   "Asha Patil",
		FatherName:      "Ravi Patil",
		MotherName:      "Sunita Patil",
		Gender:          regmodels.GenderFemale,
		GenderConfirm:   regmodels.GenderFemale,
		DOB:             "2006-04-12",
		DOBConfirm:      "2006-04-12",
		AddressLine1:    "12 MG Road",
		PinCode:         "411001",
		MobileNo:        "9876543210",
		Email:           "asha@example.com",
		Password:        "Secret@123",
		ConfirmPassword: "Secret@123",
		AgreeToTerms:    true,
	}
}

func (s *MockBackendServiceSuite) register() string {
	resp, err := s.service.Register(s.ctxAt(0), s.draft())
	s.Require().NoError(err)
	return resp.ApplicationID
}

func (s *MockBackendServiceSuite) TestNew() {
	s.Run("store is required", func() {
		_, err := New(nil)
		s.Error(err)
	})

	s.Run("defaults to the logging notifier", func() {
		svc, err := New(s.store)
		s.Require().NoError(err)
		s.IsType(LogNotifier{}, svc.notifier)
	})

	s.Run("dev otp fixes every code", func() {
		svc, err := New(s.store, WithDevOTP("123456"))
		s.Require().NoError(err)
		code, err := svc.newCode()
		s.Require().NoError(err)
		s.Equal("123456", code)
	})
}

func (s *MockBackendServiceSuite) TestRandomCodeIsSixDigits() {
	for range 20 {
		code, err := randomCode()
		s.Require().NoError(err)
		s.Regexp(`^[0-9]{6}$`, code)
	}
}

// =============================================================================
// Exam lookup
// =============================================================================

func (s *MockBackendServiceSuite) TestValidateExam() {
	s.Run("matching record returns name and score", func() {
		resp, err := s.service.ValidateExam(s.ctxAt(0), regmodels.ExamValidationRequest{
			ExamType: regmodels.ExamTypeNEET, RollNumber: "neet2024001", DateOfBirth: "2006-04-12",
		})
		s.Require().NoError(err)
		s.True(resp.Valid)
		s.Equal("Asha Patil", resp.CandidateName)
		s.Require().NotNil(resp.Score)
		s.InDelta(612, *resp.Score, 0.001)
	})

	s.Run("unknown roll is a negative result", func() {
		resp, err := s.service.ValidateExam(s.ctxAt(0), regmodels.ExamValidationRequest{
			ExamType: regmodels.ExamTypeNEET, RollNumber: "NEET0000000", DateOfBirth: "2006-04-12",
		})
		s.Require().NoError(err)
		s.False(resp.Valid)
		s.Equal("No exam record found for the given roll number", resp.Message)
	})

	s.Run("date of birth mismatch is a negative result", func() {
		resp, err := s.service.ValidateExam(s.ctxAt(0), regmodels.ExamValidationRequest{
			ExamType: regmodels.ExamTypeNEET, RollNumber: "NEET2024001", DateOfBirth: "2006-04-13",
		})
		s.Require().NoError(err)
		s.False(resp.Valid)
		s.Equal("Date of birth does not match exam records", resp.Message)
	})

	s.Run("missing field is invalid", func() {
		_, err := s.service.ValidateExam(s.ctxAt(0), regmodels.ExamValidationRequest{ExamType: regmodels.ExamTypeNEET})
		s.Equal(KindInvalid, KindOf(err))
	})

	s.Equal(1.0, promtestutil.ToFloat64(s.metrics.ExamLookups.WithLabelValues("valid")))
	s.Equal(1.0, promtestutil.ToFloat64(s.metrics.ExamLookups.WithLabelValues("not_found")))
}

// =============================================================================
// Registration
// =============================================================================

func (s *MockBackendServiceSuite) TestRegister() {
	s.Run("creates application and sends first code", func() {
		ctx := requestcontext.WithDegreeCode(s.ctxAt(0), "MBBS")
		resp, err := s.service.Register(ctx, s.draft())
		s.Require().NoError(err)

		s.True(resp.Success)
		s.Equal("APP-100045", resp.ApplicationID)
		s.Equal("9876543210", resp.MobileNumber)
		s.Equal("asha@example.com", resp.Email)
		s.Equal(1, s.notifier.sent())

		app, err := s.store.Get(ctx, resp.ApplicationID)
		s.Require().NoError(err)
		s.Equal(models.StatusPendingVerification, app.Status)
		s.Equal("MBBS", app.DegreeCode)
		s.Empty(app.Draft.Password, "plain password is never stored")
		s.Empty(app.Draft.ConfirmPassword)
		s.NoError(bcrypt.CompareHashAndPassword(app.PasswordHash, []byte("Secret@123")))
		s.Equal(s.now.Add(defaultOTPTTL), app.OTP.ExpiresAt)
	})

	s.Run("duplicate mobile is a conflict", func() {
		d := s.draft()
		d.Email = "other@example.com"
		_, err := s.service.Register(s.ctxAt(0), d)
		s.Equal(KindConflict, KindOf(err))
		s.EqualError(err, "Mobile number is already registered: mobileNo already registered")
	})

	s.Run("duplicate email is a conflict", func() {
		d := s.draft()
		d.MobileNo = "9123456780"
		d.Email = "ASHA@example.com"
		_, err := s.service.Register(s.ctxAt(0), d)
		s.Equal(KindConflict, KindOf(err))
	})

	s.Run("invalid draft reports a field message", func() {
		d := s.draft()
		d.ConfirmPassword = "Secret@124"
		_, err := s.service.Register(s.ctxAt(0), d)
		s.Equal(KindInvalid, KindOf(err))
		var svcErr *Error
		s.Require().ErrorAs(err, &svcErr)
		s.Equal("Passwords must match", svcErr.Message)
	})

	s.Run("unknown exam record is unprocessable", func() {
		d := s.draft()
		d.ExamRollNumber = "NEET0000000"
		d.MobileNo = "9000000001"
		d.Email = "new@example.com"
		_, err := s.service.Register(s.ctxAt(0), d)
		s.Equal(KindUnprocessed, KindOf(err))
	})

	s.Equal(1, s.store.Count())
	s.Equal(1.0, promtestutil.ToFloat64(s.metrics.ApplicationsCreated))
}

// =============================================================================
// OTP verification
// =============================================================================
// Justification: wrong guesses are counted so a code cannot be brute forced,
// and a verified application refuses both verify and resend.

func (s *MockBackendServiceSuite) TestVerifyOTP() {
	s.Run("correct code verifies", func() {
		id := s.register()
		resp, err := s.service.VerifyOTP(s.ctxAt(time.Minute), regmodels.OTPVerificationRequest{ApplicationID: id, OTP: "111111"})
		s.Require().NoError(err)
		s.True(resp.Success)
		s.True(resp.Verified)

		app, err := s.store.Get(context.Background(), id)
		s.Require().NoError(err)
		s.True(app.IsVerified())
		s.Require().NotNil(app.VerifiedAt)

		_, err = s.service.VerifyOTP(s.ctxAt(time.Minute), regmodels.OTPVerificationRequest{ApplicationID: id, OTP: "111111"})
		s.Equal(KindConflict, KindOf(err))
		s.ErrorIs(err, sentinel.ErrInvalidState)
	})
}

func (s *MockBackendServiceSuite) TestVerifyOTPRejections() {
	id := s.register()

	s.Run("wrong code", func() {
		resp, err := s.service.VerifyOTP(s.ctxAt(0), regmodels.OTPVerificationRequest{ApplicationID: id, OTP: "999999"})
		s.Require().NoError(err)
		s.False(resp.Verified)
		s.Equal("Invalid OTP", resp.Message)
	})

	s.Run("expired code", func() {
		resp, err := s.service.VerifyOTP(s.ctxAt(defaultOTPTTL), regmodels.OTPVerificationRequest{ApplicationID: id, OTP: "111111"})
		s.Require().NoError(err)
		s.False(resp.Verified)
		s.Equal("OTP has expired. Please request a new one.", resp.Message)
	})

	s.Run("locked after repeated wrong guesses", func() {
		for range maxFailedChecks {
			_, _ = s.service.VerifyOTP(s.ctxAt(0), regmodels.OTPVerificationRequest{ApplicationID: id, OTP: "000000"})
		}
		resp, err := s.service.VerifyOTP(s.ctxAt(0), regmodels.OTPVerificationRequest{ApplicationID: id, OTP: "111111"})
		s.Require().NoError(err)
		s.False(resp.Verified, "correct code is refused once locked")
		s.Equal("Too many incorrect attempts. Please request a new OTP.", resp.Message)
	})

	s.Run("unknown application", func() {
		_, err := s.service.VerifyOTP(s.ctxAt(0), regmodels.OTPVerificationRequest{ApplicationID: "APP-1", OTP: "111111"})
		s.Equal(KindNotFound, KindOf(err))
	})

	s.Run("missing application id", func() {
		_, err := s.service.VerifyOTP(s.ctxAt(0), regmodels.OTPVerificationRequest{OTP: "111111"})
		s.Equal(KindInvalid, KindOf(err))
	})
}

// =============================================================================
// OTP resend
// =============================================================================

func (s *MockBackendServiceSuite) TestResendOTP() {
	id := s.register()

	s.Run("first resend is immediate and replaces the code", func() {
		resp, err := s.service.ResendOTP(s.ctxAt(time.Second), regmodels.ResendOTPRequest{ApplicationID: id})
		s.Require().NoError(err)
		s.True(resp.OTPSent)

		v, err := s.service.VerifyOTP(s.ctxAt(2*time.Second), regmodels.OTPVerificationRequest{ApplicationID: id, OTP: "111111"})
		s.Require().NoError(err)
		s.False(v.Verified, "old code no longer works")
	})

	s.Run("second resend waits for the cooldown", func() {
		_, err := s.service.ResendOTP(s.ctxAt(31*time.Second), regmodels.ResendOTPRequest{ApplicationID: id})
		s.Equal(KindRateLimited, KindOf(err))
		var svcErr *Error
		s.Require().ErrorAs(err, &svcErr)
		s.Equal("Please wait 30 seconds before resending", svcErr.Message)
	})

	s.Run("resends until the cap", func() {
		_, err := s.service.ResendOTP(s.ctxAt(61*time.Second), regmodels.ResendOTPRequest{ApplicationID: id})
		s.Require().NoError(err)
		_, err = s.service.ResendOTP(s.ctxAt(121*time.Second), regmodels.ResendOTPRequest{ApplicationID: id})
		s.Require().NoError(err)

		_, err = s.service.ResendOTP(s.ctxAt(10*time.Minute), regmodels.ResendOTPRequest{ApplicationID: id})
		s.Equal(KindRateLimited, KindOf(err))
		var svcErr *Error
		s.Require().ErrorAs(err, &svcErr)
		s.Equal("Maximum resend attempts reached. Please try after some time.", svcErr.Message)
	})

	s.Run("latest code verifies", func() {
		latest := s.codes[len(s.codes)-1]
		resp, err := s.service.VerifyOTP(s.ctxAt(3*time.Minute), regmodels.OTPVerificationRequest{ApplicationID: id, OTP: latest})
		s.Require().NoError(err)
		s.True(resp.Verified)
	})

	s.Run("verified application refuses resend", func() {
		_, err := s.service.ResendOTP(s.ctxAt(time.Hour), regmodels.ResendOTPRequest{ApplicationID: id})
		s.Equal(KindConflict, KindOf(err))
		s.ErrorIs(err, sentinel.ErrInvalidState)
	})

	s.Equal(4, s.notifier.sent())
}

// =============================================================================
// Duplicate lookup
// =============================================================================

func (s *MockBackendServiceSuite) TestCheckDuplicate() {
	s.register()

	tests := []struct {
		name   string
		mobile string
		email  string
		exists bool
	}{
		{"registered mobile", "9876543210", "", true},
		{"free mobile", "9000000000", "", false},
		{"registered email ignores case", "", "Asha@Example.com", true},
		{"free email", "", "new@example.com", false},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			resp, err := s.service.CheckDuplicate(context.Background(), tt.mobile, tt.email)
			s.Require().NoError(err)
			s.Equal(tt.exists, resp.Exists)
		})
	}

	s.Run("needs one of mobile or email", func() {
		_, err := s.service.CheckDuplicate(context.Background(), " ", "")
		s.Equal(KindInvalid, KindOf(err))
	})
}
