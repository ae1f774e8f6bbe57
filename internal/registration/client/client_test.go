package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capreg/internal/registration/models"
	"capreg/pkg/requestcontext"
	"capreg/pkg/testutil"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, opts...)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	t.Run("rejects empty base URL", func(t *testing.T) {
		_, err := New("  ")
		require.Error(t, err)
	})

	t.Run("rejects non-http scheme", func(t *testing.T) {
		_, err := New("ftp://example.com")
		require.Error(t, err)
	})

	t.Run("applies defaults", func(t *testing.T) {
		c, err := New("http://localhost:5000/")
		require.NoError(t, err)
		assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
		assert.Equal(t, "http://localhost:5000", c.baseURL.String())
	})
}

func TestClient_ValidateExam(t *testing.T) {
	var got models.ExamValidationRequest
	var headers http.Header
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/registration/validate-exam", r.URL.Path)
		headers = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		testutil.ServeJSON(t, http.StatusOK, map[string]any{
			"valid": true, "candidateName": "Asha Patil", "score": 612.5,
		})(w, r)
	}), WithBearerToken("tok-1"), WithDegreeCode("BE"))

	ctx := requestcontext.WithRequestID(context.Background(), "req-42")
	res, err := c.ValidateExam(ctx, models.ExamValidationRequest{
		ExamType: models.ExamTypeNEET, RollNumber: "NEET2024001", DateOfBirth: "2006-04-12",
	})
	require.NoError(t, err)

	assert.True(t, res.Valid)
	assert.Equal(t, "Asha Patil", res.CandidateName)
	require.NotNil(t, res.Score)
	assert.InDelta(t, 612.5, *res.Score, 0.001)

	assert.Equal(t, models.ExamTypeNEET, got.ExamType)
	assert.Equal(t, "NEET2024001", got.RollNumber)
	assert.Equal(t, "Bearer tok-1", headers.Get("Authorization"))
	assert.Equal(t, "BE", headers.Get("X-Degree-Code"))
	assert.Equal(t, "application/json", headers.Get("Content-Type"))
	assert.Equal(t, "req-42", headers.Get("X-Request-ID"))
}

func TestClient_RequestIDGeneratedWhenAbsent(t *testing.T) {
	var requestID, auth string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-ID")
		auth = r.Header.Get("Authorization")
		testutil.ServeJSON(t, http.StatusOK, models.ResendOTPResponse{Success: true, OTPSent: true})(w, r)
	}))

	_, err := c.ResendOTP(context.Background(), models.ResendOTPRequest{ApplicationID: "APP-100045"})
	require.NoError(t, err)
	assert.Len(t, requestID, 36)
	assert.Empty(t, auth, "no token configured, no Authorization header")
}

func TestClient_Register(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/registration/register", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		testutil.ServeJSON(t, http.StatusCreated, models.RegistrationResponse{
			Success: true, ApplicationID: "APP-100045", MobileNumber: "9876543210", Email: "asha@example.com",
		})(w, r)
	}))

	res, err := c.Register(context.Background(), models.Draft{
		CandidateName: "Asha Patil", MobileNo: "9876543210", Email: "asha@example.com", AgreeToTerms: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "APP-100045", res.ApplicationID)
	assert.Equal(t, "Asha Patil", body["candidateName"])
	assert.Equal(t, "9876543210", body["mobileNo"])
	assert.Equal(t, true, body["agreeToTerms"])
}

func TestClient_VerifyOTP(t *testing.T) {
	var got models.OTPVerificationRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/registration/verify-otp", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		testutil.ServeJSON(t, http.StatusOK, models.OTPVerificationResponse{Success: true, Verified: true})(w, r)
	}))

	res, err := c.VerifyOTP(context.Background(), models.OTPVerificationRequest{ApplicationID: "APP-100045", OTP: "123456"})
	require.NoError(t, err)
	assert.True(t, res.Verified)
	assert.Equal(t, "APP-100045", got.ApplicationID)
	assert.Equal(t, "123456", got.OTP)
}

func TestClient_CheckDuplicate(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/registration/check-duplicate", r.URL.Path)
		assert.Empty(t, r.Header.Get("Content-Type"))
		exists := r.URL.Query().Get("mobile") == "9876543210" || r.URL.Query().Get("email") == "a+b@example.com"
		testutil.ServeJSON(t, http.StatusOK, models.DuplicateCheckResponse{Exists: exists})(w, r)
	}))

	exists, err := c.CheckMobileDuplicate(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = c.CheckMobileDuplicate(context.Background(), "9000000000")
	require.NoError(t, err)
	assert.False(t, exists)

	// "+" must survive query encoding.
	exists, err = c.CheckEmailDuplicate(context.Background(), "a+b@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestClient_Errors(t *testing.T) {
	t.Run("non-2xx with server message", func(t *testing.T) {
		c := newTestClient(t, testutil.ServeJSON(t, http.StatusBadRequest, models.ErrorResponse{
			Success: false, Message: "Invalid OTP",
		}))

		_, err := c.VerifyOTP(context.Background(), models.OTPVerificationRequest{ApplicationID: "APP-1", OTP: "000000"})
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, ErrorHTTPStatus, apiErr.Category)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Equal(t, "Invalid OTP", apiErr.ServerMessage)
		assert.Equal(t, "Invalid OTP", apiErr.UserMessage())
	})

	t.Run("non-2xx without body falls back to status message", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))

		_, err := c.ResendOTP(context.Background(), models.ResendOTPRequest{ApplicationID: "APP-1"})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Empty(t, apiErr.ServerMessage)
		assert.Equal(t, "request failed with status code 502", apiErr.UserMessage())
	})

	t.Run("401 invokes unauthorized handler", func(t *testing.T) {
		var calls atomic.Int32
		c := newTestClient(t,
			testutil.ServeJSON(t, http.StatusUnauthorized, models.ErrorResponse{Message: "token expired"}),
			WithBearerToken("stale"),
			WithUnauthorizedHandler(func() { calls.Add(1) }),
		)

		_, err := c.Register(context.Background(), models.Draft{})
		assert.Equal(t, ErrorUnauthorized, GetCategory(err))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("malformed 2xx body is bad data", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("<html>"))
		}))

		_, err := c.ValidateExam(context.Background(), models.ExamValidationRequest{})
		assert.Equal(t, ErrorBadData, GetCategory(err))
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}), WithTimeout(50*time.Millisecond))
		defer close(release)

		_, err := c.ValidateExam(context.Background(), models.ExamValidationRequest{})
		require.Error(t, err)
		assert.True(t, IsTimeout(err))

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "request timed out", apiErr.UserMessage())
	})

	t.Run("connection refused is transport", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := srv.URL
		srv.Close()

		c, err := New(addr)
		require.NoError(t, err)

		_, err = c.CheckMobileDuplicate(context.Background(), "9876543210")
		assert.Equal(t, ErrorTransport, GetCategory(err))
	})
}
