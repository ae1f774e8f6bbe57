// Package client implements ports.RegistrationAPI over the admissions REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"capreg/internal/registration/models"
	"capreg/internal/registration/ports"
	"capreg/pkg/requestcontext"
)

const (
	pathValidateExam   = "/api/registration/validate-exam"
	pathRegister       = "/api/registration/register"
	pathVerifyOTP      = "/api/registration/verify-otp"
	pathResendOTP      = "/api/registration/resend-otp"
	pathCheckDuplicate = "/api/registration/check-duplicate"

	headerRequestID  = "X-Request-ID"
	headerDegreeCode = "X-Degree-Code"

	// DefaultTimeout bounds every request unless overridden.
	DefaultTimeout = 30 * time.Second

	maxBodyBytes = 1 << 20
)

var _ ports.RegistrationAPI = (*Client)(nil)

// TokenSource returns the bearer token to attach, or "" for none.
type TokenSource func() string

// Client talks to the admissions backend.
type Client struct {
	baseURL        *url.URL
	httpClient     *http.Client
	token          TokenSource
	degreeCode     string
	onUnauthorized func()
	logger         *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its Timeout is kept.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithBearerToken attaches a fixed Authorization token to every request.
func WithBearerToken(token string) Option {
	return func(c *Client) {
		c.token = func() string { return token }
	}
}

// WithTokenSource attaches a token read at request time.
func WithTokenSource(src TokenSource) Option {
	return func(c *Client) {
		c.token = src
	}
}

// WithDegreeCode sends the selected degree programme on every request.
func WithDegreeCode(code string) Option {
	return func(c *Client) {
		c.degreeCode = code
	}
}

// WithUnauthorizedHandler is called whenever the backend answers 401, so the
// caller can drop its stored token.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New builds a client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("base URL is required")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL must be http or https, got %q", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		token:      func() string { return "" },
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) ValidateExam(ctx context.Context, req models.ExamValidationRequest) (*models.ExamValidationResponse, error) {
	return do[models.ExamValidationResponse](ctx, c, http.MethodPost, pathValidateExam, nil, req)
}

func (c *Client) Register(ctx context.Context, draft models.Draft) (*models.RegistrationResponse, error) {
	return do[models.RegistrationResponse](ctx, c, http.MethodPost, pathRegister, nil, draft)
}

func (c *Client) VerifyOTP(ctx context.Context, req models.OTPVerificationRequest) (*models.OTPVerificationResponse, error) {
	return do[models.OTPVerificationResponse](ctx, c, http.MethodPost, pathVerifyOTP, nil, req)
}

func (c *Client) ResendOTP(ctx context.Context, req models.ResendOTPRequest) (*models.ResendOTPResponse, error) {
	return do[models.ResendOTPResponse](ctx, c, http.MethodPost, pathResendOTP, nil, req)
}

func (c *Client) CheckMobileDuplicate(ctx context.Context, mobile string) (bool, error) {
	return c.checkDuplicate(ctx, url.Values{"mobile": {mobile}})
}

func (c *Client) CheckEmailDuplicate(ctx context.Context, email string) (bool, error) {
	return c.checkDuplicate(ctx, url.Values{"email": {email}})
}

func (c *Client) checkDuplicate(ctx context.Context, query url.Values) (bool, error) {
	res, err := do[models.DuplicateCheckResponse](ctx, c, http.MethodGet, pathCheckDuplicate, query, nil)
	if err != nil {
		return false, err
	}
	return res.Exists, nil
}

// do performs one JSON exchange. body is encoded when non-nil; a 2xx reply is
// decoded into T, anything else becomes an *APIError.
func do[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (*T, error) {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiErr := transportError(method, path, err)
		c.logger.WarnContext(ctx, "registration api request failed",
			"method", method,
			"path", path,
			"category", apiErr.Category,
			"duration", time.Since(start),
		)
		return nil, apiErr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, transportError(method, path, err)
	}

	c.logger.DebugContext(ctx, "registration api response",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, statusError(method, path, resp.StatusCode, raw)
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &APIError{
			Category:   ErrorBadData,
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    msgBadData,
			Underlying: err,
		}
	}
	return &out, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", path, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if c.degreeCode != "" {
		req.Header.Set(headerDegreeCode, c.degreeCode)
	}

	requestID := requestcontext.RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set(headerRequestID, requestID)
	return req, nil
}

func transportError(method, path string, err error) *APIError {
	apiErr := &APIError{
		Category:   ErrorTransport,
		Method:     method,
		Path:       path,
		Message:    msgNetwork,
		Underlying: err,
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		apiErr.Category = ErrorTimeout
		apiErr.Message = msgTimeout
	}
	return apiErr
}

func statusError(method, path string, status int, raw []byte) *APIError {
	apiErr := &APIError{
		Category:   ErrorHTTPStatus,
		Method:     method,
		Path:       path,
		StatusCode: status,
		Message:    fmt.Sprintf("request failed with status code %d", status),
	}
	if status == http.StatusUnauthorized {
		apiErr.Category = ErrorUnauthorized
	}

	var envelope models.ErrorResponse
	if json.Unmarshal(raw, &envelope) == nil {
		apiErr.ServerMessage = strings.TrimSpace(envelope.Message)
	}
	return apiErr
}
