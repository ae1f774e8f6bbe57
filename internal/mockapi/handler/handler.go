// Package handler exposes the mock admissions backend over HTTP.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"capreg/internal/mockapi/service"
	"capreg/internal/platform/metrics"
	"capreg/internal/platform/middleware"
	regmodels "capreg/internal/registration/models"
	"capreg/pkg/platform/httputil"
	"capreg/pkg/platform/middleware/metadata"
	"capreg/pkg/platform/middleware/requesttime"
)

// Service defines the backend operations served here.
type Service interface {
	ValidateExam(ctx context.Context, req regmodels.ExamValidationRequest) (*regmodels.ExamValidationResponse, error)
	Register(ctx context.Context, draft regmodels.Draft) (*regmodels.RegistrationResponse, error)
	VerifyOTP(ctx context.Context, req regmodels.OTPVerificationRequest) (*regmodels.OTPVerificationResponse, error)
	ResendOTP(ctx context.Context, req regmodels.ResendOTPRequest) (*regmodels.ResendOTPResponse, error)
	CheckDuplicate(ctx context.Context, mobile, email string) (*regmodels.DuplicateCheckResponse, error)
}

// Handler serves /api/registration.
type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
	token   string
}

// New creates a Handler. An empty token leaves the routes open.
func New(svc Service, logger *slog.Logger, m *metrics.Metrics, token string) *Handler {
	return &Handler{
		service: svc,
		logger:  logger,
		metrics: m,
		token:   token,
	}
}

// Register mounts the registration routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/registration", func(r chi.Router) {
		r.Use(middleware.Recovery(h.logger))
		r.Use(middleware.RequestID)
		r.Use(metadata.ClientMetadata)
		r.Use(requesttime.Middleware)
		r.Use(middleware.DegreeCode)
		r.Use(middleware.Logger(h.logger, h.metrics))
		r.Use(middleware.RequireBearer(h.token, h.logger))

		r.Post("/validate-exam", h.handleValidateExam)
		r.Post("/register", h.handleRegister)
		r.Post("/verify-otp", h.handleVerifyOTP)
		r.Post("/resend-otp", h.handleResendOTP)
		r.Get("/check-duplicate", h.handleCheckDuplicate)
	})
}

func (h *Handler) handleValidateExam(w http.ResponseWriter, r *http.Request) {
	var req regmodels.ExamValidationRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.ValidateExam(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var draft regmodels.Draft
	if !h.decode(w, r, &draft) {
		return
	}

	resp, err := h.service.Register(r.Context(), draft)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, resp)
}

// handleVerifyOTP answers a wrong or expired code with 400 and the
// verification body, so the client sees the reason as the server message.
func (h *Handler) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req regmodels.OTPVerificationRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.VerifyOTP(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if !resp.Verified {
		status = http.StatusBadRequest
	}
	httputil.WriteJSON(w, status, resp)
}

func (h *Handler) handleResendOTP(w http.ResponseWriter, r *http.Request) {
	var req regmodels.ResendOTPRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.ResendOTP(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCheckDuplicate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.service.CheckDuplicate(r.Context(), q.Get("mobile"), q.Get("email"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httputil.DecodeJSON(r, dst); err != nil {
		ctx := r.Context()
		h.logger.WarnContext(ctx, "invalid request body",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeBadRequest, "Invalid request body")
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		h.logger.ErrorContext(ctx, "request failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeInternal, "")
		return
	}

	status, code := statusFor(svcErr.Kind)
	h.logger.WarnContext(ctx, "request refused",
		"request_id", middleware.GetRequestID(ctx),
		"kind", svcErr.Kind,
		"error", err.Error(),
	)
	httputil.WriteError(w, status, code, svcErr.Message)
}

func statusFor(kind service.ErrorKind) (int, string) {
	switch kind {
	case service.KindInvalid:
		return http.StatusBadRequest, httputil.CodeValidation
	case service.KindNotFound:
		return http.StatusNotFound, httputil.CodeNotFound
	case service.KindConflict:
		return http.StatusConflict, httputil.CodeConflict
	case service.KindRateLimited:
		return http.StatusTooManyRequests, httputil.CodeRateLimited
	case service.KindUnprocessed:
		return http.StatusUnprocessableEntity, httputil.CodeValidation
	default:
		return http.StatusInternalServerError, httputil.CodeInternal
	}
}
