package service

import (
	"context"
	"log/slog"

	"capreg/internal/mockapi/models"
	"capreg/pkg/platform/privacy"
)

// Notifier delivers an issued OTP to the candidate.
type Notifier interface {
	SendOTP(ctx context.Context, app *models.Application) error
}

// LogNotifier stands in for the SMS and email gateways: it writes the code
// to the log so a developer can complete the flow locally.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) SendOTP(ctx context.Context, app *models.Application) error {
	n.Logger.InfoContext(ctx, "otp delivered (mock gateway)",
		"application_id", app.ID,
		"mobile", privacy.MaskMobile(app.Draft.MobileNo),
		"email", privacy.MaskEmail(app.Draft.Email),
		"otp", app.OTP.Code,
		"expires_at", app.OTP.ExpiresAt,
	)
	return nil
}
