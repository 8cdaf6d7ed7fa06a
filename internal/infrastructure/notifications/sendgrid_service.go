package notifications

import (
	"context"

	"github.com/samber/oops"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/logging"
)

// mailClient is the part of *sendgrid.Client the service needs
type mailClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridServiceImpl implements domain.NotificationService
type SendGridServiceImpl struct {
	client mailClient
	from   *mail.Email
	logger logging.Logger
}

// NewSendGridService creates a new SendGrid notification service. Without an
// API key messages are logged instead of sent.
func NewSendGridService(apiKey, fromAddress, fromName string, logger logging.Logger) domain.NotificationService {
	s := &SendGridServiceImpl{
		from:   mail.NewEmail(fromName, fromAddress),
		logger: logger.With("component", "notifications"),
	}
	if apiKey != "" {
		s.client = sendgrid.NewSendClient(apiKey)
	}
	return s
}

// SendEmail implements domain.NotificationService
func (s *SendGridServiceImpl) SendEmail(ctx context.Context, to, subject, body string) error {
	// If credentials are not configured, log instead of sending
	if s.client == nil {
		s.logger.Info(ctx, "email not sent, no provider configured", "to", to, "subject", subject, "body", body)
		return nil
	}

	message := mail.NewSingleEmail(s.from, subject, mail.NewEmail("", to), body, "")
	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return oops.Code("EMAIL_SEND_FAILED").With("to", to).Wrap(err)
	}
	if resp.StatusCode >= 300 {
		return oops.Code("EMAIL_SEND_FAILED").
			With("to", to).
			With("status", resp.StatusCode).
			Errorf("sendgrid rejected message: %s", resp.Body)
	}

	s.logger.Debug(ctx, "email sent", "to", to, "subject", subject)
	return nil
}
