package services

import (
	"context"
	"fmt"
	"log/slog"

	"payyourfriends/models"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer delivers one email. Implementations must honour ctx cancellation.
type Mailer interface {
	Send(ctx context.Context, email models.Email) error
}

type sendGridSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridMailer sends through the SendGrid v3 mail API.
type SendGridMailer struct {
	client sendGridSender
	from   *mail.Email
}

func NewSendGridMailer(apiKey, fromEmail, fromName string) *SendGridMailer {
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromEmail),
	}
}

func (m *SendGridMailer) Send(ctx context.Context, email models.Email) error {
	msg := mail.NewSingleEmail(m.from, email.Subject, mail.NewEmail(email.ToName, email.To), email.Text, email.HTML)
	resp, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid send to %s: %w", email.To, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d for %s: %s", resp.StatusCode, email.To, resp.Body)
	}
	return nil
}

// LogMailer only logs messages. Used when MAIL_DRIVER=log.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, email models.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.logger.InfoContext(ctx, "email not sent, log driver active",
		"to", email.To,
		"subject", email.Subject,
		"body", email.Text)
	return nil
}

// SendTestEmail sends the fixed message behind GET /send-test-email.
func SendTestEmail(ctx context.Context, mailer Mailer, to string) error {
	if to == "" {
		return fmt.Errorf("no test recipient configured")
	}
	return mailer.Send(ctx, models.Email{
		To:      to,
		Subject: "Test Email",
		Text:    "Test email sent successfully!",
		HTML:    "<pre>Test email sent successfully!</pre>",
	})
}
