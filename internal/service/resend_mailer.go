package service

import (
	"context"
	"fmt"
	"html"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/user-table-api/pkg/i18n"
)

// ResendMailer delivers welcome e-mails through the Resend API.
type ResendMailer struct {
	client *resend.Client
	from   string
	tr     *i18n.Translator
	logger *zap.Logger
}

// NewResendMailer builds a mailer sending from the given address.
func NewResendMailer(apiKey, from string, tr *i18n.Translator, logger *zap.Logger) *ResendMailer {
	return NewResendMailerWithClient(resend.NewClient(apiKey), from, tr, logger)
}

// NewResendMailerWithClient uses a preconfigured client, e.g. one pointed at a test server.
func NewResendMailerWithClient(client *resend.Client, from string, tr *i18n.Translator, logger *zap.Logger) *ResendMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResendMailer{client: client, from: from, tr: tr, logger: logger}
}

// SendWelcome renders the localized welcome message and sends it.
func (m *ResendMailer) SendWelcome(ctx context.Context, msg WelcomeEmail) error {
	data := map[string]interface{}{
		"Name":  html.EscapeString(msg.Name),
		"Email": html.EscapeString(msg.Email),
	}
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{msg.Email},
		Subject: m.tr.TWithData(i18n.MsgWelcomeSubject, map[string]interface{}{"Name": msg.Name}),
		Html:    m.tr.TWithData(i18n.MsgWelcomeBody, data),
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}
	m.logger.Info("welcome email sent", zap.Int("user_id", msg.UserID), zap.String("message_id", sent.Id))
	return nil
}
