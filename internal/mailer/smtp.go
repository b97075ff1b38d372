// SPDX-License-Identifier: Apache-2.0

package mailer

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"

	"github.com/savekeep/savekeep/internal/config"
	"github.com/savekeep/savekeep/internal/logger"
)

// smtpMailer delivers through a plain SMTP relay with PLAIN auth.
type smtpMailer struct {
	cfg    config.Mailer
	app    config.App
	logger *logger.Logger
}

// NewSMTPMailer constructs the SMTP transport.
func NewSMTPMailer(cfg config.Mailer, app config.App, log *logger.Logger) Mailer {
	log.Debug().Str("host", cfg.SMTPHost).Msg("creating smtp mailer")
	return &smtpMailer{
		cfg:    cfg,
		app:    app,
		logger: log,
	}
}

func (m *smtpMailer) SendVerificationCode(ctx context.Context, to, code string) error {
	return m.send(ctx, to, verificationSubject, verificationBody(code))
}

func (m *smtpMailer) SendPasswordResetCode(ctx context.Context, to, code string) error {
	return m.send(ctx, to, resetSubject, resetBody(code, m.app))
}

func (m *smtpMailer) send(ctx context.Context, to, subject, body string) error {
	log := logger.FromContext(ctx)

	msg := email.NewEmail()
	msg.From = m.cfg.From
	msg.To = []string{to}
	msg.Subject = subject
	msg.Text = []byte(body)

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)

	var auth smtp.Auth
	if m.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUsername, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	}

	if err := msg.Send(addr, auth); err != nil {
		log.Err(err).Str("func", "*smtpMailer.send").Msg("error sending email")
		return fmt.Errorf("error sending email: %w", err)
	}

	return nil
}
