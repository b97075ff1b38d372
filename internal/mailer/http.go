// SPDX-License-Identifier: Apache-2.0

package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/savekeep/savekeep/internal/config"
	"github.com/savekeep/savekeep/internal/logger"
)

// httpMailer posts messages to a JSON delivery API (Mailgun-style
// transactional relay) instead of speaking SMTP directly.
type httpMailer struct {
	client *resty.Client
	cfg    config.Mailer
	app    config.App
	logger *logger.Logger
}

// httpMessage is the request body the delivery endpoint accepts.
type httpMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// NewHTTPMailer constructs the HTTP transport.
func NewHTTPMailer(cfg config.Mailer, app config.App, log *logger.Logger) Mailer {
	log.Debug().Str("endpoint", cfg.HTTPEndpoint).Msg("creating http mailer")

	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2)
	if cfg.HTTPToken != "" {
		client.SetAuthToken(cfg.HTTPToken)
	}

	return &httpMailer{
		client: client,
		cfg:    cfg,
		app:    app,
		logger: log,
	}
}

func (m *httpMailer) SendVerificationCode(ctx context.Context, to, code string) error {
	return m.send(ctx, to, verificationSubject, verificationBody(code))
}

func (m *httpMailer) SendPasswordResetCode(ctx context.Context, to, code string) error {
	return m.send(ctx, to, resetSubject, resetBody(code, m.app))
}

func (m *httpMailer) send(ctx context.Context, to, subject, body string) error {
	log := logger.FromContext(ctx)

	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(httpMessage{
			From:    m.cfg.From,
			To:      to,
			Subject: subject,
			Text:    body,
		}).
		Post(m.cfg.HTTPEndpoint)
	if err != nil {
		log.Err(err).Str("func", "*httpMailer.send").Msg("error posting email")
		return fmt.Errorf("error posting email: %w", err)
	}
	if resp.IsError() {
		log.Error().Str("func", "*httpMailer.send").Int("status", resp.StatusCode()).Msg("delivery endpoint rejected email")
		return fmt.Errorf("delivery endpoint returned %d", resp.StatusCode())
	}

	return nil
}
