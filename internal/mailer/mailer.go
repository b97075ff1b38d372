// SPDX-License-Identifier: Apache-2.0

// Package mailer delivers the transactional email the account flows
// depend on: verification codes and password reset codes. Three transports
// are available, selected by configuration: a plain SMTP relay, a JSON
// HTTP delivery API, and a log-only transport for development.
package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/savekeep/savekeep/internal/config"
	"github.com/savekeep/savekeep/internal/logger"
)

// Mailer sends the two account-flow messages. Implementations deliver
// synchronously; callers that do not want to block a request on delivery
// run Send* in a goroutine.
type Mailer interface {
	// SendVerificationCode delivers a 6-digit email ownership code.
	SendVerificationCode(ctx context.Context, to, code string) error

	// SendPasswordResetCode delivers a reset code together with a
	// front-end link carrying it, when a front end is configured.
	SendPasswordResetCode(ctx context.Context, to, code string) error
}

// NewMailer selects the transport named by cfg.Transport.
func NewMailer(cfg config.Mailer, app config.App, log *logger.Logger) (Mailer, error) {
	switch cfg.Transport {
	case "smtp":
		return NewSMTPMailer(cfg, app, log), nil
	case "http":
		return NewHTTPMailer(cfg, app, log), nil
	case "log":
		return NewLogMailer(log), nil
	default:
		return nil, fmt.Errorf("unknown mailer transport %q", cfg.Transport)
	}
}

// verificationSubject and the templates below mirror what the browser
// front end expects users to see.
const (
	verificationSubject = "Your verification code"
	resetSubject        = "Password reset"
)

func verificationBody(code string) string {
	return fmt.Sprintf("Your verification code is %s.\n\nEnter it in the app to confirm your email address. If you did not create an account, you can ignore this message.\n", code)
}

func resetBody(code string, app config.App) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your password reset code is %s.\n", code)
	if app.FrontEndURL != "" {
		fmt.Fprintf(&b, "\nReset your password here: %s%s%s\n", app.FrontEndURL, app.ResetPagePath, code)
	}
	b.WriteString("\nIf you did not request a reset, you can ignore this message. Your password has not changed until the code is used.\n")
	return b.String()
}
