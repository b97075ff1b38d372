// SPDX-License-Identifier: Apache-2.0

package mailer

import (
	"context"

	"github.com/savekeep/savekeep/internal/logger"
)

// logMailer writes codes to the application log instead of delivering
// them. Development only: codes in logs are secrets.
type logMailer struct {
	logger *logger.Logger
}

// NewLogMailer constructs the log-only transport.
func NewLogMailer(log *logger.Logger) Mailer {
	log.Warn().Msg("mailer running in log-only mode, no email will be delivered")
	return &logMailer{logger: log}
}

func (m *logMailer) SendVerificationCode(ctx context.Context, to, code string) error {
	m.logger.Info().Str("to", to).Str("code", code).Msg("verification code (log transport)")
	return nil
}

func (m *logMailer) SendPasswordResetCode(ctx context.Context, to, code string) error {
	m.logger.Info().Str("to", to).Str("code", code).Msg("password reset code (log transport)")
	return nil
}
