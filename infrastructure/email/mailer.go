// Package email delivers transactional notification mail over SMTP. The
// transport sits behind a circuit breaker: a flapping SMTP relay trips the
// breaker and subsequent sends fail fast instead of stalling workers.
package email

import (
	"context"
	"time"

	apperrors "github.com/fullstackyodha/wechat-backend/pkg/errors"

	"github.com/fullstackyodha/wechat-backend/infrastructure/config"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer sends HTML email through a gomail dialer guarded by a breaker.
type Mailer struct {
	dialer  *gomail.Dialer
	sender  string
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewMailer creates a mailer from SMTP config.
func NewMailer(cfg *config.Config, logger *zap.Logger) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		sender: cfg.SenderMail,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "smtp",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("smtp breaker state change",
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		}),
		logger: logger,
	}
}

// Send delivers one HTML email. The context is honored only up to dial time;
// gomail has no per-message context support.
func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(err, "send email")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	_, err := m.breaker.Execute(func() (interface{}, error) {
		return nil, m.dialer.DialAndSend(msg)
	})
	if err != nil {
		return apperrors.Wrap(err, "send email")
	}

	m.logger.Debug("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
