package data

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/twilio-care-bridge/internal/biz/repo"
	gomail "gopkg.in/mail.v2"
)

// MailConfig holds SMTP configuration for the email fallback channel.
type MailConfig struct {
	Host     string
	Port     int
	Address  string // sender address, also the SMTP username
	Password string
	Receiver string
	Timeout  time.Duration
}

// mailRepo implements the Mailer repository via SMTP
type mailRepo struct {
	cfg MailConfig
}

// NewMailRepo creates a Mailer repository with the given SMTP configuration
func NewMailRepo(cfg MailConfig) repo.MailerRepo {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &mailRepo{cfg: cfg}
}

// Send delivers a plain text email to the configured receiver. The SMTP
// exchange runs in the background so the caller's context deadline is honored.
func (r *mailRepo) Send(ctx context.Context, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", r.cfg.Address)
	m.SetHeader("To", r.cfg.Receiver)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	dialer := gomail.NewDialer(r.cfg.Host, r.cfg.Port, r.cfg.Address, r.cfg.Password)
	dialer.Timeout = r.cfg.Timeout
	dialer.StartTLSPolicy = gomail.OpportunisticStartTLS

	done := make(chan error, 1)
	go func() {
		done <- dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send: %w", ctx.Err())
	}
}
