package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/twilio-care-bridge/internal/biz/repo"
)

// DispatchConfig contains notification dispatch configuration
type DispatchConfig struct {
	CaregiverAddress string        // recipient of the primary messaging channel
	EmailSubject     string        // subject line for the email fallback
	ChannelTimeout   time.Duration // per-channel deadline
}

// DispatchOutcome reports per-channel delivery results.
type DispatchOutcome struct {
	MessengerErr error
	MailerErr    error
}

// Delivered reports whether at least one channel succeeded.
func (o DispatchOutcome) Delivered() bool {
	return o.MessengerErr == nil || o.MailerErr == nil
}

// DispatchUsecase sends caregiver notifications over the primary messaging
// channel and the email fallback. Both channels are best-effort: failures are
// logged and suppressed, and the fallback is attempted unconditionally.
type DispatchUsecase struct {
	messenger repo.MessengerRepo
	mailer    repo.MailerRepo
	config    DispatchConfig
}

// NewDispatchUsecase creates a new dispatch usecase
func NewDispatchUsecase(messenger repo.MessengerRepo, mailer repo.MailerRepo, config DispatchConfig) *DispatchUsecase {
	if config.ChannelTimeout <= 0 {
		config.ChannelTimeout = 15 * time.Second
	}
	return &DispatchUsecase{
		messenger: messenger,
		mailer:    mailer,
		config:    config,
	}
}

// Dispatch delivers alertText over both channels. It never returns an error;
// the outcome carries per-channel results for observability.
func (uc *DispatchUsecase) Dispatch(ctx context.Context, alertText string) DispatchOutcome {
	var outcome DispatchOutcome

	msgCtx, cancel := context.WithTimeout(ctx, uc.config.ChannelTimeout)
	outcome.MessengerErr = uc.messenger.SendText(msgCtx, uc.config.CaregiverAddress, alertText)
	cancel()
	if outcome.MessengerErr != nil {
		fmt.Printf("[Dispatch] Messaging send failed: %v\n", outcome.MessengerErr)
	}

	// Email fallback is attempted regardless of the primary outcome.
	mailCtx, cancel := context.WithTimeout(ctx, uc.config.ChannelTimeout)
	outcome.MailerErr = uc.mailer.Send(mailCtx, uc.config.EmailSubject, alertText)
	cancel()
	if outcome.MailerErr != nil {
		fmt.Printf("[Dispatch] Email send failed: %v\n", outcome.MailerErr)
	}

	return outcome
}
