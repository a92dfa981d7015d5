package repo

import "context"

// MessengerRepo is the primary notification channel interface
// Responsible for outbound delivery via the messaging provider's REST API.
type MessengerRepo interface {
	// SendText sends a text message to the given address
	SendText(ctx context.Context, to, body string) error
}

// MailerRepo is the fallback notification channel interface (SMTP)
type MailerRepo interface {
	// Send delivers an email with the given subject and plain text body
	Send(ctx context.Context, subject, body string) error
}
