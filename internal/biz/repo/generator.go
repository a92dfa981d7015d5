package repo

import (
	"context"

	"github.com/anthropics/twilio-care-bridge/internal/biz/domain"
)

// GeneratorRepo is the language-generation backend interface
type GeneratorRepo interface {
	// Generate produces a bounded-length continuation for the prompt.
	// history carries prior conversation turns, oldest first; it may be empty.
	Generate(ctx context.Context, prompt string, history []domain.Turn) (string, error)
}
