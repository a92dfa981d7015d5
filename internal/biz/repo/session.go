package repo

import (
	"context"
	"time"

	"github.com/anthropics/twilio-care-bridge/internal/biz/domain"
)

// SessionRepo is the conversation session repository interface
// Responsible for session persistence (SQLite)
type SessionRepo interface {
	// GetBySender gets a session by sender address, nil if none exists
	GetBySender(ctx context.Context, sender string) (*domain.Session, error)

	// Save saves a session (create or update)
	Save(ctx context.Context, session *domain.Session) error

	// Delete deletes a session
	Delete(ctx context.Context, sender string) error

	// CleanupStale deletes sessions not updated since the given time
	CleanupStale(ctx context.Context, before time.Time) (int64, error)

	// Close closes the underlying store
	Close() error
}
