package repo

import (
	"context"

	"github.com/anthropics/twilio-care-bridge/internal/biz/domain"
)

// AlertRepo is the alert log repository interface
// Append-only: records are never updated or deleted.
type AlertRepo interface {
	// Record appends an alert, stamping the current wall-clock time.
	// A storage error propagates; alerts are never silently dropped.
	Record(ctx context.Context, sender, keyword string) error

	// List returns all alerts, newest first (insertion order breaks ties)
	List(ctx context.Context) ([]domain.AlertRecord, error)

	// Close closes the underlying store
	Close() error
}
