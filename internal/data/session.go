package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anthropics/twilio-care-bridge/internal/biz/domain"
	"github.com/anthropics/twilio-care-bridge/internal/biz/repo"
)

// sessionRepo implements the Session repository
type sessionRepo struct {
	db *sql.DB
}

// NewSessionRepo creates a new Session repository
func NewSessionRepo(dbPath string) (repo.SessionRepo, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, err
	}

	// Create table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			sender TEXT PRIMARY KEY,
			turns TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	// Create index
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions(updated_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &sessionRepo{db: db}, nil
}

// GetBySender gets a session by sender address
func (r *sessionRepo) GetBySender(ctx context.Context, sender string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT sender, turns, created_at, updated_at
		FROM sessions
		WHERE sender = ?
	`, sender)

	var session domain.Session
	var turnsJSON string
	var createdAt, updatedAt int64
	err := row.Scan(&session.Sender, &turnsJSON, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	if err := json.Unmarshal([]byte(turnsJSON), &session.Turns); err != nil {
		return nil, fmt.Errorf("failed to decode session turns: %w", err)
	}
	session.CreatedAt = time.Unix(createdAt, 0)
	session.UpdatedAt = time.Unix(updatedAt, 0)

	return &session, nil
}

// Save saves a session
func (r *sessionRepo) Save(ctx context.Context, session *domain.Session) error {
	turnsJSON, err := json.Marshal(session.Turns)
	if err != nil {
		return fmt.Errorf("failed to encode session turns: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO sessions (sender, turns, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`,
		session.Sender,
		string(turnsJSON),
		session.CreatedAt.Unix(),
		session.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete deletes a session
func (r *sessionRepo) Delete(ctx context.Context, sender string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE sender = ?`, sender)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// CleanupStale cleans up stale sessions
func (r *sessionRepo) CleanupStale(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM sessions WHERE updated_at < ?
	`, before.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup stale sessions: %w", err)
	}
	return result.RowsAffected()
}

// Close closes the database connection
func (r *sessionRepo) Close() error {
	return r.db.Close()
}
