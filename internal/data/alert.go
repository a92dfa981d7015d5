package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/anthropics/twilio-care-bridge/internal/biz/domain"
	"github.com/anthropics/twilio-care-bridge/internal/biz/repo"
)

// alertRepo implements the Alert repository
type alertRepo struct {
	db *sql.DB
}

// NewAlertRepo creates a new Alert repository
func NewAlertRepo(dbPath string) (repo.AlertRepo, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, err
	}

	// Create table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS alerts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sender TEXT NOT NULL,
			keyword TEXT NOT NULL,
			timestamp TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &alertRepo{db: db}, nil
}

// Record appends an alert stamped with the current local time
func (r *alertRepo) Record(ctx context.Context, sender, keyword string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO alerts (sender, keyword, timestamp) VALUES (?, ?, ?)
	`, sender, keyword, time.Now().Format(domain.AlertTimestampLayout))
	if err != nil {
		return fmt.Errorf("failed to record alert: %w", err)
	}
	return nil
}

// List returns all alerts, newest first; id breaks timestamp ties
func (r *alertRepo) List(ctx context.Context) ([]domain.AlertRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sender, keyword, timestamp
		FROM alerts
		ORDER BY timestamp DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.AlertRecord
	for rows.Next() {
		var a domain.AlertRecord
		if err := rows.Scan(&a.ID, &a.Sender, &a.Keyword, &a.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// Close closes the database connection
func (r *alertRepo) Close() error {
	return r.db.Close()
}
