package data

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/anthropics/twilio-care-bridge/internal/biz/repo"

	_ "modernc.org/sqlite"
)

// openDatabase opens the SQLite file shared by the stores. The busy_timeout
// pragma keeps concurrent writers from surfacing SQLITE_BUSY.
func openDatabase(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// Repositories contains all repositories
type Repositories struct {
	Alert     repo.AlertRepo
	Session   repo.SessionRepo
	Document  repo.DocumentRepo
	Messenger repo.MessengerRepo
	Mailer    repo.MailerRepo
	Generator repo.GeneratorRepo // nil when no generation backend is configured
	Extractor repo.TextExtractor
}

// NewRepositories opens the SQLite-backed stores and bundles them with the
// notification and generation clients. The alert, session and document
// stores share one database file.
func NewRepositories(
	dbPath, uploadDir string,
	messenger repo.MessengerRepo,
	mailer repo.MailerRepo,
	generator repo.GeneratorRepo,
) (*Repositories, error) {
	alert, err := NewAlertRepo(dbPath)
	if err != nil {
		return nil, err
	}
	session, err := NewSessionRepo(dbPath)
	if err != nil {
		alert.Close()
		return nil, err
	}
	document, err := NewDocumentRepo(dbPath, uploadDir)
	if err != nil {
		alert.Close()
		session.Close()
		return nil, err
	}
	return &Repositories{
		Alert:     alert,
		Session:   session,
		Document:  document,
		Messenger: messenger,
		Mailer:    mailer,
		Generator: generator,
		Extractor: NewPDFExtractor(),
	}, nil
}

// Close closes every store that holds resources
func (r *Repositories) Close() {
	if r.Alert != nil {
		r.Alert.Close()
	}
	if r.Session != nil {
		r.Session.Close()
	}
	if r.Document != nil {
		r.Document.Close()
	}
}
