package data

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anthropics/twilio-care-bridge/internal/biz/domain"
	"github.com/anthropics/twilio-care-bridge/internal/biz/repo"
	"github.com/oklog/ulid/v2"
)

// documentRepo implements the Document repository.
// File bytes live under uploadDir; references live in SQLite.
type documentRepo struct {
	db        *sql.DB
	uploadDir string
}

// NewDocumentRepo creates a new Document repository
func NewDocumentRepo(dbPath, uploadDir string) (repo.DocumentRepo, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, err
	}

	// Create table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			file_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			path TEXT NOT NULL,
			uploaded_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &documentRepo{db: db, uploadDir: uploadDir}, nil
}

// Save stores the uploaded file under a generated ID that keeps the
// original extension, then records its reference.
func (r *documentRepo) Save(ctx context.Context, name string, src io.Reader) (*domain.Document, error) {
	ext := strings.ToLower(filepath.Ext(name))
	fileID := ulid.Make().String() + ext
	path := filepath.Join(r.uploadDir, fileID)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to close file: %w", err)
	}

	doc := &domain.Document{
		FileID:     fileID,
		Name:       name,
		Path:       path,
		UploadedAt: time.Now(),
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO documents (file_id, name, path, uploaded_at) VALUES (?, ?, ?, ?)
	`, doc.FileID, doc.Name, doc.Path, doc.UploadedAt.Unix())
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to record document: %w", err)
	}

	return doc, nil
}

// Get looks up a document by file ID
func (r *documentRepo) Get(ctx context.Context, fileID string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT file_id, name, path, uploaded_at FROM documents WHERE file_id = ?
	`, fileID)

	var doc domain.Document
	var uploadedAt int64
	err := row.Scan(&doc.FileID, &doc.Name, &doc.Path, &uploadedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	doc.UploadedAt = time.Unix(uploadedAt, 0)

	return &doc, nil
}

// DeleteUploadedBefore removes expired documents and their files
func (r *documentRepo) DeleteUploadedBefore(ctx context.Context, before time.Time) (int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT file_id, path FROM documents WHERE uploaded_at < ?
	`, before.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to query expired documents: %w", err)
	}

	type expired struct{ fileID, path string }
	var toDelete []expired
	for rows.Next() {
		var e expired
		if err := rows.Scan(&e.fileID, &e.path); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan expired document: %w", err)
		}
		toDelete = append(toDelete, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to iterate expired documents: %w", err)
	}

	var deleted int64
	for _, e := range toDelete {
		if err := os.Remove(e.path); err != nil && !os.IsNotExist(err) {
			fmt.Printf("[Documents] Failed to remove file %s: %v\n", e.path, err)
			continue
		}
		if _, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE file_id = ?`, e.fileID); err != nil {
			return deleted, fmt.Errorf("failed to delete document row: %w", err)
		}
		deleted++
	}
	return deleted, nil
}

// Close closes the database connection
func (r *documentRepo) Close() error {
	return r.db.Close()
}
