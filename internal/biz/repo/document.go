package repo

import (
	"context"
	"io"
	"time"

	"github.com/anthropics/twilio-care-bridge/internal/biz/domain"
)

// DocumentRepo is the uploaded-document repository interface
// Files live on disk; references live in SQLite.
type DocumentRepo interface {
	// Save stores an uploaded file and returns its reference.
	// name is the original filename; the generated FileID keeps its extension.
	Save(ctx context.Context, name string, r io.Reader) (*domain.Document, error)

	// Get looks up a document by file ID, nil if unknown
	Get(ctx context.Context, fileID string) (*domain.Document, error)

	// DeleteUploadedBefore removes documents (rows and files) uploaded
	// before the given time, returning how many were deleted
	DeleteUploadedBefore(ctx context.Context, before time.Time) (int64, error)

	// Close closes the underlying store
	Close() error
}

// TextExtractor extracts page-level text from a stored document.
type TextExtractor interface {
	// Extract returns the document's text content
	Extract(path string) (string, error)
}
