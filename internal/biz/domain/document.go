package domain

import "time"

// Document is a reference to an uploaded file.
type Document struct {
	FileID     string // opaque token, assigned at upload
	Name       string // original filename as uploaded
	Path       string // storage path on disk
	UploadedAt time.Time
}
