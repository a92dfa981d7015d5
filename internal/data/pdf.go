package data

import (
	"bytes"
	"fmt"

	"github.com/anthropics/twilio-care-bridge/internal/biz/repo"
	"github.com/ledongthuc/pdf"
)

// pdfExtractor implements TextExtractor for PDF documents
type pdfExtractor struct{}

// NewPDFExtractor creates a PDF text extractor
func NewPDFExtractor() repo.TextExtractor {
	return &pdfExtractor{}
}

// Extract returns the plain text content of the PDF at path
func (e *pdfExtractor) Extract(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", fmt.Errorf("failed to read extracted text: %w", err)
	}
	return buf.String(), nil
}
