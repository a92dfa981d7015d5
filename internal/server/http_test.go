package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/anthropics/twilio-care-bridge/internal/biz/domain"
	"github.com/anthropics/twilio-care-bridge/internal/biz/usecase"
	"github.com/anthropics/twilio-care-bridge/internal/service"
)

// Mock implementations

type mockAlertRepo struct {
	records []domain.AlertRecord
	listErr error
}

func (m *mockAlertRepo) Record(ctx context.Context, sender, keyword string) error {
	m.records = append(m.records, domain.AlertRecord{
		Sender:    sender,
		Keyword:   keyword,
		Timestamp: time.Now().Format(domain.AlertTimestampLayout),
	})
	return nil
}

func (m *mockAlertRepo) List(ctx context.Context) ([]domain.AlertRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	// Newest first.
	out := make([]domain.AlertRecord, 0, len(m.records))
	for i := len(m.records) - 1; i >= 0; i-- {
		out = append(out, m.records[i])
	}
	return out, nil
}

func (m *mockAlertRepo) Close() error { return nil }

type mockMessenger struct{ calls int }

func (m *mockMessenger) SendText(ctx context.Context, to, body string) error {
	m.calls++
	return nil
}

type mockMailer struct{ calls int }

func (m *mockMailer) Send(ctx context.Context, subject, body string) error {
	m.calls++
	return nil
}

type mockDocumentRepo struct {
	saved   []string
	saveErr error
}

func (m *mockDocumentRepo) Save(ctx context.Context, name string, r io.Reader) (*domain.Document, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	m.saved = append(m.saved, name)
	return &domain.Document{FileID: "01JDOC" + name, Name: name, UploadedAt: time.Now()}, nil
}

func (m *mockDocumentRepo) Get(ctx context.Context, fileID string) (*domain.Document, error) {
	return nil, nil
}

func (m *mockDocumentRepo) DeleteUploadedBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (m *mockDocumentRepo) Close() error { return nil }

func newTestServer(alerts *mockAlertRepo, documents *mockDocumentRepo) (*Server, *service.RelayService) {
	triggers := domain.NewTriggerTable([]domain.Trigger{
		{Keyword: "apex", Description: "Help alert from patient"},
		{Keyword: "emergency", Description: "Emergency alert from patient"},
	}, domain.MatchExact)

	dispatchUC := usecase.NewDispatchUsecase(&mockMessenger{}, &mockMailer{}, usecase.DispatchConfig{
		CaregiverAddress: "whatsapp:+15557654321",
		EmailSubject:     "Patient Alert Notification",
		ChannelTimeout:   time.Second,
	})
	relay := service.NewRelayService(triggers, alerts, dispatchUC, nil, service.RelayConfig{
		AckTemplate: "'{{keyword}}' message received. The caregiver has been notified.",
		Help:        "I didn't recognize that. Try one of: {{keywords}}.",
	}, 2)

	if documents == nil {
		return NewServer(relay, alerts, nil, 0), relay
	}
	return NewServer(relay, alerts, documents, 0), relay
}

func postWebhook(t *testing.T, srv *Server, from, body string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{}
	form.Set("From", from)
	form.Set("Body", body)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	srv.handleWebhook(w, req)
	return w
}

// Tests

func TestHandleWebhook_MatchReturnsAckTwiML(t *testing.T) {
	alerts := &mockAlertRepo{}
	srv, relay := newTestServer(alerts, nil)

	w := postWebhook(t, srv, "whatsapp:+15551234567", "APEX")
	relay.Stop()

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	respBody := w.Body.String()
	if !strings.Contains(respBody, "<Message>") {
		t.Errorf("Expected a TwiML Message element, got %q", respBody)
	}
	if !strings.Contains(respBody, "apex") {
		t.Errorf("Expected ack to reference the keyword, got %q", respBody)
	}
	if strings.Count(respBody, "<Message>") != 1 {
		t.Error("Expected exactly one reply message")
	}
	if len(alerts.records) != 1 {
		t.Errorf("Expected 1 alert record, got %d", len(alerts.records))
	}
}

func TestHandleWebhook_NoMatchReturnsHelp(t *testing.T) {
	alerts := &mockAlertRepo{}
	srv, relay := newTestServer(alerts, nil)

	w := postWebhook(t, srv, "whatsapp:+15551234567", "what's up")
	relay.Stop()

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "didn't recognize") {
		t.Errorf("Expected help reply, got %q", w.Body.String())
	}
	if len(alerts.records) != 0 {
		t.Errorf("Expected no alert records, got %d", len(alerts.records))
	}
}

func multipartUpload(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestHandleUpload_PDFAccepted(t *testing.T) {
	documents := &mockDocumentRepo{}
	srv, _ := newTestServer(&mockAlertRepo{}, documents)

	buf, contentType := multipartUpload(t, "file", "x.pdf", "%PDF-1.4")
	req := httptest.NewRequest(http.MethodPost, "/upload", buf)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	srv.handleUpload(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if !strings.HasSuffix(resp["file_id"], ".pdf") {
		t.Errorf("Expected file_id ending in .pdf, got %q", resp["file_id"])
	}
	if len(documents.saved) != 1 {
		t.Errorf("Expected 1 stored file, got %d", len(documents.saved))
	}
}

func TestHandleUpload_DisallowedExtension(t *testing.T) {
	documents := &mockDocumentRepo{}
	srv, _ := newTestServer(&mockAlertRepo{}, documents)

	buf, contentType := multipartUpload(t, "file", "x.txt", "plain text")
	req := httptest.NewRequest(http.MethodPost, "/upload", buf)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	srv.handleUpload(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp["error"] == "" {
		t.Error("Expected a JSON error body")
	}
	if len(documents.saved) != 0 {
		t.Errorf("Expected no stored files, got %d", len(documents.saved))
	}
}

func TestHandleUpload_StorageFailure(t *testing.T) {
	documents := &mockDocumentRepo{saveErr: errors.New("disk full")}
	srv, _ := newTestServer(&mockAlertRepo{}, documents)

	buf, contentType := multipartUpload(t, "file", "x.pdf", "%PDF-1.4")
	req := httptest.NewRequest(http.MethodPost, "/upload", buf)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	srv.handleUpload(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp["error"] == "" {
		t.Error("Expected a JSON error body")
	}
}

func TestHandleUpload_MissingFile(t *testing.T) {
	documents := &mockDocumentRepo{}
	srv, _ := newTestServer(&mockAlertRepo{}, documents)

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=empty")
	w := httptest.NewRecorder()

	srv.handleUpload(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}
}

func TestHandleDashboard_RendersAlertsNewestFirst(t *testing.T) {
	alerts := &mockAlertRepo{}
	srv, _ := newTestServer(alerts, nil)

	ctx := context.Background()
	alerts.Record(ctx, "whatsapp:+1", "apex")
	alerts.Record(ctx, "whatsapp:+2", "emergency")

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	w := httptest.NewRecorder()

	srv.handleDashboard(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	respBody := w.Body.String()
	if !strings.Contains(respBody, "apex") || !strings.Contains(respBody, "emergency") {
		t.Errorf("Expected both alerts rendered, got %q", respBody)
	}
	if strings.Index(respBody, "emergency") > strings.Index(respBody, "apex") {
		t.Error("Expected newest alert rendered first")
	}
}
