package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/anthropics/twilio-care-bridge/internal/biz/repo"
	"github.com/anthropics/twilio-care-bridge/internal/service"
	"github.com/gorilla/mux"
	"github.com/twilio/twilio-go/twiml"
)

// Server exposes the webhook, upload and dashboard endpoints
type Server struct {
	relay     *service.RelayService
	alerts    repo.AlertRepo
	documents repo.DocumentRepo // nil disables the upload endpoint

	server *http.Server
	port   int
}

// NewServer creates a new HTTP server
func NewServer(relay *service.RelayService, alerts repo.AlertRepo, documents repo.DocumentRepo, port int) *Server {
	return &Server{
		relay:     relay,
		alerts:    alerts,
		documents: documents,
		port:      port,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	r := mux.NewRouter()

	r.HandleFunc("/webhook", s.handleWebhook).Methods(http.MethodPost)
	r.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	if s.documents != nil {
		r.HandleFunc("/upload", s.handleUpload).Methods(http.MethodPost)
	}

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: r,
	}

	fmt.Printf("[Server] Starting HTTP server on port %d\n", s.port)
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Shutdown(context.Background())
	}
	return nil
}

// handleWebhook processes one inbound message and returns a TwiML document
// with exactly one reply message
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	sender := r.FormValue("From")
	body := r.FormValue("Body")

	reply, err := s.relay.HandleInbound(r.Context(), sender, body)
	if err != nil {
		fmt.Printf("[Server] Webhook processing failed: %v\n", err)
		http.Error(w, "failed to process message", http.StatusInternalServerError)
		return
	}

	doc, err := twiml.Messages([]twiml.Element{&twiml.MessagingMessage{Body: reply}})
	if err != nil {
		fmt.Printf("[Server] TwiML rendering failed: %v\n", err)
		http.Error(w, "failed to render response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(doc))
}

// handleUpload accepts a multipart PDF upload and returns its file_id
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		s.writeJSONError(w, http.StatusBadRequest, "filename is empty")
		return
	}
	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".pdf" {
		s.writeJSONError(w, http.StatusBadRequest, "only .pdf uploads are allowed")
		return
	}

	doc, err := s.documents.Save(r.Context(), header.Filename, file)
	if err != nil {
		fmt.Printf("[Server] Upload failed: %v\n", err)
		s.writeJSONError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	s.writeJSON(w, map[string]interface{}{"file_id": doc.FileID})
}

// handleDashboard renders the alert log, newest first
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.alerts.List(r.Context())
	if err != nil {
		fmt.Printf("[Server] Dashboard query failed: %v\n", err)
		http.Error(w, "failed to load alerts", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(w, alerts); err != nil {
		fmt.Printf("[Server] Dashboard rendering failed: %v\n", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
