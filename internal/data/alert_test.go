package data

import (
	"context"
	"path/filepath"
	"testing"
)

func TestAlertRepo_RecordAndList(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "alerts.db")
	repo, err := NewAlertRepo(dbPath)
	if err != nil {
		t.Fatalf("Failed to open repo: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	senders := []string{"whatsapp:+1", "whatsapp:+2", "whatsapp:+3"}
	keywords := []string{"apex", "emergency", "distress"}
	for i := range senders {
		if err := repo.Record(ctx, senders[i], keywords[i]); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	alerts, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(alerts) != 3 {
		t.Fatalf("Expected 3 alerts, got %d", len(alerts))
	}

	// Newest first; same-second inserts fall back to insertion order.
	if alerts[0].Keyword != "distress" {
		t.Errorf("Expected newest alert first, got keyword %q", alerts[0].Keyword)
	}
	if alerts[2].Keyword != "apex" {
		t.Errorf("Expected oldest alert last, got keyword %q", alerts[2].Keyword)
	}
	if alerts[0].Timestamp == "" {
		t.Error("Expected timestamp to be stamped")
	}
}

func TestAlertRepo_ListEmpty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "alerts.db")
	repo, err := NewAlertRepo(dbPath)
	if err != nil {
		t.Fatalf("Failed to open repo: %v", err)
	}
	defer repo.Close()

	alerts, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(alerts) != 0 {
		t.Errorf("Expected no alerts, got %d", len(alerts))
	}
}

func TestAlertRepo_DuplicatesPermitted(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "alerts.db")
	repo, err := NewAlertRepo(dbPath)
	if err != nil {
		t.Fatalf("Failed to open repo: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := repo.Record(ctx, "whatsapp:+1", "apex"); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	alerts, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(alerts) != 2 {
		t.Errorf("Expected duplicate records to be kept, got %d", len(alerts))
	}
}
