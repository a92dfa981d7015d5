package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/anthropics/twilio-care-bridge/internal/biz/repo"
)

// RetentionSweeper periodically deletes expired uploaded documents and
// stale conversation sessions
type RetentionSweeper struct {
	documents repo.DocumentRepo
	sessions  repo.SessionRepo

	documentTTL  time.Duration // 0 disables document expiry
	sessionIdle  time.Duration // 0 disables session cleanup
	pollInterval time.Duration

	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewRetentionSweeper creates a new retention sweeper
func NewRetentionSweeper(documents repo.DocumentRepo, sessions repo.SessionRepo, documentTTL, sessionIdle time.Duration) *RetentionSweeper {
	return &RetentionSweeper{
		documents:    documents,
		sessions:     sessions,
		documentTTL:  documentTTL,
		sessionIdle:  sessionIdle,
		pollInterval: 10 * time.Minute,
		stopCh:       make(chan struct{}),
	}
}

// Start starts the sweeper
func (s *RetentionSweeper) Start() {
	if s.running {
		return
	}
	s.running = true
	s.wg.Add(1)
	go s.loop()
	fmt.Printf("[Retention] Started with poll interval %v\n", s.pollInterval)
}

// Stop stops the sweeper
func (s *RetentionSweeper) Stop() {
	if !s.running {
		return
	}
	s.running = false
	close(s.stopCh)
	s.wg.Wait()
	fmt.Println("[Retention] Stopped")
}

func (s *RetentionSweeper) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Sweep runs one cleanup pass
func (s *RetentionSweeper) Sweep(ctx context.Context) {
	if s.documentTTL > 0 && s.documents != nil {
		deleted, err := s.documents.DeleteUploadedBefore(ctx, time.Now().Add(-s.documentTTL))
		if err != nil {
			fmt.Printf("[Retention] Document sweep failed: %v\n", err)
		} else if deleted > 0 {
			fmt.Printf("[Retention] Deleted %d expired documents\n", deleted)
		}
	}

	if s.sessionIdle > 0 && s.sessions != nil {
		removed, err := s.sessions.CleanupStale(ctx, time.Now().Add(-s.sessionIdle))
		if err != nil {
			fmt.Printf("[Retention] Session sweep failed: %v\n", err)
		} else if removed > 0 {
			fmt.Printf("[Retention] Removed %d stale sessions\n", removed)
		}
	}
}
