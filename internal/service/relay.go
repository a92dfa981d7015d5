package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/twilio-care-bridge/internal/biz/domain"
	"github.com/anthropics/twilio-care-bridge/internal/biz/repo"
	"github.com/anthropics/twilio-care-bridge/internal/biz/usecase"
	"github.com/gammazero/workerpool"
)

// RelayConfig contains reply templates for the webhook flow
type RelayConfig struct {
	AckTemplate string // {{keyword}} placeholder
	Help        string // {{keywords}} placeholder
}

// RelayService orchestrates one inbound message end-to-end: keyword match,
// alert logging, caregiver notification and the reply to the sender.
// Notification dispatch runs on a worker pool so a slow channel cannot
// stall the webhook response.
type RelayService struct {
	triggers   *domain.TriggerTable
	alerts     repo.AlertRepo
	dispatchUC *usecase.DispatchUsecase
	chatUC     *usecase.ChatUsecase // nil when no generation backend is configured
	config     RelayConfig
	pool       *workerpool.WorkerPool
}

// NewRelayService creates a new relay service
func NewRelayService(
	triggers *domain.TriggerTable,
	alerts repo.AlertRepo,
	dispatchUC *usecase.DispatchUsecase,
	chatUC *usecase.ChatUsecase,
	config RelayConfig,
	workers int,
) *RelayService {
	if workers <= 0 {
		workers = 4
	}
	return &RelayService{
		triggers:   triggers,
		alerts:     alerts,
		dispatchUC: dispatchUC,
		chatUC:     chatUC,
		config:     config,
		pool:       workerpool.New(workers),
	}
}

// HandleInbound processes one inbound message and returns exactly one reply.
// An error means the alert could not be logged; losing an alert record is
// fatal to the request, delivery failures are not.
func (s *RelayService) HandleInbound(ctx context.Context, sender, body string) (string, error) {
	trigger, matched := s.triggers.Match(body)
	if !matched {
		if s.chatUC != nil {
			return s.chatUC.Reply(ctx, sender, body), nil
		}
		return s.helpReply(), nil
	}

	fmt.Printf("[Relay] Keyword %q matched from %s\n", trigger.Keyword, sender)

	alertText := fmt.Sprintf("%s (%s)", trigger.Description, sender)
	s.pool.Submit(func() {
		// The webhook response does not wait on delivery; the ack is
		// decoupled from delivery success.
		s.dispatchUC.Dispatch(context.Background(), alertText)
	})

	if err := s.alerts.Record(ctx, sender, trigger.Keyword); err != nil {
		return "", fmt.Errorf("record alert: %w", err)
	}

	return strings.ReplaceAll(s.config.AckTemplate, "{{keyword}}", trigger.Keyword), nil
}

// helpReply lists the configured keywords for variant 1 deployments
func (s *RelayService) helpReply() string {
	keywords := s.triggers.Keywords()
	quoted := make([]string, len(keywords))
	for i, k := range keywords {
		quoted[i] = "'" + k + "'"
	}
	return strings.ReplaceAll(s.config.Help, "{{keywords}}", strings.Join(quoted, ", "))
}

// Stop drains the dispatch pool
func (s *RelayService) Stop() {
	s.pool.StopWait()
}
