package usecase

import (
	"context"
	"errors"
	"testing"
	"time"
)

// Mock implementations

type mockMessenger struct {
	calls []string
	err   error
}

func (m *mockMessenger) SendText(ctx context.Context, to, body string) error {
	m.calls = append(m.calls, to+"|"+body)
	return m.err
}

type mockMailer struct {
	calls []string
	err   error
}

func (m *mockMailer) Send(ctx context.Context, subject, body string) error {
	m.calls = append(m.calls, subject+"|"+body)
	return m.err
}

// Tests

func TestDispatch_BothChannelsAttempted(t *testing.T) {
	messenger := &mockMessenger{}
	mailer := &mockMailer{}

	uc := NewDispatchUsecase(messenger, mailer, DispatchConfig{
		CaregiverAddress: "whatsapp:+15557654321",
		EmailSubject:     "Patient Alert Notification",
		ChannelTimeout:   time.Second,
	})

	outcome := uc.Dispatch(context.Background(), "Help alert from patient (whatsapp:+15551234567)")

	if len(messenger.calls) != 1 {
		t.Errorf("Expected 1 messaging attempt, got %d", len(messenger.calls))
	}
	if len(mailer.calls) != 1 {
		t.Errorf("Expected 1 email attempt, got %d", len(mailer.calls))
	}
	if !outcome.Delivered() {
		t.Error("Expected outcome to report delivery")
	}
	if outcome.MessengerErr != nil || outcome.MailerErr != nil {
		t.Errorf("Expected no channel errors, got %v / %v", outcome.MessengerErr, outcome.MailerErr)
	}
}

func TestDispatch_FallbackAttemptedWhenPrimaryFails(t *testing.T) {
	messenger := &mockMessenger{err: errors.New("invalid number")}
	mailer := &mockMailer{}

	uc := NewDispatchUsecase(messenger, mailer, DispatchConfig{
		CaregiverAddress: "whatsapp:+15557654321",
		EmailSubject:     "Patient Alert Notification",
		ChannelTimeout:   time.Second,
	})

	outcome := uc.Dispatch(context.Background(), "Emergency alert from patient")

	if len(mailer.calls) != 1 {
		t.Fatalf("Expected email fallback to be attempted exactly once, got %d", len(mailer.calls))
	}
	if outcome.MessengerErr == nil {
		t.Error("Expected messenger error in outcome")
	}
	if !outcome.Delivered() {
		t.Error("Expected delivery via fallback channel")
	}
}

func TestDispatch_BothChannelsFail(t *testing.T) {
	messenger := &mockMessenger{err: errors.New("backend down")}
	mailer := &mockMailer{err: errors.New("smtp refused")}

	uc := NewDispatchUsecase(messenger, mailer, DispatchConfig{
		CaregiverAddress: "whatsapp:+15557654321",
		EmailSubject:     "Patient Alert Notification",
		ChannelTimeout:   time.Second,
	})

	outcome := uc.Dispatch(context.Background(), "Pain report from patient")

	if outcome.Delivered() {
		t.Error("Expected Delivered() to be false when both channels fail")
	}
	if len(messenger.calls) != 1 || len(mailer.calls) != 1 {
		t.Error("Expected both channels attempted despite failures")
	}
}
