package domain

import "time"

// TurnRole identifies who produced a conversation turn.
type TurnRole string

const (
	TurnRoleUser      TurnRole = "user"
	TurnRoleAssistant TurnRole = "assistant"
)

// Turn is a single exchange entry in a conversation session.
type Turn struct {
	Role    TurnRole  `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Session holds the multi-turn conversation context for one sender.
type Session struct {
	Sender    string
	Turns     []Turn
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionConfig represents session configuration (value object)
type SessionConfig struct {
	IdleTimeout time.Duration // Idle timeout before the context is discarded
	MaxTurns    int           // Max turns kept per session
}

// IsFresh checks if the session context is still usable.
func (s *Session) IsFresh(cfg SessionConfig) bool {
	if cfg.IdleTimeout > 0 && time.Since(s.UpdatedAt) > cfg.IdleTimeout {
		return false
	}
	return true
}

// Append adds a turn and trims history to the configured bound.
func (s *Session) Append(role TurnRole, content string, cfg SessionConfig) {
	now := time.Now()
	s.Turns = append(s.Turns, Turn{Role: role, Content: content, At: now})
	if cfg.MaxTurns > 0 && len(s.Turns) > cfg.MaxTurns {
		s.Turns = s.Turns[len(s.Turns)-cfg.MaxTurns:]
	}
	s.UpdatedAt = now
}
