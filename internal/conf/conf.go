package conf

import (
	"os"
	"strconv"
	"time"

	"github.com/anthropics/twilio-care-bridge/internal/biz/domain"
)

// Config represents application configuration
type Config struct {
	// Twilio configuration (primary messaging channel)
	Twilio TwilioConfig

	// Email configuration (fallback channel)
	Email EmailConfig

	// Generator configuration (optional; absent means canned replies only)
	Generator GeneratorConfig

	// Match configuration
	Match MatchConfig

	// Store configuration
	Store StoreConfig

	// Session configuration
	Session SessionConfig

	// HTTP configuration
	HTTP HTTPConfig

	// Triggers configuration (loaded from YAML)
	Triggers *TriggersConfig
}

// TwilioConfig contains Twilio credentials and addresses
type TwilioConfig struct {
	AccountSID      string
	AuthToken       string
	FromNumber      string // provisioned sender, e.g. "whatsapp:+14155238886"
	CaregiverNumber string // escalation recipient
}

// EmailConfig contains SMTP settings for the fallback channel
type EmailConfig struct {
	Host     string
	Port     int
	Address  string
	Password string
	Receiver string
}

// GeneratorConfig contains language-generation backend settings
type GeneratorConfig struct {
	Backend      string // "", "gemini" or "openai"
	GeminiAPIKey string
	OpenAIBase   string // OpenAI-compatible endpoint, e.g. a local server
	OpenAIKey    string
	Model        string
}

// MatchConfig contains keyword matching settings
type MatchConfig struct {
	Policy domain.MatchPolicy
}

// StoreConfig contains storage settings
type StoreConfig struct {
	DBPath      string
	UploadDir   string
	DocumentTTL time.Duration // 0 disables expiry
}

// SessionConfig contains conversation session settings
type SessionConfig struct {
	IdleMinutes int
	MaxTurns    int
}

// HTTPConfig contains HTTP server settings
type HTTPConfig struct {
	Port int
}

// LoadFromEnv loads configuration from environment variables.
// An unreadable or malformed triggers config is a startup failure.
func LoadFromEnv() (*Config, error) {
	dbPath := os.Getenv("CAREBRIDGE_DB_PATH")
	if dbPath == "" {
		dbPath = "carebridge.db"
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	documentTTLHours := 0
	if val := os.Getenv("DOCUMENT_TTL_HOURS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			documentTTLHours = parsed
		}
	}

	sessionIdleMin := 60
	if val := os.Getenv("SESSION_IDLE_MINUTES"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			sessionIdleMin = parsed
		}
	}

	maxTurns := 20
	if val := os.Getenv("SESSION_MAX_TURNS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			maxTurns = parsed
		}
	}

	port := 8080
	if val := os.Getenv("HTTP_PORT"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			port = parsed
		}
	}

	emailPort := 587
	if val := os.Getenv("EMAIL_PORT"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			emailPort = parsed
		}
	}

	emailHost := os.Getenv("EMAIL_HOST")
	if emailHost == "" {
		emailHost = "smtp.gmail.com"
	}

	// Match policy: exact unless a generation backend is configured, which
	// historically shipped with substring matching. Either can be forced.
	backend := os.Getenv("GEN_BACKEND")
	policy := domain.MatchExact
	if backend != "" {
		policy = domain.MatchContains
	}
	switch os.Getenv("MATCH_POLICY") {
	case "exact":
		policy = domain.MatchExact
	case "contains":
		policy = domain.MatchContains
	}

	// Load trigger table and prompts from YAML
	triggers, err := LoadTriggersConfig(os.Getenv("TRIGGERS_CONFIG_PATH"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Twilio: TwilioConfig{
			AccountSID:      os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:       os.Getenv("TWILIO_AUTH_TOKEN"),
			FromNumber:      os.Getenv("TWILIO_PHONE_NUMBER"),
			CaregiverNumber: os.Getenv("ATTENDANT_PHONE_NUMBER"),
		},
		Email: EmailConfig{
			Host:     emailHost,
			Port:     emailPort,
			Address:  os.Getenv("EMAIL_ADDRESS"),
			Password: os.Getenv("EMAIL_PASSWORD"),
			Receiver: os.Getenv("EMAIL_RECEIVER"),
		},
		Generator: GeneratorConfig{
			Backend:      backend,
			GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
			OpenAIBase:   os.Getenv("OPENAI_BASE_URL"),
			OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
			Model:        os.Getenv("GEN_MODEL"),
		},
		Match: MatchConfig{Policy: policy},
		Store: StoreConfig{
			DBPath:      dbPath,
			UploadDir:   uploadDir,
			DocumentTTL: time.Duration(documentTTLHours) * time.Hour,
		},
		Session: SessionConfig{
			IdleMinutes: sessionIdleMin,
			MaxTurns:    maxTurns,
		},
		HTTP:     HTTPConfig{Port: port},
		Triggers: triggers,
	}, nil
}

// ToSessionConfig converts to domain session configuration
func (c *SessionConfig) ToSessionConfig() domain.SessionConfig {
	return domain.SessionConfig{
		IdleTimeout: time.Duration(c.IdleMinutes) * time.Minute,
		MaxTurns:    c.MaxTurns,
	}
}

// TriggerTable builds the domain trigger table under the configured policy
func (c *Config) TriggerTable() *domain.TriggerTable {
	triggers := make([]domain.Trigger, len(c.Triggers.Triggers))
	for i, t := range c.Triggers.Triggers {
		triggers[i] = domain.Trigger{Keyword: t.Keyword, Description: t.Description}
	}
	return domain.NewTriggerTable(triggers, c.Match.Policy)
}

// Validate validates the configuration. Missing required values fail here,
// at startup, rather than at first use.
func (c *Config) Validate() error {
	if c.Twilio.AccountSID == "" || c.Twilio.AuthToken == "" {
		return &ConfigError{Field: "TWILIO_ACCOUNT_SID/TWILIO_AUTH_TOKEN", Message: "required"}
	}
	if c.Twilio.FromNumber == "" {
		return &ConfigError{Field: "TWILIO_PHONE_NUMBER", Message: "required"}
	}
	if c.Twilio.CaregiverNumber == "" {
		return &ConfigError{Field: "ATTENDANT_PHONE_NUMBER", Message: "required"}
	}
	if c.Email.Address == "" || c.Email.Password == "" {
		return &ConfigError{Field: "EMAIL_ADDRESS/EMAIL_PASSWORD", Message: "required"}
	}
	if c.Email.Receiver == "" {
		return &ConfigError{Field: "EMAIL_RECEIVER", Message: "required"}
	}
	switch c.Generator.Backend {
	case "":
		// Variant 1: no conversational fallback.
	case "gemini":
		if c.Generator.GeminiAPIKey == "" {
			return &ConfigError{Field: "GEMINI_API_KEY", Message: "required when GEN_BACKEND=gemini"}
		}
	case "openai":
		if c.Generator.Model == "" {
			return &ConfigError{Field: "GEN_MODEL", Message: "required when GEN_BACKEND=openai"}
		}
	default:
		return &ConfigError{Field: "GEN_BACKEND", Message: "must be empty, \"gemini\" or \"openai\""}
	}
	if len(c.Triggers.Triggers) == 0 {
		return &ConfigError{Field: "triggers", Message: "at least one trigger keyword required"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
