package conf

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// TriggersConfig contains the trigger keyword table and reply text,
// loaded from YAML and fixed at process start
type TriggersConfig struct {
	Triggers []TriggerEntry `yaml:"triggers"`
	Replies  RepliesConfig  `yaml:"replies"`
	Prompts  PromptsConfig  `yaml:"prompts"`
}

// TriggerEntry is one keyword with its alert description
type TriggerEntry struct {
	Keyword     string `yaml:"keyword"`
	Description string `yaml:"description"`
}

// RepliesConfig contains canned reply text
type RepliesConfig struct {
	AckTemplate   string `yaml:"ack_template"` // {{keyword}} placeholder
	Help          string `yaml:"help"`         // variant 1 no-match reply; {{keywords}} placeholder
	Apology       string `yaml:"apology"`
	FileNotFound  string `yaml:"file_not_found"`
	ExtractFailed string `yaml:"extract_failed"`
}

// PromptsConfig contains generation prompts
type PromptsConfig struct {
	System  string `yaml:"system"`
	Summary string `yaml:"summary"`
}

// LoadTriggersConfig loads the trigger configuration from a YAML file.
// An explicitly given path must be readable; the implicit search paths
// fall back to compiled-in defaults when no file is found.
func LoadTriggersConfig(configPath string) (*TriggersConfig, error) {
	var data []byte
	var loadedPath string

	if configPath != "" {
		var err error
		data, err = os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read triggers config %s: %w", configPath, err)
		}
		loadedPath = configPath
	} else {
		paths := []string{
			"configs/triggers.yaml",
			"./configs/triggers.yaml",
			"/etc/carebridge/triggers.yaml",
		}
		if execPath, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Join(filepath.Dir(execPath), "configs", "triggers.yaml"))
		}
		for _, p := range paths {
			if b, err := os.ReadFile(p); err == nil {
				data = b
				loadedPath = p
				break
			}
		}
	}

	if data == nil {
		// Return default config if no file found
		fmt.Println("[Config] No triggers.yaml found, using defaults")
		return DefaultTriggersConfig(), nil
	}

	fmt.Printf("[Config] Loading triggers from: %s\n", loadedPath)

	var config TriggersConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse triggers.yaml: %w", err)
	}

	config.fillDefaults()
	return &config, nil
}

// fillDefaults fills in default values for empty fields
func (c *TriggersConfig) fillDefaults() {
	defaults := DefaultTriggersConfig()

	if len(c.Triggers) == 0 {
		c.Triggers = defaults.Triggers
	}
	if c.Replies.AckTemplate == "" {
		c.Replies.AckTemplate = defaults.Replies.AckTemplate
	}
	if c.Replies.Help == "" {
		c.Replies.Help = defaults.Replies.Help
	}
	if c.Replies.Apology == "" {
		c.Replies.Apology = defaults.Replies.Apology
	}
	if c.Replies.FileNotFound == "" {
		c.Replies.FileNotFound = defaults.Replies.FileNotFound
	}
	if c.Replies.ExtractFailed == "" {
		c.Replies.ExtractFailed = defaults.Replies.ExtractFailed
	}
	if c.Prompts.System == "" {
		c.Prompts.System = defaults.Prompts.System
	}
	if c.Prompts.Summary == "" {
		c.Prompts.Summary = defaults.Prompts.Summary
	}
}

// DefaultTriggersConfig returns the compiled-in defaults
func DefaultTriggersConfig() *TriggersConfig {
	return &TriggersConfig{
		Triggers: []TriggerEntry{
			{Keyword: "apex", Description: "🚨 Help alert from patient"},
			{Keyword: "sam", Description: "💊 Medication request from patient"},
			{Keyword: "emergency", Description: "🚑 Emergency alert from patient"},
			{Keyword: "distress", Description: "😖 Pain report from patient"},
		},
		Replies: RepliesConfig{
			AckTemplate:   "✅ '{{keyword}}' message received. The caregiver has been notified.",
			Help:          "🤖 I didn't recognize that. Try one of: {{keywords}}.",
			Apology:       "⚠️ Sorry, something went wrong with the AI response.",
			FileNotFound:  "📄 File not found. Upload it first, then send /analyze <file_id>.",
			ExtractFailed: "📄 Couldn't extract any text from that document.",
		},
		Prompts: PromptsConfig{
			System: "You are a friendly assistant for a home-care patient. " +
				"Answer briefly and clearly in plain language. If the patient appears " +
				"to need urgent help, remind them to send one of the alert keywords.",
			Summary: "Summarize the following document for a caregiver in a few short sentences:",
		},
	}
}
