package data

import (
	"context"
	"fmt"

	"github.com/anthropics/twilio-care-bridge/internal/biz/domain"
	"github.com/anthropics/twilio-care-bridge/internal/biz/repo"
	"google.golang.org/genai"
)

// geminiRepo implements the Generator repository via the Gemini API
type geminiRepo struct {
	client       *genai.Client
	model        string
	systemPrompt string
}

// NewGeminiRepo creates a Generator repository backed by Gemini
func NewGeminiRepo(ctx context.Context, apiKey, model, systemPrompt string) (repo.GeneratorRepo, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiRepo{client: client, model: model, systemPrompt: systemPrompt}, nil
}

// Generate produces a continuation for the prompt with prior turns as context
func (r *geminiRepo) Generate(ctx context.Context, prompt string, history []domain.Turn) (string, error) {
	var contents []*genai.Content
	for _, turn := range history {
		role := genai.RoleUser
		if turn.Role == domain.TurnRoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Parts: []*genai.Part{{Text: turn.Content}},
			Role:  role,
		})
	}
	contents = append(contents, &genai.Content{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  genai.RoleUser,
	})

	config := &genai.GenerateContentConfig{}
	if r.systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: r.systemPrompt}},
		}
	}

	resp, err := r.client.Models.GenerateContent(ctx, r.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return text, nil
}
