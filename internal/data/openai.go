package data

import (
	"context"
	"fmt"

	"github.com/anthropics/twilio-care-bridge/internal/biz/domain"
	"github.com/anthropics/twilio-care-bridge/internal/biz/repo"
	openai "github.com/sashabaranov/go-openai"
)

// openaiRepo implements the Generator repository using an OpenAI-compatible
// chat API. Pointing BaseURL at a local inference server (llama.cpp, Ollama)
// runs the fallback against a local model.
type openaiRepo struct {
	client       *openai.Client
	model        string
	systemPrompt string
	maxTokens    int
}

// NewOpenAIRepo creates a Generator repository for an OpenAI-compatible endpoint
func NewOpenAIRepo(baseURL, apiKey, model, systemPrompt string) repo.GeneratorRepo {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &openaiRepo{
		client:       openai.NewClientWithConfig(config),
		model:        model,
		systemPrompt: systemPrompt,
		maxTokens:    512,
	}
}

// Generate produces a continuation for the prompt with prior turns as context
func (r *openaiRepo) Generate(ctx context.Context, prompt string, history []domain.Turn) (string, error) {
	var messages []openai.ChatCompletionMessage
	if r.systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: r.systemPrompt,
		})
	}
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == domain.TurnRoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     r.model,
		Messages:  messages,
		MaxTokens: r.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}
	return resp.Choices[0].Message.Content, nil
}
