package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/twilio-care-bridge/internal/biz/domain"
	"github.com/anthropics/twilio-care-bridge/internal/biz/repo"
)

// AnalyzeCommandPrefix marks a document summarization request.
const AnalyzeCommandPrefix = "/analyze "

// ChatConfig contains conversational fallback configuration
type ChatConfig struct {
	ApologyReply       string // returned when the generation backend fails
	FileNotFoundReply  string // returned when /analyze references an unknown file
	ExtractFailedReply string // returned when text extraction yields nothing
	SummaryPrompt      string // prefix for document summarization prompts
	ExcerptLimit       int    // max characters of extracted text fed to the generator
	GenerateTimeout    time.Duration
	Session            domain.SessionConfig
}

// ChatUsecase routes non-matching inbound text to the language-generation
// backend, threading per-sender session history through successive calls.
// Any backend failure degrades to a static apology; Reply never errors upward.
type ChatUsecase struct {
	generator repo.GeneratorRepo
	sessions  repo.SessionRepo
	documents repo.DocumentRepo
	extractor repo.TextExtractor
	config    ChatConfig
}

// NewChatUsecase creates a new chat usecase
func NewChatUsecase(
	generator repo.GeneratorRepo,
	sessions repo.SessionRepo,
	documents repo.DocumentRepo,
	extractor repo.TextExtractor,
	config ChatConfig,
) *ChatUsecase {
	if config.ExcerptLimit <= 0 {
		config.ExcerptLimit = 1000
	}
	if config.GenerateTimeout <= 0 {
		config.GenerateTimeout = 30 * time.Second
	}
	return &ChatUsecase{
		generator: generator,
		sessions:  sessions,
		documents: documents,
		extractor: extractor,
		config:    config,
	}
}

// Reply produces a conversational reply for the sender's text.
func (uc *ChatUsecase) Reply(ctx context.Context, sender, text string) string {
	if strings.HasPrefix(text, AnalyzeCommandPrefix) {
		return uc.analyzeDocument(ctx, strings.TrimSpace(strings.TrimPrefix(text, AnalyzeCommandPrefix)))
	}
	return uc.converse(ctx, sender, text)
}

// converse generates a free-text reply with the sender's session history.
func (uc *ChatUsecase) converse(ctx context.Context, sender, text string) string {
	session := uc.resolveSession(ctx, sender)

	genCtx, cancel := context.WithTimeout(ctx, uc.config.GenerateTimeout)
	defer cancel()

	reply, err := uc.generator.Generate(genCtx, text, session.Turns)
	if err != nil {
		fmt.Printf("[Chat] Generation failed for %s: %v\n", sender, err)
		return uc.config.ApologyReply
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return uc.config.ApologyReply
	}

	session.Append(domain.TurnRoleUser, text, uc.config.Session)
	session.Append(domain.TurnRoleAssistant, reply, uc.config.Session)
	if err := uc.sessions.Save(ctx, session); err != nil {
		fmt.Printf("[Chat] Failed to save session for %s: %v\n", sender, err)
	}

	return reply
}

// analyzeDocument summarizes a previously uploaded document.
func (uc *ChatUsecase) analyzeDocument(ctx context.Context, fileID string) string {
	doc, err := uc.documents.Get(ctx, fileID)
	if err != nil {
		fmt.Printf("[Chat] Document lookup failed for %s: %v\n", fileID, err)
		return uc.config.FileNotFoundReply
	}
	if doc == nil {
		return uc.config.FileNotFoundReply
	}

	text, err := uc.extractor.Extract(doc.Path)
	if err != nil {
		fmt.Printf("[Chat] Extraction failed for %s: %v\n", fileID, err)
		return uc.config.ExtractFailedReply
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return uc.config.ExtractFailedReply
	}

	if runes := []rune(text); len(runes) > uc.config.ExcerptLimit {
		text = string(runes[:uc.config.ExcerptLimit])
	}
	prompt := uc.config.SummaryPrompt + "\n\n" + text

	genCtx, cancel := context.WithTimeout(ctx, uc.config.GenerateTimeout)
	defer cancel()

	reply, err := uc.generator.Generate(genCtx, prompt, nil)
	if err != nil {
		fmt.Printf("[Chat] Summary generation failed for %s: %v\n", fileID, err)
		return uc.config.ApologyReply
	}
	return strings.TrimSpace(reply)
}

// resolveSession loads the sender's session, starting fresh when none
// exists or the idle timeout has passed.
func (uc *ChatUsecase) resolveSession(ctx context.Context, sender string) *domain.Session {
	session, err := uc.sessions.GetBySender(ctx, sender)
	if err != nil {
		fmt.Printf("[Chat] Failed to load session for %s: %v\n", sender, err)
	}
	if session == nil || !session.IsFresh(uc.config.Session) {
		now := time.Now()
		session = &domain.Session{Sender: sender, CreatedAt: now, UpdatedAt: now}
	}
	return session
}
