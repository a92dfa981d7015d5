package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anthropics/twilio-care-bridge/internal/biz/repo"
	"github.com/anthropics/twilio-care-bridge/internal/biz/usecase"
	"github.com/anthropics/twilio-care-bridge/internal/conf"
	"github.com/anthropics/twilio-care-bridge/internal/data"
	"github.com/anthropics/twilio-care-bridge/internal/server"
	"github.com/anthropics/twilio-care-bridge/internal/service"
	"github.com/joho/godotenv"
)

const (
	dispatchWorkers = 4
	channelTimeout  = 15 * time.Second
	alertSubject    = "Patient Alert Notification"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg, err := conf.LoadFromEnv()
	if err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	ctx := context.Background()

	// Initialize notification channels
	messenger := data.NewTwilioRepo(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber, channelTimeout)
	mailer := data.NewMailRepo(data.MailConfig{
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		Address:  cfg.Email.Address,
		Password: cfg.Email.Password,
		Receiver: cfg.Email.Receiver,
	})

	// Initialize the generation backend, if configured
	var generator repo.GeneratorRepo
	switch cfg.Generator.Backend {
	case "gemini":
		generator, err = data.NewGeminiRepo(ctx, cfg.Generator.GeminiAPIKey, cfg.Generator.Model, cfg.Triggers.Prompts.System)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		fmt.Println("[CareBridge] Gemini conversational fallback enabled")
	case "openai":
		generator = data.NewOpenAIRepo(cfg.Generator.OpenAIBase, cfg.Generator.OpenAIKey, cfg.Generator.Model, cfg.Triggers.Prompts.System)
		fmt.Println("[CareBridge] OpenAI-compatible conversational fallback enabled")
	}

	// Initialize repository layer
	repos, err := data.NewRepositories(cfg.Store.DBPath, cfg.Store.UploadDir, messenger, mailer, generator)
	if err != nil {
		log.Fatalf("Failed to create repositories: %v", err)
	}
	fmt.Printf("[CareBridge] Alert DB: %s\n", cfg.Store.DBPath)

	// Initialize usecase layer
	dispatchUC := usecase.NewDispatchUsecase(repos.Messenger, repos.Mailer, usecase.DispatchConfig{
		CaregiverAddress: cfg.Twilio.CaregiverNumber,
		EmailSubject:     alertSubject,
		ChannelTimeout:   channelTimeout,
	})

	var chatUC *usecase.ChatUsecase
	if repos.Generator != nil {
		chatUC = usecase.NewChatUsecase(repos.Generator, repos.Session, repos.Document, repos.Extractor, usecase.ChatConfig{
			ApologyReply:       cfg.Triggers.Replies.Apology,
			FileNotFoundReply:  cfg.Triggers.Replies.FileNotFound,
			ExtractFailedReply: cfg.Triggers.Replies.ExtractFailed,
			SummaryPrompt:      cfg.Triggers.Prompts.Summary,
			Session:            cfg.Session.ToSessionConfig(),
		})
	}

	// Initialize service layer
	relay := service.NewRelayService(cfg.TriggerTable(), repos.Alert, dispatchUC, chatUC, service.RelayConfig{
		AckTemplate: cfg.Triggers.Replies.AckTemplate,
		Help:        cfg.Triggers.Replies.Help,
	}, dispatchWorkers)

	sweeper := service.NewRetentionSweeper(repos.Document, repos.Session, cfg.Store.DocumentTTL, cfg.Session.ToSessionConfig().IdleTimeout)
	sweeper.Start()

	// The upload endpoint only makes sense alongside /analyze.
	var uploadStore repo.DocumentRepo
	if chatUC != nil {
		uploadStore = repos.Document
	}
	srv := server.NewServer(relay, repos.Alert, uploadStore, cfg.HTTP.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		srv.Stop()
		sweeper.Stop()
		relay.Stop()
		repos.Close()
		os.Exit(0)
	}()

	fmt.Println("Starting Twilio Care Bridge...")
	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
