package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"quantumreview/config"
	"quantumreview/config/postgre"
	_ "quantumreview/docs" // Swagger docs
	"quantumreview/internal/checklist"
	checklistRepo "quantumreview/internal/checklist/repository/postgre"
	checklistUC "quantumreview/internal/checklist/usecase"
	"quantumreview/internal/ghauth"
	healthRepo "quantumreview/internal/health/repository/postgre"
	healthUC "quantumreview/internal/health/usecase"
	"quantumreview/internal/httpserver"
	instRepo "quantumreview/internal/installation/repository/postgre"
	instUC "quantumreview/internal/installation/usecase"
	"quantumreview/internal/notify"
	notifyRepo "quantumreview/internal/notify/repository/postgre"
	notifyUC "quantumreview/internal/notify/usecase"
	"quantumreview/internal/queue"
	queueRepo "quantumreview/internal/queue/repository/postgre"
	validationRepo "quantumreview/internal/validation/repository/postgre"
	validationUC "quantumreview/internal/validation/usecase"
	"quantumreview/internal/webhook"
	"quantumreview/pkg/github"
	"quantumreview/pkg/llmprovider"
	"quantumreview/pkg/log"
)

// @title       QuantumReview API
// @description GitHub App webhook ingestion with LLM-driven checklist generation and PR validation.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting QuantumReview API...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Infrastructure
	db, err := postgre.Connect(ctx, cfg.Postgres)
	if err != nil {
		logger.Error(ctx, "Failed to connect to PostgreSQL: ", err)
		return
	}
	defer postgre.Disconnect(ctx, db)

	ghClient, err := github.New(github.Config{
		AppID:      cfg.GitHub.AppID,
		PrivateKey: cfg.GitHub.PrivateKeyBytes(),
		APIBase:    cfg.GitHub.APIBase,
		JWTExpiry:  cfg.GitHub.JWTExpiry,
		HTTPClient: &http.Client{Timeout: cfg.GitHub.RequestTimeout},
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize GitHub client: ", err)
		return
	}
	tokenCache := ghauth.New(logger, ghClient, cfg.GitHub.TokenMargin)

	// LLM providers (only needed by the worker paths; the API keeps a
	// manager so usecases share one wiring)
	providers, err := llmprovider.InitializeProviders(&cfg.LLM)
	if err != nil {
		logger.Warnf(ctx, "LLM providers not available: %v", err)
	}
	llmManager := llmprovider.NewManager(providers, &llmprovider.Config{
		FallbackEnabled: cfg.LLM.FallbackEnabled,
		RequestTimeout:  cfg.LLM.RequestTimeout,
	}, logger)

	// 4. Repositories
	installations := instRepo.New(db, logger)
	checklists := checklistRepo.New(db, logger)
	validations := validationRepo.New(db, logger)
	healths := healthRepo.New(db, logger)
	notifications := notifyRepo.New(db, logger)
	jobsStore := queueRepo.New(db, logger)

	// 5. UseCases
	hub := notify.NewHub()
	notifierUseCase := notifyUC.New(notifications, hub, installations, logger)
	installationUseCase := instUC.New(installations, tokenCache, ghClient, logger)
	checklistUseCase := checklistUC.New(
		checklists,
		checklist.NewGenerator(llmManager, logger),
		installationUseCase,
		tokenCache,
		ghClient,
		notifierUseCase,
		logger,
	)
	validationUseCase := validationUC.New(
		validations, checklists, installationUseCase, tokenCache,
		ghClient, llmManager, notifierUseCase, logger,
	)
	healthUseCase := healthUC.New(
		healths, validations, checklists, installationUseCase, tokenCache,
		ghClient, notifierUseCase, cfg.Health, logger,
	)

	// 6. Webhook ingress enqueues through the durable store
	enqueuer := queue.NewWorker(logger, jobsStore, cfg.Worker, notifierUseCase)
	webhookHandler := webhook.NewHandler(enqueuer, cfg.Webhook, logger)

	// 7. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:         logger,
		Port:           cfg.HTTPServer.Port,
		Mode:           cfg.HTTPServer.Mode,
		Environment:    cfg.Environment.Name,
		WebhookHandler: webhookHandler,
		Installations:  installationUseCase,
		Checklists:     checklistUseCase,
		Validations:    validationUseCase,
		Healths:        healthUseCase,
		Notifier:       notifierUseCase,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 8. Run
	if err := httpServer.Run(); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
