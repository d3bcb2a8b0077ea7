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
	"quantumreview/internal/checklist"
	checklistRepo "quantumreview/internal/checklist/repository/postgre"
	checklistUC "quantumreview/internal/checklist/usecase"
	"quantumreview/internal/ghauth"
	healthRepo "quantumreview/internal/health/repository/postgre"
	healthUC "quantumreview/internal/health/usecase"
	instRepo "quantumreview/internal/installation/repository/postgre"
	instUC "quantumreview/internal/installation/usecase"
	"quantumreview/internal/jobs"
	"quantumreview/internal/notify"
	notifyRepo "quantumreview/internal/notify/repository/postgre"
	notifyUC "quantumreview/internal/notify/usecase"
	"quantumreview/internal/queue"
	queueRepo "quantumreview/internal/queue/repository/postgre"
	validationRepo "quantumreview/internal/validation/repository/postgre"
	validationUC "quantumreview/internal/validation/usecase"
	"quantumreview/pkg/github"
	"quantumreview/pkg/llmprovider"
	"quantumreview/pkg/log"
)

// main is the entry point for the background worker service. It claims jobs
// from the durable queue and processes them via UseCases.
//
// Pattern:
//  1. Initialize infra (same as cmd/api/main.go)
//  2. Create UseCases
//  3. Bind job handlers on the worker pool
//  4. Run & graceful shutdown
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting worker service...")

	// Infrastructure
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

	providers, err := llmprovider.InitializeProviders(&cfg.LLM)
	if err != nil {
		logger.Error(ctx, "Failed to initialize LLM providers: ", err)
		return
	}
	llmManager := llmprovider.NewManager(providers, &llmprovider.Config{
		FallbackEnabled: cfg.LLM.FallbackEnabled,
		RequestTimeout:  cfg.LLM.RequestTimeout,
	}, logger)

	// Repositories
	installations := instRepo.New(db, logger)
	checklists := checklistRepo.New(db, logger)
	validations := validationRepo.New(db, logger)
	healths := healthRepo.New(db, logger)
	notifications := notifyRepo.New(db, logger)
	jobsStore := queueRepo.New(db, logger)

	// UseCases
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

	// Worker pool
	worker := queue.NewWorker(logger, jobsStore, cfg.Worker, notifierUseCase)
	jobs.New(installationUseCase, checklistUseCase, validationUseCase, healthUseCase).Register(worker)

	logger.Infof(ctx, "Worker pool running with concurrency %d", cfg.Worker.Concurrency)
	worker.Run(ctx)
	logger.Info(ctx, "Worker service stopped gracefully")
}
