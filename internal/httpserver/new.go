package httpserver

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"quantumreview/internal/checklist"
	"quantumreview/internal/health"
	"quantumreview/internal/installation"
	"quantumreview/internal/notify"
	"quantumreview/internal/validation"
	"quantumreview/internal/webhook"
	"quantumreview/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string

	webhookHandler *webhook.Handler

	installations installation.UseCase
	checklists    checklist.UseCase
	validations   validation.UseCase
	healths       health.UseCase
	notifier      notify.UseCase
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string

	WebhookHandler *webhook.Handler

	Installations installation.UseCase
	Checklists    checklist.UseCase
	Validations   validation.UseCase
	Healths       health.UseCase
	Notifier      notify.UseCase
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:              logger,
		gin:            gin.Default(),
		port:           cfg.Port,
		mode:           cfg.Mode,
		environment:    cfg.Environment,
		webhookHandler: cfg.WebhookHandler,
		installations:  cfg.Installations,
		checklists:     cfg.Checklists,
		validations:    cfg.Validations,
		healths:        cfg.Healths,
		notifier:       cfg.Notifier,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.webhookHandler == nil {
		return errors.New("webhook handler is required")
	}
	return nil
}

// Run maps routes and serves until the listener fails or the process exits.
func (srv HTTPServer) Run() error {
	if err := srv.mapHandlers(); err != nil {
		return err
	}
	return srv.gin.Run(fmt.Sprintf(":%d", srv.port))
}
