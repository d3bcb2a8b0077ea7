package webhook

import (
	"quantumreview/config"
	"quantumreview/internal/queue"
	pkgLog "quantumreview/pkg/log"
)

type Handler struct {
	enqueuer queue.Enqueuer
	security *SecurityValidator
	deduper  *Deduper
	router   *Router
	l        pkgLog.Logger
}

func NewHandler(enqueuer queue.Enqueuer, cfg config.WebhookConfig, l pkgLog.Logger) *Handler {
	return &Handler{
		enqueuer: enqueuer,
		security: NewSecurityValidator(SecurityConfig{
			Secret:          cfg.Secret,
			AllowedIPs:      cfg.AllowedIPs,
			RateLimitPerMin: cfg.RateLimitPerMin,
		}),
		deduper: NewDeduper(cfg.DedupWindow, cfg.DedupCapacity),
		router:  NewRouter(),
		l:       l,
	}
}
