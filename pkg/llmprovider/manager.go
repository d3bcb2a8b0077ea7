package llmprovider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quantumreview/pkg/log"
)

// Manager orchestrates provider selection and fallback.
// It deliberately carries no retry loop: transient failures surface to the
// caller, whose job-level retry policy decides whether to try again.
type Manager struct {
	providers []Provider
	config    *Config
	logger    log.Logger
}

// Config defines configuration for the Provider Manager
type Config struct {
	FallbackEnabled bool
	RequestTimeout  time.Duration // per-call bound over the whole fallback chain
}

// NewManager creates a new Provider Manager with the given providers, config, and logger
func NewManager(providers []Provider, config *Config, logger log.Logger) *Manager {
	return &Manager{
		providers: providers,
		config:    config,
		logger:    logger,
	}
}

// GenerateContent iterates through providers in priority order with fallback logic
func (m *Manager) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	if len(m.providers) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	if m.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.RequestTimeout)
		defer cancel()
	}

	var lastErr error

	for _, provider := range m.providers {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("generation timeout: %w", ctx.Err())
		default:
		}

		resp, err := provider.GenerateContent(ctx, req)
		if err == nil {
			m.logger.Infof(ctx, "LLM generation succeeded: provider=%s model=%s", provider.Name(), provider.Model())
			return resp, nil
		}

		m.logger.Warnf(ctx, "LLM generation failed: provider=%s model=%s err=%v", provider.Name(), provider.Model(), err)
		lastErr = err

		if !m.config.FallbackEnabled {
			break
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrAllProvidersFailed, lastErr)
}

// CleanJSON strips markdown code fences that models wrap around JSON output.
func CleanJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}
