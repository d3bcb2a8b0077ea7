package ghauth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quantumreview/pkg/github"
	"quantumreview/pkg/log"
)

const defaultMargin = 5 * time.Minute

type cachedToken struct {
	token     string
	expiresAt time.Time
}

// Cache caches installation tokens and coalesces concurrent refreshes so
// each installation sees at most one in-flight token exchange at a time.
type Cache struct {
	l      log.Logger
	client github.IClient
	margin time.Duration
	now    func() time.Time

	mu     sync.RWMutex
	tokens map[int64]cachedToken
	group  singleflight.Group
}

type Option func(*Cache)

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

func New(l log.Logger, client github.IClient, margin time.Duration, opts ...Option) *Cache {
	if margin <= 0 {
		margin = defaultMargin
	}
	c := &Cache{
		l:      l,
		client: client,
		margin: margin,
		now:    time.Now,
		tokens: make(map[int64]cachedToken),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) Token(ctx context.Context, installationID int64) (string, error) {
	if tok, ok := c.get(installationID); ok {
		return tok, nil
	}

	key := fmt.Sprintf("%d", installationID)
	v, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check under the flight: a concurrent caller may have
		// refreshed between the miss and the Do.
		if tok, ok := c.get(installationID); ok {
			return tok, nil
		}
		return c.refresh(ctx, installationID)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Cache) Evict(installationID int64) {
	c.mu.Lock()
	delete(c.tokens, installationID)
	c.mu.Unlock()
}

// get returns the cached token when it is still valid for at least the margin.
func (c *Cache) get(installationID int64) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.tokens[installationID]
	if !ok {
		return "", false
	}
	if c.now().Add(c.margin).After(entry.expiresAt) {
		return "", false
	}
	return entry.token, true
}

func (c *Cache) refresh(ctx context.Context, installationID int64) (string, error) {
	tok, err := c.client.CreateInstallationToken(ctx, installationID)
	if err != nil {
		c.l.Errorf(ctx, "ghauth.Cache.refresh: installation %d: %v", installationID, err)
		// A still-valid cached entry is kept as is. Only the refresh
		// attempt failed, the old token may outlive the margin check
		// of a later caller.
		return "", fmt.Errorf("%w: %v", ErrTokenAcquisition, err)
	}

	c.mu.Lock()
	c.tokens[installationID] = cachedToken{token: tok.Token, expiresAt: tok.ExpiresAt}
	c.mu.Unlock()

	return tok.Token, nil
}
