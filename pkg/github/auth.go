package github

import (
	"crypto/rsa"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Config configures the GitHub App client.
type Config struct {
	AppID      string
	PrivateKey []byte // PEM-encoded RSA key
	APIBase    string
	JWTExpiry  time.Duration
	HTTPClient *http.Client
}

// Validate checks required fields and fills defaults.
func (c *Config) Validate() error {
	if c.AppID == "" {
		return fmt.Errorf("github: app ID is required")
	}
	if len(c.PrivateKey) == 0 {
		return fmt.Errorf("github: private key is required")
	}
	if c.APIBase == "" {
		c.APIBase = DefaultAPIBase
	}
	if c.JWTExpiry <= 0 {
		c.JWTExpiry = DefaultJWTExpiry
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	return nil
}

// appJWT signs a short-lived RS256 JWT identifying the GitHub App.
// iat is backdated one minute to tolerate clock skew.
func appJWT(appID string, key *rsa.PrivateKey, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		Issuer:    appID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("github: failed to sign app JWT: %w", err)
	}
	return signed, nil
}
