package github

import (
	"net/http"
	"testing"
	"time"
)

func TestConfigValidate_KeepsProvidedHTTPClient(t *testing.T) {
	custom := &http.Client{Timeout: 3 * time.Second}
	cfg := Config{
		AppID:      "12345",
		PrivateKey: []byte("pem"),
		HTTPClient: custom,
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.HTTPClient != custom {
		t.Error("Validate() replaced the provided HTTP client")
	}
	if cfg.APIBase != DefaultAPIBase || cfg.JWTExpiry != DefaultJWTExpiry {
		t.Errorf("defaults not filled: apiBase=%q expiry=%v", cfg.APIBase, cfg.JWTExpiry)
	}
}

func TestConfigValidate_DefaultsHTTPClient(t *testing.T) {
	cfg := Config{AppID: "12345", PrivateKey: []byte("pem")}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.HTTPClient == nil || cfg.HTTPClient.Timeout != DefaultTimeout {
		t.Errorf("HTTPClient = %+v, want default with %v timeout", cfg.HTTPClient, DefaultTimeout)
	}
}
