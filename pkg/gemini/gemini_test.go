package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quantumreview/pkg/gemini"
)

func TestGenerateContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.URL.Query().Get("key") != "test-api-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if req.Contents[0].Parts[0].Text == "cause_500" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"candidates": [
				{"content": {"role": "model", "parts": [{"text": "hello "}, {"text": "world"}]}}
			]
		}`))
	}))
	defer ts.Close()

	client, err := gemini.New(gemini.Config{
		APIKey: "test-api-key",
		Model:  "test-model",
		APIURL: ts.URL,
	})
	if err != nil {
		t.Fatalf("unexpected error creating client: %v", err)
	}

	t.Run("success", func(t *testing.T) {
		resp, err := client.GenerateContent(context.Background(), &gemini.Request{
			Messages: []gemini.Message{{Role: "user", Text: "say hello"}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Text != "hello world" {
			t.Errorf("expected concatenated parts, got %q", resp.Text)
		}
	})

	t.Run("server error", func(t *testing.T) {
		_, err := client.GenerateContent(context.Background(), &gemini.Request{
			Messages: []gemini.Message{{Role: "user", Text: "cause_500"}},
		})
		if err == nil {
			t.Fatal("expected error on 500 response")
		}
		if !strings.Contains(err.Error(), "500") {
			t.Errorf("expected status code in error, got %v", err)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	cfg := gemini.Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing API key")
	}

	cfg = gemini.Config{APIKey: "k"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model == "" || cfg.APIURL == "" || cfg.HTTPClient == nil {
		t.Error("expected defaults to be filled")
	}
}
