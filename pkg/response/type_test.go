package response_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"quantumreview/pkg/response"
)

func TestDateTimeMarshalJSON(t *testing.T) {
	tm := time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC)
	dt := response.DateTime(tm)

	b, err := json.Marshal(dt)
	if err != nil {
		t.Fatalf("unexpected error marshaling DateTime: %v", err)
	}

	// Marshals via Local(), so the exact value depends on the runner's
	// timezone. Assert the shape instead of the instant.
	str := string(b)
	if !strings.HasPrefix(str, `"`) || !strings.HasSuffix(str, `"`) {
		t.Errorf("expected string JSON format, got %s", str)
	}
	if len(str) != len(response.DateTimeFormat)+2 {
		t.Errorf("expected %q layout, got %s", response.DateTimeFormat, str)
	}
}

func TestDateTimeInsideStruct(t *testing.T) {
	type payload struct {
		CreatedAt response.DateTime `json:"created_at"`
	}

	b, err := json.Marshal(payload{CreatedAt: response.DateTime(time.Now())})
	if err != nil {
		t.Fatalf("unexpected error marshaling struct: %v", err)
	}
	if !strings.Contains(string(b), `"created_at":"`) {
		t.Errorf("expected quoted created_at field, got %s", b)
	}
}
