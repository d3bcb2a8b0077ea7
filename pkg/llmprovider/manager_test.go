package llmprovider

import (
	"context"
	"errors"
	"testing"
	"time"
)

// mockProvider is a test implementation of the Provider interface
type mockProvider struct {
	name       string
	model      string
	shouldFail bool
	response   *Response
	callCount  int
}

func (m *mockProvider) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	m.callCount++
	if m.shouldFail {
		return nil, errors.New("mock provider error")
	}
	return m.response, nil
}

func (m *mockProvider) Name() string  { return m.name }
func (m *mockProvider) Model() string { return m.model }

// mockLogger is a test implementation of the Logger interface
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}

func TestGenerateContent_SuccessWithPrimaryProvider(t *testing.T) {
	primary := &mockProvider{
		name:     "primary",
		model:    "primary-model",
		response: &Response{Text: "hello", ProviderName: "primary", ModelName: "primary-model"},
	}
	secondary := &mockProvider{name: "secondary", model: "secondary-model"}

	m := NewManager([]Provider{primary, secondary}, &Config{FallbackEnabled: true}, &mockLogger{})

	resp, err := m.GenerateContent(context.Background(), &Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "hello" {
		t.Errorf("unexpected response text: %q", resp.Text)
	}
	if secondary.callCount != 0 {
		t.Errorf("secondary provider should not be called, got %d calls", secondary.callCount)
	}
}

func TestGenerateContent_FallbackToSecondary(t *testing.T) {
	primary := &mockProvider{name: "primary", model: "m1", shouldFail: true}
	secondary := &mockProvider{
		name:     "secondary",
		model:    "m2",
		response: &Response{Text: "from secondary"},
	}

	m := NewManager([]Provider{primary, secondary}, &Config{FallbackEnabled: true}, &mockLogger{})

	resp, err := m.GenerateContent(context.Background(), &Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "from secondary" {
		t.Errorf("expected secondary response, got %q", resp.Text)
	}
	if primary.callCount != 1 {
		t.Errorf("primary should be tried exactly once, got %d", primary.callCount)
	}
}

func TestGenerateContent_FallbackDisabled(t *testing.T) {
	primary := &mockProvider{name: "primary", model: "m1", shouldFail: true}
	secondary := &mockProvider{name: "secondary", model: "m2", response: &Response{}}

	m := NewManager([]Provider{primary, secondary}, &Config{FallbackEnabled: false}, &mockLogger{})

	_, err := m.GenerateContent(context.Background(), &Request{})
	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Fatalf("expected ErrAllProvidersFailed, got %v", err)
	}
	if secondary.callCount != 0 {
		t.Errorf("secondary should not be tried when fallback disabled")
	}
}

func TestGenerateContent_AllFail_NoRetryLoop(t *testing.T) {
	p1 := &mockProvider{name: "p1", model: "m1", shouldFail: true}
	p2 := &mockProvider{name: "p2", model: "m2", shouldFail: true}

	m := NewManager([]Provider{p1, p2}, &Config{FallbackEnabled: true, RequestTimeout: time.Second}, &mockLogger{})

	_, err := m.GenerateContent(context.Background(), &Request{})
	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Fatalf("expected ErrAllProvidersFailed, got %v", err)
	}
	// Each provider is tried exactly once: retry is the job queue's policy.
	if p1.callCount != 1 || p2.callCount != 1 {
		t.Errorf("expected single attempt per provider, got %d and %d", p1.callCount, p2.callCount)
	}
}

func TestGenerateContent_NoProviders(t *testing.T) {
	m := NewManager(nil, &Config{}, &mockLogger{})
	_, err := m.GenerateContent(context.Background(), &Request{})
	if !errors.Is(err, ErrNoProvidersConfigured) {
		t.Fatalf("expected ErrNoProvidersConfigured, got %v", err)
	}
}

func TestCleanJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"{\"a\":1}", "{\"a\":1}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"```\n[1,2]\n```", "[1,2]"},
		{"  {\"a\":1}  ", "{\"a\":1}"},
	}
	for _, c := range cases {
		if got := CleanJSON(c.in); got != c.want {
			t.Errorf("CleanJSON(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
