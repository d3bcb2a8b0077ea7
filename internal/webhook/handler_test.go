package webhook

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"quantumreview/config"
	"quantumreview/internal/queue"
)

type mockEnqueuer struct {
	mu   sync.Mutex
	jobs []queue.Job
	err  error
}

func (m *mockEnqueuer) Enqueue(ctx context.Context, jobs ...queue.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.jobs = append(m.jobs, jobs...)
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, args ...any)                  {}
func (nopLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (nopLogger) Info(ctx context.Context, args ...any)                   {}
func (nopLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (nopLogger) Warn(ctx context.Context, args ...any)                   {}
func (nopLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (nopLogger) Error(ctx context.Context, args ...any)                  {}
func (nopLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (nopLogger) DPanic(ctx context.Context, args ...any)                 {}
func (nopLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (nopLogger) Panic(ctx context.Context, args ...any)                  {}
func (nopLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (nopLogger) Fatal(ctx context.Context, args ...any)                  {}
func (nopLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

const testSecret = "s3cret"

func newTestHandler(enq queue.Enqueuer) *Handler {
	return NewHandler(enq, config.WebhookConfig{
		Secret:          testSecret,
		RateLimitPerMin: 6000,
		DedupWindow:     time.Hour,
		DedupCapacity:   1000,
	}, nopLogger{})
}

func postWebhook(h *Handler, eventType, deliveryID string, body []byte, signature string) *httptest.ResponseRecorder {
	return postWebhookFrom(h, "", eventType, deliveryID, body, signature)
}

func postWebhookFrom(h *Handler, sourceIP, eventType, deliveryID string, body []byte, signature string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/webhooks/github", h.HandleGitHubWebhook)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/github", bytes.NewReader(body))
	req.Header.Set("X-GitHub-Event", eventType)
	req.Header.Set("X-GitHub-Delivery", deliveryID)
	req.Header.Set("X-Hub-Signature-256", signature)
	if sourceIP != "" {
		req.Header.Set("X-Forwarded-For", sourceIP)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_InvalidSignatureRejected(t *testing.T) {
	enq := &mockEnqueuer{}
	h := newTestHandler(enq)

	body := []byte(`{"action":"opened","issue":{"number":1},"repository":{"id":1,"full_name":"a/b"},"installation":{"id":1}}`)
	w := postWebhook(h, "issues", "d-1", body, sign("wrong-secret", body))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if len(enq.jobs) != 0 {
		t.Errorf("jobs enqueued = %d, want 0 for unverified request", len(enq.jobs))
	}
}

func TestHandler_ValidEventEnqueued(t *testing.T) {
	enq := &mockEnqueuer{}
	h := newTestHandler(enq)

	body := []byte(`{"action":"opened","issue":{"number":7},"repository":{"id":9,"full_name":"acme/api"},"installation":{"id":101}}`)
	w := postWebhook(h, "issues", "d-1", body, sign(testSecret, body))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	if len(enq.jobs) != 1 || enq.jobs[0].Type != queue.TypeGenerateChecklist {
		t.Errorf("jobs = %+v, want one generate_checklist", enq.jobs)
	}
}

func TestHandler_DuplicateDeliveryNotReenqueued(t *testing.T) {
	enq := &mockEnqueuer{}
	h := newTestHandler(enq)

	body := []byte(`{"action":"opened","issue":{"number":7},"repository":{"id":9,"full_name":"acme/api"},"installation":{"id":101}}`)
	sig := sign(testSecret, body)

	first := postWebhook(h, "issues", "d-dup", body, sig)
	second := postWebhook(h, "issues", "d-dup", body, sig)

	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("statuses = %d/%d, want 200/200", first.Code, second.Code)
	}
	if len(enq.jobs) != 1 {
		t.Errorf("jobs enqueued = %d, want exactly 1 across both deliveries", len(enq.jobs))
	}
}

func TestHandler_EnqueueFailureAllowsRedelivery(t *testing.T) {
	enq := &mockEnqueuer{err: errors.New("db down")}
	h := newTestHandler(enq)

	body := []byte(`{"action":"opened","issue":{"number":7},"repository":{"id":9,"full_name":"acme/api"},"installation":{"id":101}}`)
	sig := sign(testSecret, body)

	if w := postWebhook(h, "issues", "d-retry", body, sig); w.Code == http.StatusOK {
		t.Fatalf("status = %d, want failure when enqueue errors", w.Code)
	}

	// Store recovers, GitHub redelivers the same ID.
	enq.mu.Lock()
	enq.err = nil
	enq.mu.Unlock()
	if w := postWebhook(h, "issues", "d-retry", body, sig); w.Code != http.StatusOK {
		t.Fatalf("redelivery status = %d, want 200", w.Code)
	}
	if len(enq.jobs) != 1 {
		t.Errorf("jobs = %d, want 1 after redelivery", len(enq.jobs))
	}
}

func TestHandler_UnknownEventAcknowledged(t *testing.T) {
	enq := &mockEnqueuer{}
	h := newTestHandler(enq)

	body := []byte(`{"action":"created"}`)
	w := postWebhook(h, "star", "d-star", body, sign(testSecret, body))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for unhandled event", w.Code)
	}
	if len(enq.jobs) != 0 {
		t.Errorf("jobs = %d, want 0", len(enq.jobs))
	}
}

func TestHandler_IPAllowlist(t *testing.T) {
	enq := &mockEnqueuer{}
	h := NewHandler(enq, config.WebhookConfig{
		Secret:          testSecret,
		AllowedIPs:      []string{"10.0.0.0/8", "192.0.2.50"},
		RateLimitPerMin: 6000,
		DedupWindow:     time.Hour,
		DedupCapacity:   1000,
	}, nopLogger{})

	body := []byte(`{"action":"opened","issue":{"number":7},"repository":{"id":9,"full_name":"acme/api"},"installation":{"id":101}}`)
	sig := sign(testSecret, body)

	if w := postWebhookFrom(h, "203.0.113.9", "issues", "d-ip1", body, sig); w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 for IP outside the allowlist", w.Code)
	}
	if len(enq.jobs) != 0 {
		t.Fatalf("jobs = %d, want 0 from a rejected source", len(enq.jobs))
	}

	if w := postWebhookFrom(h, "10.1.2.3", "issues", "d-ip2", body, sig); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for CIDR match", w.Code)
	}
	if w := postWebhookFrom(h, "192.0.2.50", "issues", "d-ip3", body, sig); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for exact IP match", w.Code)
	}
	if len(enq.jobs) != 2 {
		t.Errorf("jobs = %d, want 2", len(enq.jobs))
	}
}

func TestHandler_RateLimitIsPerSource(t *testing.T) {
	enq := &mockEnqueuer{}
	// 10/min gives a burst of 1, so a source's second immediate request
	// must be limited while a different source still gets through.
	h := NewHandler(enq, config.WebhookConfig{
		Secret:          testSecret,
		RateLimitPerMin: 10,
		DedupWindow:     time.Hour,
		DedupCapacity:   1000,
	}, nopLogger{})

	body := []byte(`{"action":"created"}`)
	sig := sign(testSecret, body)

	if w := postWebhookFrom(h, "198.51.100.1", "star", "d-rl1", body, sig); w.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", w.Code)
	}
	if w := postWebhookFrom(h, "198.51.100.1", "star", "d-rl2", body, sig); w.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429 for same source", w.Code)
	}
	if w := postWebhookFrom(h, "198.51.100.2", "star", "d-rl3", body, sig); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for a different source", w.Code)
	}
}

func TestHandler_MissingDeliveryID(t *testing.T) {
	enq := &mockEnqueuer{}
	h := newTestHandler(enq)

	body := []byte(`{"action":"opened"}`)
	w := postWebhook(h, "issues", "", body, sign(testSecret, body))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
