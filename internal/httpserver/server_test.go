package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"quantumreview/config"
	"quantumreview/internal/checklist"
	"quantumreview/internal/health"
	"quantumreview/internal/installation"
	"quantumreview/internal/model"
	"quantumreview/internal/notify"
	"quantumreview/internal/validation"
	"quantumreview/internal/webhook"
)

type stubChecklists struct {
	checklist.UseCase
	issue model.Issue
	items []model.ChecklistItem
}

func (s *stubChecklists) GetChecklist(ctx context.Context, input checklist.GetChecklistInput) (model.Issue, []model.ChecklistItem, error) {
	return s.issue, s.items, nil
}

type stubValidations struct {
	validation.UseCase
	pr      model.PullRequest
	results []model.ValidationResult
}

func (s *stubValidations) GetValidation(ctx context.Context, input validation.GetValidationInput) (model.PullRequest, []model.ValidationResult, error) {
	return s.pr, s.results, nil
}

type stubHealths struct {
	health.UseCase
	rec model.HealthRecord
}

func (s *stubHealths) GetHealth(ctx context.Context, input health.GetHealthInput) (model.HealthRecord, error) {
	return s.rec, nil
}

type stubInstallations struct {
	installation.UseCase
	repos []model.Repo
}

func (s *stubInstallations) ListRepos(ctx context.Context, input installation.ListReposInput) ([]model.Repo, int, error) {
	return s.repos, len(s.repos), nil
}

func (s *stubInstallations) GetRepo(ctx context.Context, input installation.GetRepoInput) (model.Repo, error) {
	for _, rp := range s.repos {
		if rp.FullName == input.FullName {
			return rp, nil
		}
	}
	return model.Repo{}, nil
}

type stubNotifier struct {
	notify.UseCase
	notifications []model.Notification
	read          []string
}

func (s *stubNotifier) List(ctx context.Context, input notify.ListInput) ([]model.Notification, int, error) {
	return s.notifications, len(s.notifications), nil
}

func (s *stubNotifier) MarkRead(ctx context.Context, id string) error {
	s.read = append(s.read, id)
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

func newTestServer(t *testing.T, cfg Config) *HTTPServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if cfg.Logger == nil {
		cfg.Logger = nopLogger{}
	}
	cfg.Port = 8080
	cfg.Mode = gin.TestMode
	cfg.Environment = "test"
	if cfg.WebhookHandler == nil {
		cfg.WebhookHandler = webhook.NewHandler(nil, config.WebhookConfig{
			Secret:          "s3cret",
			RateLimitPerMin: 100,
		}, nopLogger{})
	}

	srv, err := New(cfg.Logger, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := srv.mapHandlers(); err != nil {
		t.Fatalf("mapHandlers: %v", err)
	}
	return srv
}

func doRequest(srv *HTTPServer, method, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.gin.ServeHTTP(w, req)
	return w
}

func TestSystemRoutes(t *testing.T) {
	srv := newTestServer(t, Config{
		Installations: &stubInstallations{},
		Checklists:    &stubChecklists{},
		Validations:   &stubValidations{},
		Healths:       &stubHealths{},
		Notifier:      &stubNotifier{},
	})

	for _, path := range []string{"/health", "/ready", "/live"} {
		if w := doRequest(srv, http.MethodGet, path, ""); w.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, w.Code)
		}
	}
}

func TestGetChecklist_NeverAnalyzed(t *testing.T) {
	srv := newTestServer(t, Config{
		Installations: &stubInstallations{},
		Checklists:    &stubChecklists{},
		Validations:   &stubValidations{},
		Healths:       &stubHealths{},
		Notifier:      &stubNotifier{},
	})

	w := doRequest(srv, http.MethodGet, "/api/v1/repos/acme/api/issues/7/checklist", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		Data struct {
			AnalysisStatus string `json:"analysis_status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.AnalysisStatus != "never_analyzed" {
		t.Errorf("analysis_status = %q, want never_analyzed", resp.Data.AnalysisStatus)
	}
}

func TestGetChecklist_ReturnsItems(t *testing.T) {
	srv := newTestServer(t, Config{
		Installations: &stubInstallations{},
		Checklists: &stubChecklists{
			issue: model.Issue{ID: "issue-uuid", Number: 7, Title: "Add login", Status: model.IssueStatusProcessed},
			items: []model.ChecklistItem{
				{ItemID: "C1", Text: "Login works", Required: true, Status: model.ChecklistItemPending},
			},
		},
		Validations: &stubValidations{},
		Healths:     &stubHealths{},
		Notifier:    &stubNotifier{},
	})

	w := doRequest(srv, http.MethodGet, "/api/v1/repos/acme/api/issues/7/checklist", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		Data struct {
			AnalysisStatus string             `json:"analysis_status"`
			Items          []checklistItemDTO `json:"items"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.AnalysisStatus != "done" || len(resp.Data.Items) != 1 {
		t.Errorf("data = %+v", resp.Data)
	}
}

func TestGetValidation_DistinguishesInProgress(t *testing.T) {
	srv := newTestServer(t, Config{
		Installations: &stubInstallations{},
		Checklists:    &stubChecklists{},
		Validations: &stubValidations{
			pr: model.PullRequest{ID: "pr-uuid", Number: 12, ValidationStatus: model.ValidationStatusRunning},
		},
		Healths:  &stubHealths{},
		Notifier: &stubNotifier{},
	})

	w := doRequest(srv, http.MethodGet, "/api/v1/repos/acme/api/pulls/12/validation", "")
	var resp struct {
		Data struct {
			AnalysisStatus string `json:"analysis_status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.AnalysisStatus != "in_progress" {
		t.Errorf("analysis_status = %q, want in_progress", resp.Data.AnalysisStatus)
	}
}

func TestUpdateChecklistItem_RejectsBadStatus(t *testing.T) {
	srv := newTestServer(t, Config{
		Installations: &stubInstallations{},
		Checklists:    &stubChecklists{},
		Validations:   &stubValidations{},
		Healths:       &stubHealths{},
		Notifier:      &stubNotifier{},
	})

	w := doRequest(srv, http.MethodPatch,
		"/api/v1/repos/acme/api/issues/7/checklist/C1", `{"status": "vibing"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestMarkNotificationRead(t *testing.T) {
	notifier := &stubNotifier{}
	srv := newTestServer(t, Config{
		Installations: &stubInstallations{},
		Checklists:    &stubChecklists{},
		Validations:   &stubValidations{},
		Healths:       &stubHealths{},
		Notifier:      notifier,
	})

	w := doRequest(srv, http.MethodPost, "/api/v1/notifications/n-1/read", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(notifier.read) != 1 || notifier.read[0] != "n-1" {
		t.Errorf("read = %v, want [n-1]", notifier.read)
	}
}

func TestStreamEvents_UnknownRepo(t *testing.T) {
	srv := newTestServer(t, Config{
		Installations: &stubInstallations{},
		Checklists:    &stubChecklists{},
		Validations:   &stubValidations{},
		Healths:       &stubHealths{},
		Notifier:      &stubNotifier{},
	})

	w := doRequest(srv, http.MethodGet, "/api/v1/events/acme/ghost", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
