package usecase

import (
	"context"
	"errors"
	"testing"

	clRepo "quantumreview/internal/checklist/repository"
	"quantumreview/internal/installation"
	"quantumreview/internal/model"
	"quantumreview/internal/notify"
	"quantumreview/internal/validation"
	repo "quantumreview/internal/validation/repository"
	"quantumreview/pkg/github"
	"quantumreview/pkg/llmprovider"
)

type memValidationRepo struct {
	pr      model.PullRequest
	results []model.ValidationResult
}

func (m *memValidationRepo) UpsertPR(ctx context.Context, opt repo.UpsertPROptions) (model.PullRequest, error) {
	if m.pr.ID == "" {
		m.pr = model.PullRequest{ID: "pr-uuid", RepoID: opt.RepoID, Number: opt.Number}
	}
	m.pr.HeadSHA = opt.HeadSHA
	m.pr.LinkedIssueID = opt.LinkedIssueID
	m.pr.ValidationStatus = opt.Status
	return m.pr, nil
}

func (m *memValidationRepo) GetOnePR(ctx context.Context, opt repo.GetOnePROptions) (model.PullRequest, error) {
	return m.pr, nil
}

func (m *memValidationRepo) SetPRStatus(ctx context.Context, prID string, status model.ValidationStatus) error {
	m.pr.ValidationStatus = status
	return nil
}

func (m *memValidationRepo) CreateResult(ctx context.Context, opt repo.CreateResultOptions) (model.ValidationResult, error) {
	result := model.ValidationResult{
		ID: "result-uuid", PRID: opt.PRID, Verdicts: opt.Verdicts,
		Summary: opt.Summary, Score: opt.Score, Model: opt.Model,
	}
	m.results = append(m.results, result)
	return result, nil
}

func (m *memValidationRepo) ListResults(ctx context.Context, prID string) ([]model.ValidationResult, error) {
	return m.results, nil
}

type stubChecklists struct {
	issue          model.Issue
	items          []model.ChecklistItem
	statusesCalled map[string]model.ChecklistItemStatus
}

func (s *stubChecklists) GetOneIssue(ctx context.Context, opt clRepo.GetOneIssueOptions) (model.Issue, error) {
	if s.issue.Number == opt.Number {
		return s.issue, nil
	}
	return model.Issue{}, nil
}

func (s *stubChecklists) ListItems(ctx context.Context, issueID string) ([]model.ChecklistItem, error) {
	return s.items, nil
}

func (s *stubChecklists) UpdateItemStatuses(ctx context.Context, issueID string, statuses map[string]model.ChecklistItemStatus) error {
	s.statusesCalled = statuses
	return nil
}

type stubInstallations struct {
	installation.UseCase
	repo model.Repo
}

func (s *stubInstallations) ResolveRepo(ctx context.Context, input installation.ResolveRepoInput) (model.Repo, error) {
	return s.repo, nil
}

func (s *stubInstallations) GetRepo(ctx context.Context, input installation.GetRepoInput) (model.Repo, error) {
	return s.repo, nil
}

type stubTokens struct{}

func (stubTokens) Token(ctx context.Context, installationID int64) (string, error) {
	return "tok", nil
}

type stubGitHub struct {
	github.IClient
	pr    *github.PullRequest
	files []github.PullFile
}

func (s *stubGitHub) GetPullRequest(ctx context.Context, token, repoFullName string, number int) (*github.PullRequest, error) {
	return s.pr, nil
}

func (s *stubGitHub) ListPullRequestFiles(ctx context.Context, token, repoFullName string, number int) ([]github.PullFile, error) {
	return s.files, nil
}

type stubLLM struct {
	text string
	err  error
}

func (s *stubLLM) GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &llmprovider.Response{Text: s.text, ProviderName: "stub", ModelName: "stub-1"}, nil
}

type stubNotifier struct {
	published []notify.PublishInput
}

func (s *stubNotifier) Publish(ctx context.Context, input notify.PublishInput) error {
	s.published = append(s.published, input)
	return nil
}

func (s *stubNotifier) List(ctx context.Context, input notify.ListInput) ([]model.Notification, int, error) {
	return nil, 0, nil
}
func (s *stubNotifier) MarkRead(ctx context.Context, id string) error { return nil }
func (s *stubNotifier) Subscribe(topic string) *notify.Subscription   { return nil }

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

func defaultChecklists() *stubChecklists {
	return &stubChecklists{
		issue: model.Issue{ID: "issue-uuid", Number: 7},
		items: []model.ChecklistItem{
			{ItemID: "C1", Text: "Login works", Required: true},
			{ItemID: "C2", Text: "Session expires", Required: true},
			{ItemID: "C3", Text: "Dark mode", Required: false},
		},
	}
}

func newTestUseCase(store *memValidationRepo, checklists *stubChecklists, llm *stubLLM, notifier *stubNotifier) *implUseCase {
	return New(
		store,
		checklists,
		&stubInstallations{repo: model.Repo{ID: "repo-uuid", FullName: "acme/api", Installed: true}},
		stubTokens{},
		&stubGitHub{
			pr:    &github.PullRequest{Number: 12, Title: "Add login", Body: "Closes #7"},
			files: []github.PullFile{{Filename: "auth.go", Status: "added", Patch: "+func Login() {}"}},
		},
		llm,
		notifier,
		nopLogger{},
	)
}

func testInput() validation.ValidateInput {
	return validation.ValidateInput{
		InstallationID: 101, RepoFullName: "acme/api", GitHubRepoID: 9, PRNumber: 12, HeadSHA: "abc123",
	}
}

func TestValidate_AppendsResultAndUpdatesItems(t *testing.T) {
	store := &memValidationRepo{}
	checklists := defaultChecklists()
	llm := &stubLLM{text: `{
		"verdicts": [
			{"item_id": "C1", "verdict": "PASSED", "justification": "auth.go adds Login"},
			{"item_id": "C2", "verdict": "FAILED", "justification": "no expiry logic"},
			{"item_id": "C3", "verdict": "NOT_APPLICABLE", "justification": "out of scope"},
			{"item_id": "C9", "verdict": "PASSED", "justification": "unknown item"}
		],
		"summary": "Partially complete",
		"score": 55
	}`}
	notifier := &stubNotifier{}
	uc := newTestUseCase(store, checklists, llm, notifier)

	if err := uc.Validate(context.Background(), testInput()); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if len(store.results) != 1 {
		t.Fatalf("results = %d, want 1", len(store.results))
	}
	result := store.results[0]
	if len(result.Verdicts) != 3 {
		t.Errorf("verdicts = %d, want 3 (unknown C9 discarded)", len(result.Verdicts))
	}
	if result.Score != 55 {
		t.Errorf("score = %d, want the model's 55", result.Score)
	}
	if store.pr.ValidationStatus != model.ValidationStatusNeedsWork {
		t.Errorf("status = %s, want needs_work (C2 failed)", store.pr.ValidationStatus)
	}
	if checklists.statusesCalled["C1"] != model.ChecklistItemPassed ||
		checklists.statusesCalled["C2"] != model.ChecklistItemFailed ||
		checklists.statusesCalled["C3"] != model.ChecklistItemSkipped {
		t.Errorf("item statuses = %+v", checklists.statusesCalled)
	}
	if len(notifier.published) != 1 || notifier.published[0].Kind != model.NotificationPRValidated {
		t.Errorf("notifications = %+v", notifier.published)
	}
}

func TestValidate_FallbackScoreWhenOutOfRange(t *testing.T) {
	store := &memValidationRepo{}
	checklists := defaultChecklists()
	// 1 passed + 1 partial of 2 required → 100*(1+0.5)/2 = 75.
	llm := &stubLLM{text: `{
		"verdicts": [
			{"item_id": "C1", "verdict": "PASSED"},
			{"item_id": "C2", "verdict": "PARTIAL"}
		],
		"summary": "ok",
		"score": 250
	}`}
	uc := newTestUseCase(store, checklists, llm, &stubNotifier{})

	if err := uc.Validate(context.Background(), testInput()); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if store.results[0].Score != 75 {
		t.Errorf("score = %d, want fallback 75", store.results[0].Score)
	}
	// PARTIAL leaves C2 pending, so no status write for it.
	if _, ok := checklists.statusesCalled["C2"]; ok {
		t.Error("PARTIAL verdict must not change item status")
	}
}

func TestValidate_RepeatedVerdictCountsOnce(t *testing.T) {
	store := &memValidationRepo{}
	checklists := defaultChecklists()
	// C1 passed of 2 required; the repeated C1 must not inflate the
	// fallback to 100 while C2 failed.
	llm := &stubLLM{text: `{
		"verdicts": [
			{"item_id": "C1", "verdict": "PASSED"},
			{"item_id": "C1", "verdict": "PASSED"},
			{"item_id": "C2", "verdict": "FAILED"}
		],
		"summary": "dup"
	}`}
	uc := newTestUseCase(store, checklists, llm, &stubNotifier{})

	if err := uc.Validate(context.Background(), testInput()); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got := len(store.results[0].Verdicts); got != 2 {
		t.Errorf("verdicts stored = %d, want 2 after dedup", got)
	}
	if store.results[0].Score != 50 {
		t.Errorf("score = %d, want fallback 50", store.results[0].Score)
	}
	if store.pr.ValidationStatus != model.ValidationStatusNeedsWork {
		t.Errorf("status = %s, want needs_work", store.pr.ValidationStatus)
	}
}

func TestValidate_LLMFailurePreservesHistory(t *testing.T) {
	store := &memValidationRepo{
		results: []model.ValidationResult{{ID: "old", Score: 90}},
	}
	uc := newTestUseCase(store, defaultChecklists(), &stubLLM{err: errors.New("timeout")}, &stubNotifier{})

	err := uc.Validate(context.Background(), testInput())
	if !errors.Is(err, validation.ErrValidationFailed) {
		t.Fatalf("Validate() error = %v, want ErrValidationFailed", err)
	}
	if len(store.results) != 1 || store.results[0].ID != "old" {
		t.Errorf("results = %+v, previous history must stand", store.results)
	}
	if store.pr.ValidationStatus != model.ValidationStatusFailed {
		t.Errorf("status = %s, want failed", store.pr.ValidationStatus)
	}
}

func TestValidate_MalformedJSONFails(t *testing.T) {
	store := &memValidationRepo{}
	uc := newTestUseCase(store, defaultChecklists(), &stubLLM{text: "not json at all"}, &stubNotifier{})

	err := uc.Validate(context.Background(), testInput())
	if !errors.Is(err, validation.ErrValidationFailed) {
		t.Fatalf("Validate() error = %v, want ErrValidationFailed", err)
	}
	if len(store.results) != 0 {
		t.Errorf("results = %d, want 0", len(store.results))
	}
}

func TestValidate_NoLinkedChecklistSkips(t *testing.T) {
	store := &memValidationRepo{}
	checklists := &stubChecklists{} // no issue matches
	llm := &stubLLM{text: "{}"}
	uc := newTestUseCase(store, checklists, llm, &stubNotifier{})

	if err := uc.Validate(context.Background(), testInput()); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(store.results) != 0 {
		t.Errorf("results = %d, want 0 without a checklist", len(store.results))
	}
	if store.pr.ValidationStatus != model.ValidationStatusPending {
		t.Errorf("status = %s, want pending", store.pr.ValidationStatus)
	}
}

func TestValidate_AllRequiredPassedValidates(t *testing.T) {
	store := &memValidationRepo{}
	checklists := defaultChecklists()
	llm := &stubLLM{text: `{
		"verdicts": [
			{"item_id": "C1", "verdict": "PASSED"},
			{"item_id": "C2", "verdict": "PASSED"},
			{"item_id": "C3", "verdict": "FAILED"}
		],
		"summary": "required items done",
		"score": 95
	}`}
	uc := newTestUseCase(store, checklists, llm, &stubNotifier{})

	if err := uc.Validate(context.Background(), testInput()); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	// C3 is optional, its failure does not block validation.
	if store.pr.ValidationStatus != model.ValidationStatusValidated {
		t.Errorf("status = %s, want validated", store.pr.ValidationStatus)
	}
}
