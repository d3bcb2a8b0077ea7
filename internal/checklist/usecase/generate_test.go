package usecase

import (
	"context"
	"errors"
	"testing"

	"quantumreview/internal/checklist"
	repo "quantumreview/internal/checklist/repository"
	"quantumreview/internal/installation"
	"quantumreview/internal/model"
	"quantumreview/internal/notify"
	"quantumreview/pkg/github"
	"quantumreview/pkg/log"
)

type memChecklistRepo struct {
	issue model.Issue
	items map[string]*model.ChecklistItem // by item_id
}

func newMemChecklistRepo() *memChecklistRepo {
	return &memChecklistRepo{items: make(map[string]*model.ChecklistItem)}
}

func (m *memChecklistRepo) UpsertIssue(ctx context.Context, opt repo.UpsertIssueOptions) (model.Issue, error) {
	if m.issue.ID == "" {
		m.issue = model.Issue{ID: "issue-uuid", RepoID: opt.RepoID, Number: opt.Number}
	}
	m.issue.Title = opt.Title
	m.issue.Body = opt.Body
	m.issue.Status = opt.Status
	return m.issue, nil
}

func (m *memChecklistRepo) GetOneIssue(ctx context.Context, opt repo.GetOneIssueOptions) (model.Issue, error) {
	if m.issue.ID == "" {
		return model.Issue{}, nil
	}
	return m.issue, nil
}

func (m *memChecklistRepo) SetIssueStatus(ctx context.Context, issueID string, status model.IssueStatus) error {
	m.issue.Status = status
	return nil
}

func (m *memChecklistRepo) ReplaceItems(ctx context.Context, opt repo.ReplaceItemsOptions) error {
	for id, item := range m.items {
		if !item.Protected {
			delete(m.items, id)
		}
	}
	for _, draft := range opt.Items {
		if _, exists := m.items[draft.ItemID]; exists {
			continue // protected row wins
		}
		m.items[draft.ItemID] = &model.ChecklistItem{
			ID: "uuid-" + draft.ItemID, IssueID: opt.IssueID, ItemID: draft.ItemID,
			Text: draft.Text, Required: draft.Required, Status: model.ChecklistItemPending,
		}
	}
	return nil
}

func (m *memChecklistRepo) ListItems(ctx context.Context, issueID string) ([]model.ChecklistItem, error) {
	var out []model.ChecklistItem
	for _, item := range m.items {
		out = append(out, *item)
	}
	return out, nil
}

func (m *memChecklistRepo) GetOneItem(ctx context.Context, issueID, itemID string) (model.ChecklistItem, error) {
	if item, ok := m.items[itemID]; ok {
		return *item, nil
	}
	return model.ChecklistItem{}, nil
}

func (m *memChecklistRepo) UpdateItem(ctx context.Context, opt repo.UpdateItemOptions) (model.ChecklistItem, error) {
	item, ok := m.items[opt.ItemID]
	if !ok {
		return model.ChecklistItem{}, nil
	}
	item.Status = opt.Status
	if opt.Protected != nil {
		item.Protected = *opt.Protected
	}
	return *item, nil
}

func (m *memChecklistRepo) UpdateItemStatuses(ctx context.Context, issueID string, statuses map[string]model.ChecklistItemStatus) error {
	for id, status := range statuses {
		if item, ok := m.items[id]; ok {
			item.Status = status
		}
	}
	return nil
}

func (m *memChecklistRepo) SetItemLinkedTests(ctx context.Context, issueID string, links map[string][]string) error {
	for id, testIDs := range links {
		if item, ok := m.items[id]; ok {
			item.LinkedTestIDs = testIDs
		}
	}
	return nil
}

type stubGenerator struct {
	drafts []checklist.ItemDraft
	err    error
	calls  int
}

func (s *stubGenerator) Generate(ctx context.Context, title, body string, labels []string) ([]checklist.ItemDraft, error) {
	s.calls++
	return s.drafts, s.err
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
	issue    *github.Issue
	issueErr error
	comments int
}

func (s *stubGitHub) GetIssue(ctx context.Context, token, repoFullName string, number int) (*github.Issue, error) {
	return s.issue, s.issueErr
}

func (s *stubGitHub) CreateIssueComment(ctx context.Context, token, repoFullName string, number int, body string) error {
	s.comments++
	return nil
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

var _ log.Logger = nopLogger{}

func newTestUseCase(store *memChecklistRepo, gen *stubGenerator, gh *stubGitHub, notifier *stubNotifier) *implUseCase {
	return New(
		store,
		gen,
		&stubInstallations{repo: model.Repo{ID: "repo-uuid", FullName: "acme/api", InstallationID: 101, Installed: true}},
		stubTokens{},
		gh,
		notifier,
		nopLogger{},
	)
}

func testInput() checklist.GenerateInput {
	return checklist.GenerateInput{
		InstallationID: 101, RepoFullName: "acme/api", GitHubRepoID: 9, IssueNumber: 7,
	}
}

func TestGenerate_ReplaysConverge(t *testing.T) {
	store := newMemChecklistRepo()
	gen := &stubGenerator{drafts: []checklist.ItemDraft{
		{ID: "C1", Text: "Login works", Required: true},
		{ID: "C2", Text: "Session expires", Required: false},
	}}
	gh := &stubGitHub{issue: &github.Issue{Number: 7, Title: "Add login", Body: "body"}}
	notifier := &stubNotifier{}
	uc := newTestUseCase(store, gen, gh, notifier)

	for i := 0; i < 2; i++ {
		if err := uc.Generate(context.Background(), testInput()); err != nil {
			t.Fatalf("Generate() run %d error = %v", i, err)
		}
	}

	if len(store.items) != 2 {
		t.Errorf("items = %d, want 2 after replay", len(store.items))
	}
	if store.issue.Status != model.IssueStatusProcessed {
		t.Errorf("issue status = %s, want processed", store.issue.Status)
	}
	if len(notifier.published) != 2 {
		t.Errorf("notifications = %d, want one per run", len(notifier.published))
	}
	if notifier.published[0].Kind != model.NotificationChecklistReady {
		t.Errorf("notification kind = %s", notifier.published[0].Kind)
	}
	if gh.comments != 2 {
		t.Errorf("comments posted = %d, want 2", gh.comments)
	}
}

func TestGenerate_ProtectedItemsSurviveRegeneration(t *testing.T) {
	store := newMemChecklistRepo()
	gen := &stubGenerator{drafts: []checklist.ItemDraft{
		{ID: "C1", Text: "Original item", Required: true},
		{ID: "C2", Text: "Other item", Required: true},
	}}
	gh := &stubGitHub{issue: &github.Issue{Number: 7, Title: "t", Body: "b"}}
	uc := newTestUseCase(store, gen, gh, &stubNotifier{})

	if err := uc.Generate(context.Background(), testInput()); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// Operator pins C1 with a manual verdict.
	protected := true
	if _, err := uc.UpdateItem(context.Background(), checklist.UpdateItemInput{
		RepoFullName: "acme/api", IssueNumber: 7, ItemID: "C1",
		Status: model.ChecklistItemPassed, Protected: &protected,
	}); err != nil {
		t.Fatalf("UpdateItem() error = %v", err)
	}

	// Issue edited, regeneration produces different text for C1.
	gen.drafts = []checklist.ItemDraft{
		{ID: "C1", Text: "Rewritten item", Required: true},
		{ID: "C3", Text: "New item", Required: true},
	}
	if err := uc.Generate(context.Background(), testInput()); err != nil {
		t.Fatalf("Generate() regeneration error = %v", err)
	}

	c1 := store.items["C1"]
	if c1 == nil || c1.Text != "Original item" || c1.Status != model.ChecklistItemPassed {
		t.Errorf("C1 = %+v, protected item must keep text and status", c1)
	}
	if _, gone := store.items["C2"]; gone {
		t.Error("C2 survived regeneration despite not being protected")
	}
	if _, ok := store.items["C3"]; !ok {
		t.Error("C3 missing after regeneration")
	}
}

func TestGenerate_GenerationFailureMarksIssue(t *testing.T) {
	store := newMemChecklistRepo()
	gen := &stubGenerator{err: checklist.ErrChecklistGenerationFailed}
	gh := &stubGitHub{issue: &github.Issue{Number: 7, Title: "t", Body: "no bullets"}}
	notifier := &stubNotifier{}
	uc := newTestUseCase(store, gen, gh, notifier)

	err := uc.Generate(context.Background(), testInput())
	if !errors.Is(err, checklist.ErrChecklistGenerationFailed) {
		t.Fatalf("Generate() error = %v, want ErrChecklistGenerationFailed", err)
	}
	if store.issue.Status != model.IssueStatusFailed {
		t.Errorf("issue status = %s, want failed", store.issue.Status)
	}
	if len(notifier.published) != 0 {
		t.Errorf("notifications = %d, want 0 on failure", len(notifier.published))
	}
}

func TestGenerate_FetchErrorPropagates(t *testing.T) {
	store := newMemChecklistRepo()
	gh := &stubGitHub{issueErr: errors.New("502 from GitHub")}
	uc := newTestUseCase(store, &stubGenerator{}, gh, &stubNotifier{})

	if err := uc.Generate(context.Background(), testInput()); err == nil {
		t.Fatal("Generate() error = nil, want fetch error")
	}
	if store.issue.ID != "" {
		t.Error("issue row created despite fetch failure")
	}
}
