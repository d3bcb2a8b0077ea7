package usecase

import (
	"context"
	"fmt"
	"strings"

	"quantumreview/internal/checklist"
	repo "quantumreview/internal/checklist/repository"
	"quantumreview/internal/installation"
	"quantumreview/internal/model"
	"quantumreview/internal/notify"
)

// Generate builds the checklist for one issue. The issue is re-fetched from
// GitHub so replays converge on current content rather than the event
// snapshot.
func (uc *implUseCase) Generate(ctx context.Context, input checklist.GenerateInput) error {
	token, err := uc.tokens.Token(ctx, input.InstallationID)
	if err != nil {
		uc.l.Errorf(ctx, "uc.Generate token: %v", err)
		return err
	}

	ghIssue, err := uc.gh.GetIssue(ctx, token, input.RepoFullName, input.IssueNumber)
	if err != nil {
		uc.l.Errorf(ctx, "uc.Generate fetch issue %s#%d: %v", input.RepoFullName, input.IssueNumber, err)
		return err
	}

	rp, err := uc.installations.ResolveRepo(ctx, installation.ResolveRepoInput{
		InstallationID: input.InstallationID,
		GitHubRepoID:   input.GitHubRepoID,
		FullName:       input.RepoFullName,
	})
	if err != nil {
		return err
	}

	issue, err := uc.repo.UpsertIssue(ctx, repo.UpsertIssueOptions{
		RepoID: rp.ID,
		Number: input.IssueNumber,
		Title:  ghIssue.Title,
		Body:   ghIssue.Body,
		Status: model.IssueStatusProcessing,
	})
	if err != nil {
		return err
	}

	labels := make([]string, 0, len(ghIssue.Labels))
	for _, label := range ghIssue.Labels {
		labels = append(labels, label.Name)
	}

	drafts, err := uc.gen.Generate(ctx, ghIssue.Title, ghIssue.Body, labels)
	if err != nil {
		if stErr := uc.repo.SetIssueStatus(ctx, issue.ID, model.IssueStatusFailed); stErr != nil {
			uc.l.Errorf(ctx, "uc.Generate mark failed: %v", stErr)
		}
		return err
	}

	items := make([]repo.ItemDraft, 0, len(drafts))
	for _, d := range drafts {
		items = append(items, repo.ItemDraft{
			ItemID:   d.ID,
			Text:     d.Text,
			Required: d.Required,
			Category: d.Category,
			Priority: d.Priority,
			Tags:     d.Tags,
		})
	}
	if err := uc.repo.ReplaceItems(ctx, repo.ReplaceItemsOptions{IssueID: issue.ID, Items: items}); err != nil {
		return err
	}
	if err := uc.repo.SetIssueStatus(ctx, issue.ID, model.IssueStatusProcessed); err != nil {
		return err
	}

	uc.l.Infof(ctx, "checklist generated for %s#%d: %d items", input.RepoFullName, input.IssueNumber, len(drafts))

	// Best effort from here on. The checklist itself is committed.
	uc.postComment(ctx, token, input, drafts)

	if err := uc.notifier.Publish(ctx, notify.PublishInput{
		RepoID: rp.ID,
		Kind:   model.NotificationChecklistReady,
		Payload: map[string]any{
			"issue_number":    input.IssueNumber,
			"issue_title":     ghIssue.Title,
			"checklist_count": len(drafts),
		},
	}); err != nil {
		uc.l.Warnf(ctx, "uc.Generate notify: %v", err)
	}
	return nil
}

func (uc *implUseCase) postComment(ctx context.Context, token string, input checklist.GenerateInput, drafts []checklist.ItemDraft) {
	var b strings.Builder
	b.WriteString("## Generated Checklist\n\n")
	for _, d := range drafts {
		marker := "✅"
		if !d.Required {
			marker = "⚪"
		}
		fmt.Fprintf(&b, "%s %s: %s\n", marker, d.ID, d.Text)
	}

	if err := uc.gh.CreateIssueComment(ctx, token, input.RepoFullName, input.IssueNumber, b.String()); err != nil {
		uc.l.Warnf(ctx, "uc.Generate comment on %s#%d: %v", input.RepoFullName, input.IssueNumber, err)
	}
}

// GetChecklist returns the issue and its checklist for the read API.
func (uc *implUseCase) GetChecklist(ctx context.Context, input checklist.GetChecklistInput) (model.Issue, []model.ChecklistItem, error) {
	rp, err := uc.installations.GetRepo(ctx, installation.GetRepoInput{FullName: input.RepoFullName})
	if err != nil {
		return model.Issue{}, nil, err
	}
	if rp.ID == "" {
		return model.Issue{}, nil, nil
	}

	issue, err := uc.repo.GetOneIssue(ctx, repo.GetOneIssueOptions{RepoID: rp.ID, Number: input.IssueNumber})
	if err != nil {
		return model.Issue{}, nil, err
	}
	if issue.ID == "" {
		return model.Issue{}, nil, nil
	}

	items, err := uc.repo.ListItems(ctx, issue.ID)
	if err != nil {
		return model.Issue{}, nil, err
	}
	return issue, items, nil
}

// UpdateItem applies a manual override to one checklist item.
func (uc *implUseCase) UpdateItem(ctx context.Context, input checklist.UpdateItemInput) (model.ChecklistItem, error) {
	rp, err := uc.installations.GetRepo(ctx, installation.GetRepoInput{FullName: input.RepoFullName})
	if err != nil {
		return model.ChecklistItem{}, err
	}
	if rp.ID == "" {
		return model.ChecklistItem{}, checklist.ErrIssueNotFound
	}

	issue, err := uc.repo.GetOneIssue(ctx, repo.GetOneIssueOptions{RepoID: rp.ID, Number: input.IssueNumber})
	if err != nil {
		return model.ChecklistItem{}, err
	}
	if issue.ID == "" {
		return model.ChecklistItem{}, checklist.ErrIssueNotFound
	}

	item, err := uc.repo.UpdateItem(ctx, repo.UpdateItemOptions{
		IssueID:   issue.ID,
		ItemID:    input.ItemID,
		Status:    input.Status,
		Protected: input.Protected,
	})
	if err != nil {
		return model.ChecklistItem{}, err
	}
	if item.ID == "" {
		return model.ChecklistItem{}, checklist.ErrItemNotFound
	}
	return item, nil
}
