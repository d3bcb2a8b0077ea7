package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	clRepo "quantumreview/internal/checklist/repository"
	"quantumreview/internal/installation"
	"quantumreview/internal/model"
	"quantumreview/internal/notify"
	"quantumreview/internal/validation"
	repo "quantumreview/internal/validation/repository"
	"quantumreview/pkg/github"
	"quantumreview/pkg/llmprovider"
)

const validateSystemPrompt = `You are a code reviewer. Assess whether a pull request satisfies each checklist item.
Respond with strict JSON only, no prose, no markdown fences:
{"verdicts": [{"item_id": "C1", "verdict": "PASSED", "justification": "..."}], "summary": "...", "score": 85}
Rules:
- verdict is one of: PASSED, FAILED, PARTIAL, NOT_APPLICABLE
- one verdict per checklist item, use the given item ids
- score is 0-100 reflecting overall completeness
- justification cites the relevant file or change`

// patchBudget caps how much diff text goes into the prompt.
const patchBudget = 24000

// Validate assesses one PR head against its linked issue checklist.
func (uc *implUseCase) Validate(ctx context.Context, input validation.ValidateInput) error {
	token, err := uc.tokens.Token(ctx, input.InstallationID)
	if err != nil {
		uc.l.Errorf(ctx, "uc.Validate token: %v", err)
		return err
	}

	ghPR, err := uc.gh.GetPullRequest(ctx, token, input.RepoFullName, input.PRNumber)
	if err != nil {
		uc.l.Errorf(ctx, "uc.Validate fetch PR %s#%d: %v", input.RepoFullName, input.PRNumber, err)
		return err
	}
	files, err := uc.gh.ListPullRequestFiles(ctx, token, input.RepoFullName, input.PRNumber)
	if err != nil {
		uc.l.Errorf(ctx, "uc.Validate list files %s#%d: %v", input.RepoFullName, input.PRNumber, err)
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

	issue, items := uc.linkedChecklist(ctx, rp.ID, ghPR.Body)

	pr, err := uc.repo.UpsertPR(ctx, repo.UpsertPROptions{
		RepoID:        rp.ID,
		Number:        input.PRNumber,
		HeadSHA:       ghPR.Head.SHA,
		LinkedIssueID: issue.ID,
		Status:        model.ValidationStatusRunning,
	})
	if err != nil {
		return err
	}

	if len(items) == 0 {
		// Nothing to assess against. Not an error, the PR simply has no
		// linked checklist yet.
		uc.l.Infof(ctx, "uc.Validate %s#%d: no linked checklist, skipping", input.RepoFullName, input.PRNumber)
		return uc.repo.SetPRStatus(ctx, pr.ID, model.ValidationStatusPending)
	}

	verdicts, summary, score, modelName, err := uc.assess(ctx, items, ghPR, files)
	if err != nil {
		if stErr := uc.repo.SetPRStatus(ctx, pr.ID, model.ValidationStatusFailed); stErr != nil {
			uc.l.Errorf(ctx, "uc.Validate mark failed: %v", stErr)
		}
		// Previous results stay untouched, history is append-only.
		return fmt.Errorf("%w: %v", validation.ErrValidationFailed, err)
	}

	result, err := uc.repo.CreateResult(ctx, repo.CreateResultOptions{
		PRID:     pr.ID,
		Verdicts: verdicts,
		Summary:  summary,
		Score:    score,
		Model:    modelName,
	})
	if err != nil {
		return err
	}

	status := prStatus(verdicts, items)
	if err := uc.repo.SetPRStatus(ctx, pr.ID, status); err != nil {
		return err
	}
	if err := uc.checklists.UpdateItemStatuses(ctx, issue.ID, itemStatuses(verdicts)); err != nil {
		return err
	}

	uc.l.Infof(ctx, "uc.Validate %s#%d: %s, score %d", input.RepoFullName, input.PRNumber, status, score)

	if err := uc.notifier.Publish(ctx, notify.PublishInput{
		RepoID: rp.ID,
		Kind:   model.NotificationPRValidated,
		Payload: map[string]any{
			"pr_number":         input.PRNumber,
			"validation_status": string(status),
			"score":             result.Score,
		},
	}); err != nil {
		uc.l.Warnf(ctx, "uc.Validate notify: %v", err)
	}
	return nil
}

// linkedChecklist resolves the issue a PR body references and loads its
// checklist. Missing links return zero values.
func (uc *implUseCase) linkedChecklist(ctx context.Context, repoID, prBody string) (model.Issue, []model.ChecklistItem) {
	number, ok := validation.ExtractLinkedIssue(prBody)
	if !ok {
		return model.Issue{}, nil
	}

	issue, err := uc.checklists.GetOneIssue(ctx, clRepo.GetOneIssueOptions{RepoID: repoID, Number: number})
	if err != nil || issue.ID == "" {
		return model.Issue{}, nil
	}
	items, err := uc.checklists.ListItems(ctx, issue.ID)
	if err != nil {
		return issue, nil
	}
	return issue, items
}

func (uc *implUseCase) assess(
	ctx context.Context,
	items []model.ChecklistItem,
	ghPR *github.PullRequest,
	files []github.PullFile,
) ([]model.ItemVerdict, string, int, string, error) {
	resp, err := uc.llm.GenerateContent(ctx, &llmprovider.Request{
		SystemInstruction: validateSystemPrompt,
		Messages:          []llmprovider.Message{{Role: "user", Text: buildAssessPrompt(items, ghPR, files)}},
		Temperature:       0.1,
		MaxTokens:         4096,
	})
	if err != nil {
		return nil, "", 0, "", err
	}

	var parsed struct {
		Verdicts []struct {
			ItemID        string `json:"item_id"`
			Verdict       string `json:"verdict"`
			Justification string `json:"justification"`
		} `json:"verdicts"`
		Summary string `json:"summary"`
		Score   *int   `json:"score"`
	}
	if err := json.Unmarshal([]byte(llmprovider.CleanJSON(resp.Text)), &parsed); err != nil {
		return nil, "", 0, "", fmt.Errorf("malformed verdict JSON from %s: %v", resp.ProviderName, err)
	}

	known := make(map[string]bool, len(items))
	required := make(map[string]bool)
	for _, item := range items {
		known[item.ItemID] = true
		if item.Required {
			required[item.ItemID] = true
		}
	}

	var verdicts []model.ItemVerdict
	seen := make(map[string]bool, len(items))
	for _, v := range parsed.Verdicts {
		if !known[v.ItemID] {
			uc.l.Warnf(ctx, "uc.Validate: discarding verdict for unknown item %q", v.ItemID)
			continue
		}
		verdict := model.Verdict(strings.ToUpper(strings.TrimSpace(v.Verdict)))
		switch verdict {
		case model.VerdictPassed, model.VerdictFailed, model.VerdictPartial, model.VerdictNotApplicable:
		default:
			uc.l.Warnf(ctx, "uc.Validate: discarding unknown verdict %q for %s", v.Verdict, v.ItemID)
			continue
		}
		// One verdict per item, first valid occurrence wins. A repeated
		// item must not carry extra weight in the fallback score.
		if seen[v.ItemID] {
			uc.l.Warnf(ctx, "uc.Validate: discarding repeated verdict for %s", v.ItemID)
			continue
		}
		seen[v.ItemID] = true
		verdicts = append(verdicts, model.ItemVerdict{
			ItemID:        v.ItemID,
			Verdict:       verdict,
			Justification: v.Justification,
		})
	}
	if len(verdicts) == 0 {
		return nil, "", 0, "", fmt.Errorf("no usable verdicts from %s", resp.ProviderName)
	}

	score := validation.FallbackScore(verdicts, required)
	if parsed.Score != nil && *parsed.Score >= 0 && *parsed.Score <= 100 {
		score = *parsed.Score
	}
	return verdicts, parsed.Summary, score, resp.ModelName, nil
}

func buildAssessPrompt(items []model.ChecklistItem, ghPR *github.PullRequest, files []github.PullFile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pull request: %s\n\n%s\n\nChecklist:\n", ghPR.Title, ghPR.Body)
	for _, item := range items {
		marker := "required"
		if !item.Required {
			marker = "optional"
		}
		fmt.Fprintf(&b, "- %s (%s): %s\n", item.ItemID, marker, item.Text)
	}

	b.WriteString("\nChanged files:\n")
	budget := patchBudget
	for _, f := range files {
		fmt.Fprintf(&b, "\n--- %s (%s, +%d -%d)\n", f.Filename, f.Status, f.Additions, f.Deletions)
		if budget <= 0 || f.Patch == "" {
			continue
		}
		patch := f.Patch
		if len(patch) > budget {
			patch = patch[:budget]
		}
		b.WriteString(patch)
		b.WriteString("\n")
		budget -= len(patch)
	}
	return b.String()
}

// prStatus derives the PR state: validated only when every required item
// passed or was not applicable.
func prStatus(verdicts []model.ItemVerdict, items []model.ChecklistItem) model.ValidationStatus {
	byItem := make(map[string]model.Verdict, len(verdicts))
	for _, v := range verdicts {
		byItem[v.ItemID] = v.Verdict
	}
	for _, item := range items {
		if !item.Required {
			continue
		}
		switch byItem[item.ItemID] {
		case model.VerdictPassed, model.VerdictNotApplicable:
		default:
			return model.ValidationStatusNeedsWork
		}
	}
	return model.ValidationStatusValidated
}

// itemStatuses maps verdicts onto checklist item states. PARTIAL leaves the
// item pending.
func itemStatuses(verdicts []model.ItemVerdict) map[string]model.ChecklistItemStatus {
	statuses := make(map[string]model.ChecklistItemStatus)
	for _, v := range verdicts {
		switch v.Verdict {
		case model.VerdictPassed:
			statuses[v.ItemID] = model.ChecklistItemPassed
		case model.VerdictFailed:
			statuses[v.ItemID] = model.ChecklistItemFailed
		case model.VerdictNotApplicable:
			statuses[v.ItemID] = model.ChecklistItemSkipped
		}
	}
	return statuses
}

// GetValidation returns the PR and its result history.
func (uc *implUseCase) GetValidation(ctx context.Context, input validation.GetValidationInput) (model.PullRequest, []model.ValidationResult, error) {
	rp, err := uc.installations.GetRepo(ctx, installation.GetRepoInput{FullName: input.RepoFullName})
	if err != nil {
		return model.PullRequest{}, nil, err
	}
	if rp.ID == "" {
		return model.PullRequest{}, nil, nil
	}

	pr, err := uc.repo.GetOnePR(ctx, repo.GetOnePROptions{RepoID: rp.ID, Number: input.PRNumber})
	if err != nil {
		return model.PullRequest{}, nil, err
	}
	if pr.ID == "" {
		return model.PullRequest{}, nil, nil
	}

	results, err := uc.repo.ListResults(ctx, pr.ID)
	if err != nil {
		return model.PullRequest{}, nil, err
	}
	return pr, results, nil
}
