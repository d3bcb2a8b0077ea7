package usecase

import (
	"context"

	"quantumreview/internal/health"
	"quantumreview/internal/health/repository"
	"quantumreview/internal/installation"
	"quantumreview/internal/model"
	"quantumreview/internal/notify"
	valRepo "quantumreview/internal/validation/repository"
)

// ProcessArtifacts ingests the scan artifacts of one completed workflow run.
// Each artifact is optional; a missing or unparseable artifact leaves its
// fields UNKNOWN rather than failing the whole record.
func (uc *implUseCase) ProcessArtifacts(ctx context.Context, input health.ProcessInput) error {
	token, err := uc.tokens.Token(ctx, input.InstallationID)
	if err != nil {
		uc.l.Errorf(ctx, "uc.ProcessArtifacts token: %v", err)
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

	pr, err := uc.prs.GetOnePR(ctx, valRepo.GetOnePROptions{RepoID: rp.ID, HeadSHA: input.HeadSHA})
	if err != nil {
		return err
	}
	if pr.ID == "" {
		// Workflow runs on branches without a tracked PR carry no health
		// signal for us.
		uc.l.Infof(ctx, "uc.ProcessArtifacts %s run %d: no PR for SHA %s, skipping",
			input.RepoFullName, input.RunID, input.HeadSHA)
		return nil
	}

	artifacts, err := uc.gh.ListWorkflowArtifacts(ctx, token, input.RepoFullName, input.RunID)
	if err != nil {
		uc.l.Errorf(ctx, "uc.ProcessArtifacts list artifacts run %d: %v", input.RunID, err)
		return err
	}

	rec := model.HealthRecord{LintStatus: model.LintUnknown}
	var testResults []health.TestResult
	for _, artifact := range artifacts {
		if artifact.Expired {
			continue
		}
		switch artifact.Name {
		case health.ArtifactVulnerability, health.ArtifactLint, health.ArtifactCoverage, health.ArtifactTests:
		default:
			continue
		}

		data, err := uc.gh.DownloadArtifact(ctx, token, artifact.ArchiveDownloadURL)
		if err != nil {
			uc.l.Warnf(ctx, "uc.ProcessArtifacts download %s: %v", artifact.Name, err)
			continue
		}

		switch artifact.Name {
		case health.ArtifactVulnerability:
			counts, err := health.ParseVulnerabilityReport(data)
			if err != nil {
				uc.l.Warnf(ctx, "uc.ProcessArtifacts: %v", err)
				continue
			}
			rec.Vulns = counts
			rec.VulnsScanned = true
		case health.ArtifactLint:
			status, err := health.ParseLintReport(data)
			if err != nil {
				uc.l.Warnf(ctx, "uc.ProcessArtifacts: %v", err)
				continue
			}
			rec.LintStatus = status
		case health.ArtifactCoverage:
			pct, err := health.ParseCoverageReport(data)
			if err != nil {
				uc.l.Warnf(ctx, "uc.ProcessArtifacts: %v", err)
				continue
			}
			rec.CoveragePercent = pct
		case health.ArtifactTests:
			results, err := health.ParseTestReport(data)
			if err != nil {
				uc.l.Warnf(ctx, "uc.ProcessArtifacts: %v", err)
				continue
			}
			testResults = results
		}
	}

	if err := uc.mapTestResults(ctx, pr, testResults); err != nil {
		return err
	}

	score := health.Score(rec, uc.weights)
	stored, err := uc.repo.Replace(ctx, repository.ReplaceOptions{
		PRID:            pr.ID,
		Vulns:           rec.Vulns,
		VulnsScanned:    rec.VulnsScanned,
		LintStatus:      rec.LintStatus,
		CoveragePercent: rec.CoveragePercent,
		OutdatedDeps:    rec.OutdatedDeps,
		Score:           score,
	})
	if err != nil {
		return err
	}

	uc.l.Infof(ctx, "uc.ProcessArtifacts %s#%d: score %d", input.RepoFullName, pr.Number, score)

	if err := uc.notifier.Publish(ctx, notify.PublishInput{
		RepoID: rp.ID,
		Kind:   model.NotificationHealthUpdated,
		Payload: map[string]any{
			"pr_number": pr.Number,
			"score":     stored.Score,
		},
	}); err != nil {
		uc.l.Warnf(ctx, "uc.ProcessArtifacts notify: %v", err)
	}
	return nil
}

// mapTestResults folds JUnit outcomes onto the checklist of the PR's
// linked issue. PRs without a link or runs without a test report are a
// no-op.
func (uc *implUseCase) mapTestResults(ctx context.Context, pr model.PullRequest, results []health.TestResult) error {
	if len(results) == 0 || pr.LinkedIssueID == "" {
		return nil
	}

	items, err := uc.checklists.ListItems(ctx, pr.LinkedIssueID)
	if err != nil {
		return err
	}
	statuses, links := health.MapTestResults(results, items)
	if len(statuses) == 0 {
		return nil
	}

	if err := uc.checklists.UpdateItemStatuses(ctx, pr.LinkedIssueID, statuses); err != nil {
		return err
	}
	if err := uc.checklists.SetItemLinkedTests(ctx, pr.LinkedIssueID, links); err != nil {
		return err
	}
	uc.l.Infof(ctx, "uc.ProcessArtifacts PR %d: %d test outcomes mapped onto %d items", pr.Number, len(results), len(statuses))
	return nil
}

// GetHealth returns the current record of a PR.
func (uc *implUseCase) GetHealth(ctx context.Context, input health.GetHealthInput) (model.HealthRecord, error) {
	rp, err := uc.installations.GetRepo(ctx, installation.GetRepoInput{FullName: input.RepoFullName})
	if err != nil {
		return model.HealthRecord{}, err
	}
	if rp.ID == "" {
		return model.HealthRecord{}, nil
	}

	pr, err := uc.prs.GetOnePR(ctx, valRepo.GetOnePROptions{RepoID: rp.ID, Number: input.PRNumber})
	if err != nil {
		return model.HealthRecord{}, err
	}
	if pr.ID == "" {
		return model.HealthRecord{}, nil
	}

	return uc.repo.GetByPR(ctx, pr.ID)
}
