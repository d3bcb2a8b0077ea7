package webhook

import (
	"encoding/json"
	"fmt"

	"quantumreview/internal/queue"
)

// Router maps verified webhook events to background jobs. It is a pure
// translation step, every side effect lives behind the queue.
type Router struct{}

func NewRouter() *Router {
	return &Router{}
}

// Route decodes the event body and returns the jobs it implies. Events the
// system does not react to return an empty slice and no error.
func (r *Router) Route(eventType, deliveryID string, body []byte) ([]queue.Job, error) {
	switch eventType {
	case "installation":
		return r.routeInstallation(deliveryID, body)
	case "installation_repositories":
		return r.routeInstallationRepositories(deliveryID, body)
	case "issues":
		return r.routeIssues(deliveryID, body)
	case "pull_request":
		return r.routePullRequest(deliveryID, body)
	case "workflow_run":
		return r.routeWorkflowRun(deliveryID, body)
	default:
		return nil, nil
	}
}

func (r *Router) routeInstallation(deliveryID string, body []byte) ([]queue.Job, error) {
	var ev installationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	switch ev.Action {
	case "created", "deleted", "suspend", "unsuspend":
	default:
		return nil, nil
	}

	job, err := queue.NewJob(queue.TypeSyncInstallation, deliveryID, queue.SyncInstallationPayload{
		InstallationID: ev.Installation.ID,
		AccountLogin:   ev.Installation.Account.Login,
		Action:         ev.Action,
	})
	if err != nil {
		return nil, err
	}

	jobs := []queue.Job{job}

	// A fresh install carries the initial repository selection inline.
	if ev.Action == "created" && len(ev.Repositories) > 0 {
		added := make([]queue.RepoRef, 0, len(ev.Repositories))
		for _, repo := range ev.Repositories {
			added = append(added, queue.RepoRef{GitHubRepoID: repo.ID, FullName: repo.FullName})
		}
		repoJob, err := queue.NewJob(queue.TypeSyncRepositories, deliveryID+":repos", queue.SyncRepositoriesPayload{
			InstallationID: ev.Installation.ID,
			Added:          added,
		})
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, repoJob)
	}

	return jobs, nil
}

func (r *Router) routeInstallationRepositories(deliveryID string, body []byte) ([]queue.Job, error) {
	var ev installationRepositoriesEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	payload := queue.SyncRepositoriesPayload{InstallationID: ev.Installation.ID}
	for _, repo := range ev.RepositoriesAdded {
		payload.Added = append(payload.Added, queue.RepoRef{GitHubRepoID: repo.ID, FullName: repo.FullName})
	}
	for _, repo := range ev.RepositoriesRemoved {
		payload.Removed = append(payload.Removed, queue.RepoRef{GitHubRepoID: repo.ID, FullName: repo.FullName})
	}
	if len(payload.Added) == 0 && len(payload.Removed) == 0 {
		return nil, nil
	}

	job, err := queue.NewJob(queue.TypeSyncRepositories, deliveryID, payload)
	if err != nil {
		return nil, err
	}
	return []queue.Job{job}, nil
}

func (r *Router) routeIssues(deliveryID string, body []byte) ([]queue.Job, error) {
	var ev issuesEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	switch ev.Action {
	case "opened", "edited":
	default:
		return nil, nil
	}

	job, err := queue.NewJob(queue.TypeGenerateChecklist, deliveryID, queue.GenerateChecklistPayload{
		InstallationID: ev.Installation.ID,
		RepoFullName:   ev.Repository.FullName,
		GitHubRepoID:   ev.Repository.ID,
		IssueNumber:    ev.Issue.Number,
		Action:         ev.Action,
	})
	if err != nil {
		return nil, err
	}
	return []queue.Job{job}, nil
}

func (r *Router) routePullRequest(deliveryID string, body []byte) ([]queue.Job, error) {
	var ev pullRequestEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	switch ev.Action {
	case "opened", "synchronize", "reopened":
	default:
		return nil, nil
	}

	job, err := queue.NewJob(queue.TypeValidatePR, deliveryID, queue.ValidatePRPayload{
		InstallationID: ev.Installation.ID,
		RepoFullName:   ev.Repository.FullName,
		GitHubRepoID:   ev.Repository.ID,
		PRNumber:       ev.Number,
		HeadSHA:        ev.PullRequest.Head.SHA,
	})
	if err != nil {
		return nil, err
	}
	return []queue.Job{job}, nil
}

func (r *Router) routeWorkflowRun(deliveryID string, body []byte) ([]queue.Job, error) {
	var ev workflowRunEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	if ev.Action != "completed" {
		return nil, nil
	}

	job, err := queue.NewJob(queue.TypeProcessHealthArtifact, deliveryID, queue.ProcessHealthArtifactPayload{
		InstallationID: ev.Installation.ID,
		RepoFullName:   ev.Repository.FullName,
		GitHubRepoID:   ev.Repository.ID,
		RunID:          ev.WorkflowRun.ID,
		HeadSHA:        ev.WorkflowRun.HeadSHA,
	})
	if err != nil {
		return nil, err
	}
	return []queue.Job{job}, nil
}
