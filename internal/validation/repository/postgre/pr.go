package postgre

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"quantumreview/internal/model"
	repo "quantumreview/internal/validation/repository"
)

const prColumns = `id, repo_id, number, head_sha, linked_issue_id, validation_status, created_at, updated_at`

func scanPR(row interface{ Scan(...any) error }) (model.PullRequest, error) {
	var pr model.PullRequest
	var linked sql.NullString
	err := row.Scan(
		&pr.ID, &pr.RepoID, &pr.Number, &pr.HeadSHA, &linked,
		&pr.ValidationStatus, &pr.CreatedAt, &pr.UpdatedAt,
	)
	if linked.Valid {
		pr.LinkedIssueID = linked.String
	}
	return pr, err
}

// UpsertPR inserts a PR or refreshes head SHA, linked issue and status on
// subsequent pushes.
func (r *implRepository) UpsertPR(ctx context.Context, opt repo.UpsertPROptions) (model.PullRequest, error) {
	const query = `
		INSERT INTO pull_requests (id, repo_id, number, head_sha, linked_issue_id, validation_status, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, NULLIF($4, ''), $5, NOW(), NOW())
		ON CONFLICT (repo_id, number) DO UPDATE
		SET head_sha = EXCLUDED.head_sha,
		    linked_issue_id = EXCLUDED.linked_issue_id,
		    validation_status = EXCLUDED.validation_status,
		    updated_at = NOW()
		RETURNING ` + prColumns

	pr, err := scanPR(r.db.QueryRowContext(ctx, query, opt.RepoID, opt.Number, opt.HeadSHA, opt.LinkedIssueID, opt.Status))
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("UpsertPR"), err)
		return model.PullRequest{}, repo.ErrFailedToInsert
	}
	return pr, nil
}

// GetOnePR retrieves a single PR by the provided filters (AND condition).
// Returns zero-value PullRequest (ID == "") when not found.
func (r *implRepository) GetOnePR(ctx context.Context, opt repo.GetOnePROptions) (model.PullRequest, error) {
	var conds []string
	var args []any
	if opt.ID != "" {
		args = append(args, opt.ID)
		conds = append(conds, fmt.Sprintf("id = $%d", len(args)))
	}
	if opt.RepoID != "" {
		args = append(args, opt.RepoID)
		conds = append(conds, fmt.Sprintf("repo_id = $%d", len(args)))
	}
	if opt.Number != 0 {
		args = append(args, opt.Number)
		conds = append(conds, fmt.Sprintf("number = $%d", len(args)))
	}
	if opt.HeadSHA != "" {
		args = append(args, opt.HeadSHA)
		conds = append(conds, fmt.Sprintf("head_sha = $%d", len(args)))
	}
	if len(conds) == 0 {
		return model.PullRequest{}, repo.ErrFailedToGet
	}

	query := fmt.Sprintf("SELECT %s FROM pull_requests WHERE %s LIMIT 1", prColumns, strings.Join(conds, " AND "))
	pr, err := scanPR(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return model.PullRequest{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetOnePR"), err)
		return model.PullRequest{}, repo.ErrFailedToGet
	}
	return pr, nil
}

// SetPRStatus updates the validation status.
func (r *implRepository) SetPRStatus(ctx context.Context, prID string, status model.ValidationStatus) error {
	const query = `UPDATE pull_requests SET validation_status = $1, updated_at = NOW() WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, status, prID); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("SetPRStatus"), err)
		return repo.ErrFailedToUpdate
	}
	return nil
}
