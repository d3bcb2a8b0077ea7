package postgre

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	repo "quantumreview/internal/checklist/repository"
	"quantumreview/internal/model"
)

const issueColumns = `id, repo_id, number, title, body, status, created_at, updated_at`

func scanIssue(row interface{ Scan(...any) error }) (model.Issue, error) {
	var is model.Issue
	err := row.Scan(
		&is.ID, &is.RepoID, &is.Number, &is.Title, &is.Body, &is.Status,
		&is.CreatedAt, &is.UpdatedAt,
	)
	return is, err
}

// UpsertIssue inserts an issue or refreshes its content on replay.
func (r *implRepository) UpsertIssue(ctx context.Context, opt repo.UpsertIssueOptions) (model.Issue, error) {
	const query = `
		INSERT INTO issues (id, repo_id, number, title, body, status, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (repo_id, number) DO UPDATE
		SET title = EXCLUDED.title, body = EXCLUDED.body, status = EXCLUDED.status, updated_at = NOW()
		RETURNING ` + issueColumns

	is, err := scanIssue(r.db.QueryRowContext(ctx, query, opt.RepoID, opt.Number, opt.Title, opt.Body, opt.Status))
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("UpsertIssue"), err)
		return model.Issue{}, repo.ErrFailedToInsert
	}
	return is, nil
}

// GetOneIssue retrieves a single issue by the provided filters (AND
// condition). Returns zero-value Issue (ID == "") when not found.
func (r *implRepository) GetOneIssue(ctx context.Context, opt repo.GetOneIssueOptions) (model.Issue, error) {
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
	if len(conds) == 0 {
		return model.Issue{}, repo.ErrFailedToGet
	}

	query := fmt.Sprintf("SELECT %s FROM issues WHERE %s LIMIT 1", issueColumns, strings.Join(conds, " AND "))
	is, err := scanIssue(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return model.Issue{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetOneIssue"), err)
		return model.Issue{}, repo.ErrFailedToGet
	}
	return is, nil
}

// SetIssueStatus updates the generation status.
func (r *implRepository) SetIssueStatus(ctx context.Context, issueID string, status model.IssueStatus) error {
	const query = `UPDATE issues SET status = $1, updated_at = NOW() WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, status, issueID); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("SetIssueStatus"), err)
		return repo.ErrFailedToUpdate
	}
	return nil
}
