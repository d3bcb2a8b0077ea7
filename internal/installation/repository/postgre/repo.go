package postgre

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	repo "quantumreview/internal/installation/repository"
	"quantumreview/internal/model"
)

const repoColumns = `id, github_repo_id, installation_id, full_name, installed, created_at, updated_at`

func scanRepo(row interface{ Scan(...any) error }) (model.Repo, error) {
	var rp model.Repo
	err := row.Scan(
		&rp.ID, &rp.GitHubRepoID, &rp.InstallationID, &rp.FullName,
		&rp.Installed, &rp.CreatedAt, &rp.UpdatedAt,
	)
	return rp, err
}

// UpsertRepo inserts a tracked repo or reactivates an existing row. The
// full name follows renames on GitHub's side.
func (r *implRepository) UpsertRepo(ctx context.Context, opt repo.UpsertRepoOptions) (model.Repo, error) {
	const query = `
		INSERT INTO repos (id, github_repo_id, installation_id, full_name, installed, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, TRUE, NOW(), NOW())
		ON CONFLICT (github_repo_id) DO UPDATE
		SET installation_id = EXCLUDED.installation_id, full_name = EXCLUDED.full_name, installed = TRUE, updated_at = NOW()
		RETURNING ` + repoColumns

	rp, err := scanRepo(r.db.QueryRowContext(ctx, query, opt.GitHubRepoID, opt.InstallationID, opt.FullName))
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("UpsertRepo"), err)
		return model.Repo{}, repo.ErrFailedToInsert
	}
	return rp, nil
}

// GetOneRepo retrieves a single repo by the provided filters (AND condition).
// Returns zero-value Repo (ID == "") when not found.
func (r *implRepository) GetOneRepo(ctx context.Context, opt repo.GetOneRepoOptions) (model.Repo, error) {
	var conds []string
	var args []any
	if opt.ID != "" {
		args = append(args, opt.ID)
		conds = append(conds, fmt.Sprintf("id = $%d", len(args)))
	}
	if opt.GitHubRepoID != 0 {
		args = append(args, opt.GitHubRepoID)
		conds = append(conds, fmt.Sprintf("github_repo_id = $%d", len(args)))
	}
	if opt.FullName != "" {
		args = append(args, opt.FullName)
		conds = append(conds, fmt.Sprintf("full_name = $%d", len(args)))
	}
	if len(conds) == 0 {
		return model.Repo{}, repo.ErrFailedToGet
	}

	query := fmt.Sprintf("SELECT %s FROM repos WHERE %s LIMIT 1", repoColumns, strings.Join(conds, " AND "))
	rp, err := scanRepo(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return model.Repo{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetOneRepo"), err)
		return model.Repo{}, repo.ErrFailedToGet
	}
	return rp, nil
}

// ListRepos returns a paginated list of tracked repos and the total count.
func (r *implRepository) ListRepos(ctx context.Context, opt repo.ListReposOptions) ([]model.Repo, int, error) {
	conds := []string{"TRUE"}
	var args []any
	if opt.InstalledOnly {
		conds = append(conds, "installed = TRUE")
	}
	if opt.InstallationID != 0 {
		args = append(args, opt.InstallationID)
		conds = append(conds, fmt.Sprintf("installation_id = $%d", len(args)))
	}
	where := strings.Join(conds, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM repos WHERE %s", where)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		r.l.Errorf(ctx, "%s count: %v", r.dsn("ListRepos"), err)
		return nil, 0, repo.ErrFailedToList
	}

	// Negative limit disables pagination (full set, used by reconcile).
	limit := opt.Limit
	if limit == 0 {
		limit = 50
	}
	query := fmt.Sprintf("SELECT %s FROM repos WHERE %s ORDER BY full_name", repoColumns, where)
	if limit > 0 {
		args = append(args, limit, opt.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListRepos"), err)
		return nil, 0, repo.ErrFailedToList
	}
	defer rows.Close()

	var repos []model.Repo
	for rows.Next() {
		rp, err := scanRepo(rows)
		if err != nil {
			return nil, 0, repo.ErrFailedToList
		}
		repos = append(repos, rp)
	}
	return repos, total, nil
}

// MarkRepoRemoved flips the installed flag off for one repo.
func (r *implRepository) MarkRepoRemoved(ctx context.Context, installationID, githubRepoID int64) error {
	const query = `UPDATE repos SET installed = FALSE, updated_at = NOW() WHERE installation_id = $1 AND github_repo_id = $2`
	if _, err := r.db.ExecContext(ctx, query, installationID, githubRepoID); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("MarkRepoRemoved"), err)
		return repo.ErrFailedToUpdate
	}
	return nil
}

// MarkReposRemovedByInstallation deactivates every repo of an installation,
// used when the app is uninstalled from an account.
func (r *implRepository) MarkReposRemovedByInstallation(ctx context.Context, installationID int64) error {
	const query = `UPDATE repos SET installed = FALSE, updated_at = NOW() WHERE installation_id = $1`
	if _, err := r.db.ExecContext(ctx, query, installationID); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("MarkReposRemovedByInstallation"), err)
		return repo.ErrFailedToUpdate
	}
	return nil
}
