package postgre

import (
	"context"
	"encoding/json"

	"quantumreview/internal/model"
	repo "quantumreview/internal/validation/repository"
)

// CreateResult appends one validation result. Rows are never updated.
func (r *implRepository) CreateResult(ctx context.Context, opt repo.CreateResultOptions) (model.ValidationResult, error) {
	verdicts, err := json.Marshal(opt.Verdicts)
	if err != nil {
		r.l.Errorf(ctx, "%s marshal: %v", r.dsn("CreateResult"), err)
		return model.ValidationResult{}, repo.ErrFailedToInsert
	}

	const query = `
		INSERT INTO validation_results (id, pr_id, verdicts, summary, score, model, created_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, NOW())
		RETURNING id, pr_id, verdicts, summary, score, model, created_at`

	var result model.ValidationResult
	var raw []byte
	err = r.db.QueryRowContext(ctx, query, opt.PRID, verdicts, opt.Summary, opt.Score, opt.Model).Scan(
		&result.ID, &result.PRID, &raw, &result.Summary, &result.Score, &result.Model, &result.CreatedAt,
	)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreateResult"), err)
		return model.ValidationResult{}, repo.ErrFailedToInsert
	}
	_ = json.Unmarshal(raw, &result.Verdicts)
	return result, nil
}

// ListResults returns the full history for a PR, newest first.
func (r *implRepository) ListResults(ctx context.Context, prID string) ([]model.ValidationResult, error) {
	const query = `
		SELECT id, pr_id, verdicts, summary, score, model, created_at
		FROM validation_results WHERE pr_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, prID)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListResults"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var results []model.ValidationResult
	for rows.Next() {
		var result model.ValidationResult
		var raw []byte
		if err := rows.Scan(&result.ID, &result.PRID, &raw, &result.Summary, &result.Score, &result.Model, &result.CreatedAt); err != nil {
			return nil, repo.ErrFailedToList
		}
		_ = json.Unmarshal(raw, &result.Verdicts)
		results = append(results, result)
	}
	return results, nil
}
