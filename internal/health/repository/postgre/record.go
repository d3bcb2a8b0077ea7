package postgre

import (
	"context"
	"database/sql"

	"quantumreview/internal/health/repository"
	"quantumreview/internal/model"
)

const recordColumns = `id, pr_id, vulns_critical, vulns_high, vulns_medium, vulns_low,
	vulns_scanned, lint_status, coverage_percent, outdated_deps, score, analyzed_at`

func scanRecord(row interface{ Scan(...any) error }) (model.HealthRecord, error) {
	var rec model.HealthRecord
	var coverage sql.NullFloat64
	var outdated sql.NullInt64
	err := row.Scan(
		&rec.ID, &rec.PRID,
		&rec.Vulns.Critical, &rec.Vulns.High, &rec.Vulns.Medium, &rec.Vulns.Low,
		&rec.VulnsScanned, &rec.LintStatus, &coverage, &outdated,
		&rec.Score, &rec.AnalyzedAt,
	)
	if coverage.Valid {
		rec.CoveragePercent = &coverage.Float64
	}
	if outdated.Valid {
		n := int(outdated.Int64)
		rec.OutdatedDeps = &n
	}
	return rec, err
}

// Replace writes the new record for a PR, overwriting any previous one.
// NULL columns mean "never scanned", never zero.
func (r *implRepository) Replace(ctx context.Context, opt repository.ReplaceOptions) (model.HealthRecord, error) {
	const query = `
		INSERT INTO health_records (id, pr_id, vulns_critical, vulns_high, vulns_medium, vulns_low,
			vulns_scanned, lint_status, coverage_percent, outdated_deps, score, analyzed_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (pr_id) DO UPDATE
		SET vulns_critical = EXCLUDED.vulns_critical,
		    vulns_high = EXCLUDED.vulns_high,
		    vulns_medium = EXCLUDED.vulns_medium,
		    vulns_low = EXCLUDED.vulns_low,
		    vulns_scanned = EXCLUDED.vulns_scanned,
		    lint_status = EXCLUDED.lint_status,
		    coverage_percent = EXCLUDED.coverage_percent,
		    outdated_deps = EXCLUDED.outdated_deps,
		    score = EXCLUDED.score,
		    analyzed_at = NOW()
		RETURNING ` + recordColumns

	var coverage sql.NullFloat64
	if opt.CoveragePercent != nil {
		coverage = sql.NullFloat64{Float64: *opt.CoveragePercent, Valid: true}
	}
	var outdated sql.NullInt64
	if opt.OutdatedDeps != nil {
		outdated = sql.NullInt64{Int64: int64(*opt.OutdatedDeps), Valid: true}
	}

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query,
		opt.PRID,
		opt.Vulns.Critical, opt.Vulns.High, opt.Vulns.Medium, opt.Vulns.Low,
		opt.VulnsScanned, opt.LintStatus, coverage, outdated, opt.Score,
	))
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("Replace"), err)
		return model.HealthRecord{}, repository.ErrFailedToInsert
	}
	return rec, nil
}

// GetByPR retrieves the current record of a PR. Returns zero-value
// HealthRecord (ID == "") when the PR was never analyzed.
func (r *implRepository) GetByPR(ctx context.Context, prID string) (model.HealthRecord, error) {
	const query = `SELECT ` + recordColumns + ` FROM health_records WHERE pr_id = $1`

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, prID))
	if err == sql.ErrNoRows {
		return model.HealthRecord{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetByPR"), err)
		return model.HealthRecord{}, repository.ErrFailedToGet
	}
	return rec, nil
}
