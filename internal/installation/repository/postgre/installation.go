package postgre

import (
	"context"
	"database/sql"

	repo "quantumreview/internal/installation/repository"
	"quantumreview/internal/model"
)

// UpsertInstallation inserts an installation or refreshes an existing row,
// in both cases converging on the requested installed flag.
func (r *implRepository) UpsertInstallation(ctx context.Context, opt repo.UpsertInstallationOptions) (model.Installation, error) {
	const query = `
		INSERT INTO installations (id, account_login, installed, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET account_login = EXCLUDED.account_login, installed = EXCLUDED.installed, updated_at = NOW()
		RETURNING id, account_login, installed, created_at, updated_at`

	var inst model.Installation
	err := r.db.QueryRowContext(ctx, query, opt.InstallationID, opt.AccountLogin, opt.Installed).Scan(
		&inst.ID, &inst.AccountLogin, &inst.Installed, &inst.CreatedAt, &inst.UpdatedAt,
	)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("UpsertInstallation"), err)
		return model.Installation{}, repo.ErrFailedToInsert
	}
	return inst, nil
}

// GetOneInstallation returns zero-value Installation (ID == 0) when not found.
func (r *implRepository) GetOneInstallation(ctx context.Context, installationID int64) (model.Installation, error) {
	const query = `SELECT id, account_login, installed, created_at, updated_at FROM installations WHERE id = $1`

	var inst model.Installation
	err := r.db.QueryRowContext(ctx, query, installationID).Scan(
		&inst.ID, &inst.AccountLogin, &inst.Installed, &inst.CreatedAt, &inst.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return model.Installation{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetOneInstallation"), err)
		return model.Installation{}, repo.ErrFailedToGet
	}
	return inst, nil
}

// MarkInstallationRemoved flips the installed flag off, keeping history.
func (r *implRepository) MarkInstallationRemoved(ctx context.Context, installationID int64) error {
	const query = `UPDATE installations SET installed = FALSE, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, installationID); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("MarkInstallationRemoved"), err)
		return repo.ErrFailedToUpdate
	}
	return nil
}
