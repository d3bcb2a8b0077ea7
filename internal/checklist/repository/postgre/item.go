package postgre

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	repo "quantumreview/internal/checklist/repository"
	"quantumreview/internal/model"
)

const itemColumns = `id, issue_id, item_id, text, required, category, priority, tags, status, protected, linked_test_ids, created_at, updated_at`

func scanItem(row interface{ Scan(...any) error }) (model.ChecklistItem, error) {
	var it model.ChecklistItem
	err := row.Scan(
		&it.ID, &it.IssueID, &it.ItemID, &it.Text, &it.Required,
		&it.Category, &it.Priority, pq.Array(&it.Tags),
		&it.Status, &it.Protected, pq.Array(&it.LinkedTestIDs),
		&it.CreatedAt, &it.UpdatedAt,
	)
	return it, err
}

// ReplaceItems swaps the issue's checklist inside one transaction. Protected
// rows stay untouched; an incoming draft whose item id collides with one is
// dropped by the conflict clause.
func (r *implRepository) ReplaceItems(ctx context.Context, opt repo.ReplaceItemsOptions) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.l.Errorf(ctx, "%s begin: %v", r.dsn("ReplaceItems"), err)
		return repo.ErrFailedToUpdate
	}
	defer tx.Rollback()

	const deleteQuery = `DELETE FROM checklist_items WHERE issue_id = $1 AND protected = FALSE`
	if _, err := tx.ExecContext(ctx, deleteQuery, opt.IssueID); err != nil {
		r.l.Errorf(ctx, "%s delete: %v", r.dsn("ReplaceItems"), err)
		return repo.ErrFailedToDelete
	}

	const insertQuery = `
		INSERT INTO checklist_items
			(id, issue_id, item_id, text, required, category, priority, tags, status, protected, linked_test_ids, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, 'pending', FALSE, '{}', NOW(), NOW())
		ON CONFLICT (issue_id, item_id) DO NOTHING`
	for _, item := range opt.Items {
		_, err := tx.ExecContext(ctx, insertQuery,
			opt.IssueID, item.ItemID, item.Text, item.Required,
			item.Category, item.Priority, pq.Array(item.Tags),
		)
		if err != nil {
			r.l.Errorf(ctx, "%s insert %s: %v", r.dsn("ReplaceItems"), item.ItemID, err)
			return repo.ErrFailedToInsert
		}
	}

	if err := tx.Commit(); err != nil {
		r.l.Errorf(ctx, "%s commit: %v", r.dsn("ReplaceItems"), err)
		return repo.ErrFailedToUpdate
	}
	return nil
}

// ListItems returns the issue's checklist ordered by item id.
func (r *implRepository) ListItems(ctx context.Context, issueID string) ([]model.ChecklistItem, error) {
	query := `SELECT ` + itemColumns + ` FROM checklist_items WHERE issue_id = $1 ORDER BY item_id`

	rows, err := r.db.QueryContext(ctx, query, issueID)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListItems"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var items []model.ChecklistItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, repo.ErrFailedToList
		}
		items = append(items, it)
	}
	return items, nil
}

// GetOneItem returns zero-value ChecklistItem (ID == "") when not found.
func (r *implRepository) GetOneItem(ctx context.Context, issueID, itemID string) (model.ChecklistItem, error) {
	query := `SELECT ` + itemColumns + ` FROM checklist_items WHERE issue_id = $1 AND item_id = $2`

	it, err := scanItem(r.db.QueryRowContext(ctx, query, issueID, itemID))
	if err == sql.ErrNoRows {
		return model.ChecklistItem{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetOneItem"), err)
		return model.ChecklistItem{}, repo.ErrFailedToGet
	}
	return it, nil
}

// UpdateItem applies a manual status override and returns the updated row.
func (r *implRepository) UpdateItem(ctx context.Context, opt repo.UpdateItemOptions) (model.ChecklistItem, error) {
	query := `
		UPDATE checklist_items
		SET status = $1, protected = COALESCE($2, protected), updated_at = NOW()
		WHERE issue_id = $3 AND item_id = $4
		RETURNING ` + itemColumns

	var protected *bool
	if opt.Protected != nil {
		protected = opt.Protected
	}
	it, err := scanItem(r.db.QueryRowContext(ctx, query, opt.Status, protected, opt.IssueID, opt.ItemID))
	if err == sql.ErrNoRows {
		return model.ChecklistItem{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("UpdateItem"), err)
		return model.ChecklistItem{}, repo.ErrFailedToUpdate
	}
	return it, nil
}

// UpdateItemStatuses applies verdict-driven changes in one transaction.
func (r *implRepository) UpdateItemStatuses(ctx context.Context, issueID string, statuses map[string]model.ChecklistItemStatus) error {
	if len(statuses) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.l.Errorf(ctx, "%s begin: %v", r.dsn("UpdateItemStatuses"), err)
		return repo.ErrFailedToUpdate
	}
	defer tx.Rollback()

	const query = `UPDATE checklist_items SET status = $1, updated_at = NOW() WHERE issue_id = $2 AND item_id = $3`
	for itemID, status := range statuses {
		if _, err := tx.ExecContext(ctx, query, status, issueID, itemID); err != nil {
			r.l.Errorf(ctx, "%s %s: %v", r.dsn("UpdateItemStatuses"), itemID, err)
			return repo.ErrFailedToUpdate
		}
	}

	if err := tx.Commit(); err != nil {
		r.l.Errorf(ctx, "%s commit: %v", r.dsn("UpdateItemStatuses"), err)
		return repo.ErrFailedToUpdate
	}
	return nil
}

// SetItemLinkedTests records which test cases cover each item, replacing
// the previous linkage in one transaction.
func (r *implRepository) SetItemLinkedTests(ctx context.Context, issueID string, links map[string][]string) error {
	if len(links) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.l.Errorf(ctx, "%s begin: %v", r.dsn("SetItemLinkedTests"), err)
		return repo.ErrFailedToUpdate
	}
	defer tx.Rollback()

	const query = `UPDATE checklist_items SET linked_test_ids = $1, updated_at = NOW() WHERE issue_id = $2 AND item_id = $3`
	for itemID, testIDs := range links {
		if _, err := tx.ExecContext(ctx, query, pq.Array(testIDs), issueID, itemID); err != nil {
			r.l.Errorf(ctx, "%s %s: %v", r.dsn("SetItemLinkedTests"), itemID, err)
			return repo.ErrFailedToUpdate
		}
	}

	if err := tx.Commit(); err != nil {
		r.l.Errorf(ctx, "%s commit: %v", r.dsn("SetItemLinkedTests"), err)
		return repo.ErrFailedToUpdate
	}
	return nil
}
