package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rongwang/finance-tracker-server/internal/models"
)

const ledgerColumns = `id, user_id, name, description, created_at, updated_at`

func (r *PostgresRepository) CreateLedger(ctx context.Context, ledger *models.Ledger) error {
	now := r.now()
	ledger.CreatedAt = now
	ledger.UpdatedAt = now

	query := `
		INSERT INTO ledgers (user_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.db.QueryRowxContext(ctx, query,
		ledger.UserID, ledger.Name, ledger.Description, ledger.CreatedAt, ledger.UpdatedAt).Scan(&ledger.ID)
}

func (r *PostgresRepository) GetLedger(ctx context.Context, ledgerID, userID int64) (*models.Ledger, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledgers WHERE id = $1 AND user_id = $2`

	var ledger models.Ledger
	err := r.db.GetContext(ctx, &ledger, query, ledgerID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Ledger not found
		}
		return nil, err
	}

	return &ledger, nil
}

func (r *PostgresRepository) GetUserLedgers(ctx context.Context, userID int64, page models.Page) ([]models.Ledger, error) {
	query := `
		SELECT ` + ledgerColumns + ` FROM ledgers
		WHERE user_id = $1
		ORDER BY id ASC
		LIMIT $2 OFFSET $3
	`

	ledgers := []models.Ledger{}
	err := r.db.SelectContext(ctx, &ledgers, query, userID, page.Limit, page.Skip)
	if err != nil {
		return nil, err
	}

	return ledgers, nil
}

func (r *PostgresRepository) CountUserLedgers(ctx context.Context, userID int64) (int64, error) {
	var total int64
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM ledgers WHERE user_id = $1`, userID)
	return total, err
}

func (r *PostgresRepository) UpdateLedger(ctx context.Context, ledger *models.Ledger) error {
	ledger.UpdatedAt = r.now()

	query := `
		UPDATE ledgers SET name = $1, description = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5
	`
	_, err := r.db.ExecContext(ctx, query,
		ledger.Name, ledger.Description, ledger.UpdatedAt, ledger.ID, ledger.UserID)
	return err
}

// DeleteLedger removes the ledger if the user owns it. Missing rows are not an error.
func (r *PostgresRepository) DeleteLedger(ctx context.Context, ledgerID, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM ledgers WHERE id = $1 AND user_id = $2`, ledgerID, userID)
	return err
}
