package repository

import (
	"context"

	"github.com/rongwang/finance-tracker-server/internal/models"
)

const budgetColumns = `id, user_id, month, category, amount, created_at, updated_at`

// UpsertBudget is a single statement so concurrent calls for the same key
// cannot produce two rows.
func (r *PostgresRepository) UpsertBudget(ctx context.Context, budget *models.Budget) error {
	now := r.now()

	query := `
		INSERT INTO budgets (user_id, month, category, amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (user_id, month, (COALESCE(category, '')))
		DO UPDATE SET amount = EXCLUDED.amount, updated_at = EXCLUDED.updated_at
		RETURNING ` + budgetColumns

	return r.db.GetContext(ctx, budget, query,
		budget.UserID, budget.Month, budget.Category, budget.Amount, now)
}

func (r *PostgresRepository) GetBudgetsByMonth(ctx context.Context, userID int64, month string) ([]models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = $1 AND month = $2 ORDER BY id ASC`

	budgets := []models.Budget{}
	err := r.db.SelectContext(ctx, &budgets, query, userID, month)
	if err != nil {
		return nil, err
	}

	return budgets, nil
}
