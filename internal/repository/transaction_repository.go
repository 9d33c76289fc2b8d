package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rongwang/finance-tracker-server/internal/models"
)

const transactionColumns = `id, user_id, type, amount, category, description, image_path, date, created_at, updated_at`

func (r *PostgresRepository) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	now := r.now()
	txn.CreatedAt = now
	txn.UpdatedAt = now
	if txn.Date.IsZero() {
		txn.Date = now
	}

	query := `
		INSERT INTO transactions (user_id, type, amount, category, description, image_path, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	return r.db.QueryRowxContext(ctx, query,
		txn.UserID, txn.Type, txn.Amount, txn.Category, txn.Description, txn.ImagePath,
		txn.Date, txn.CreatedAt, txn.UpdatedAt).Scan(&txn.ID)
}

func (r *PostgresRepository) GetTransaction(ctx context.Context, transactionID, userID int64) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND user_id = $2`

	var txn models.Transaction
	err := r.db.GetContext(ctx, &txn, query, transactionID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Transaction not found
		}
		return nil, err
	}

	return &txn, nil
}

func (r *PostgresRepository) GetUserTransactions(
	ctx context.Context,
	userID int64,
	filter models.TransactionFilter,
	page models.Page,
) ([]models.Transaction, error) {
	where, args := transactionWhere(userID, filter)

	query := `SELECT ` + transactionColumns + ` FROM transactions` + where +
		fmt.Sprintf(` ORDER BY id ASC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, page.Limit, page.Skip)

	txns := []models.Transaction{}
	err := r.db.SelectContext(ctx, &txns, query, args...)
	if err != nil {
		return nil, err
	}

	return txns, nil
}

func (r *PostgresRepository) CountUserTransactions(ctx context.Context, userID int64, filter models.TransactionFilter) (int64, error) {
	where, args := transactionWhere(userID, filter)

	var total int64
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM transactions`+where, args...)
	return total, err
}

func (r *PostgresRepository) UpdateTransaction(ctx context.Context, txn *models.Transaction) error {
	txn.UpdatedAt = r.now()

	query := `
		UPDATE transactions
		SET type = $1, amount = $2, category = $3, description = $4, image_path = $5, date = $6, updated_at = $7
		WHERE id = $8 AND user_id = $9
	`
	_, err := r.db.ExecContext(ctx, query,
		txn.Type, txn.Amount, txn.Category, txn.Description, txn.ImagePath, txn.Date, txn.UpdatedAt,
		txn.ID, txn.UserID)
	return err
}

// DeleteTransaction removes the transaction if the user owns it. Missing rows are not an error.
func (r *PostgresRepository) DeleteTransaction(ctx context.Context, transactionID, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, transactionID, userID)
	return err
}

// GetUserSummary sums income and expense amounts over [startDate, endDate].
// Balance is left for the caller.
func (r *PostgresRepository) GetUserSummary(ctx context.Context, userID int64, startDate, endDate *time.Time) (*models.TransactionSummary, error) {
	where, args := transactionWhere(userID, models.TransactionFilter{StartDate: startDate, EndDate: endDate})

	query := `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount END), 0) AS total_income,
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount END), 0) AS total_expense
		FROM transactions` + where

	var summary models.TransactionSummary
	if err := r.db.GetContext(ctx, &summary, query, args...); err != nil {
		return nil, err
	}
	return &summary, nil
}

// transactionWhere builds the conjunctive WHERE clause shared by listing, counting and summing.
func transactionWhere(userID int64, filter models.TransactionFilter) (string, []interface{}) {
	conds := []string{"user_id = $1"}
	args := []interface{}{userID}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Type != nil {
		add("type = $%d", *filter.Type)
	}
	if filter.Category != nil {
		add("category = $%d", *filter.Category)
	}
	if filter.StartDate != nil {
		add("date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("date <= $%d", *filter.EndDate)
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}
