package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rongwang/finance-tracker-server/internal/models"
)

// ErrDuplicateUsername is returned by CreateUser when the username is already registered
var ErrDuplicateUsername = errors.New("username already exists")

// Lookups return (nil, nil) when no row matches. Every ledger, transaction
// and budget query is scoped by the owning user id.

// UserRepository persists user accounts
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

// LedgerRepository persists ledgers
type LedgerRepository interface {
	CreateLedger(ctx context.Context, ledger *models.Ledger) error
	GetLedger(ctx context.Context, ledgerID, userID int64) (*models.Ledger, error)
	GetUserLedgers(ctx context.Context, userID int64, page models.Page) ([]models.Ledger, error)
	CountUserLedgers(ctx context.Context, userID int64) (int64, error)
	UpdateLedger(ctx context.Context, ledger *models.Ledger) error
	DeleteLedger(ctx context.Context, ledgerID, userID int64) error
}

// TransactionRepository persists transactions and aggregates them
type TransactionRepository interface {
	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	GetTransaction(ctx context.Context, transactionID, userID int64) (*models.Transaction, error)
	GetUserTransactions(ctx context.Context, userID int64, filter models.TransactionFilter, page models.Page) ([]models.Transaction, error)
	CountUserTransactions(ctx context.Context, userID int64, filter models.TransactionFilter) (int64, error)
	UpdateTransaction(ctx context.Context, txn *models.Transaction) error
	DeleteTransaction(ctx context.Context, transactionID, userID int64) error
	GetUserSummary(ctx context.Context, userID int64, startDate, endDate *time.Time) (*models.TransactionSummary, error)
}

// BudgetRepository persists budgets
type BudgetRepository interface {
	// UpsertBudget inserts the budget or, when a row with the same
	// (user, month, category) exists, overwrites its amount. The stored row
	// is written back into budget.
	UpsertBudget(ctx context.Context, budget *models.Budget) error
	GetBudgetsByMonth(ctx context.Context, userID int64, month string) ([]models.Budget, error)
}

// Repository interface defines the methods that any repository implementation must satisfy
type Repository interface {
	UserRepository
	LedgerRepository
	TransactionRepository
	BudgetRepository
}
