package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/rongwang/finance-tracker-server/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockRepository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) UpdateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockRepository) CreateLedger(ctx context.Context, ledger *models.Ledger) error {
	args := m.Called(ctx, ledger)
	return args.Error(0)
}

func (m *MockRepository) GetLedger(ctx context.Context, ledgerID, userID int64) (*models.Ledger, error) {
	args := m.Called(ctx, ledgerID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ledger), args.Error(1)
}

func (m *MockRepository) GetUserLedgers(ctx context.Context, userID int64, page models.Page) ([]models.Ledger, error) {
	args := m.Called(ctx, userID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Ledger), args.Error(1)
}

func (m *MockRepository) CountUserLedgers(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) UpdateLedger(ctx context.Context, ledger *models.Ledger) error {
	args := m.Called(ctx, ledger)
	return args.Error(0)
}

func (m *MockRepository) DeleteLedger(ctx context.Context, ledgerID, userID int64) error {
	args := m.Called(ctx, ledgerID, userID)
	return args.Error(0)
}

func (m *MockRepository) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockRepository) GetTransaction(ctx context.Context, transactionID, userID int64) (*models.Transaction, error) {
	args := m.Called(ctx, transactionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockRepository) GetUserTransactions(ctx context.Context, userID int64, filter models.TransactionFilter, page models.Page) ([]models.Transaction, error) {
	args := m.Called(ctx, userID, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *MockRepository) CountUserTransactions(ctx context.Context, userID int64, filter models.TransactionFilter) (int64, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) UpdateTransaction(ctx context.Context, txn *models.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockRepository) DeleteTransaction(ctx context.Context, transactionID, userID int64) error {
	args := m.Called(ctx, transactionID, userID)
	return args.Error(0)
}

func (m *MockRepository) GetUserSummary(ctx context.Context, userID int64, startDate, endDate *time.Time) (*models.TransactionSummary, error) {
	args := m.Called(ctx, userID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TransactionSummary), args.Error(1)
}

func (m *MockRepository) UpsertBudget(ctx context.Context, budget *models.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

func (m *MockRepository) GetBudgetsByMonth(ctx context.Context, userID int64, month string) ([]models.Budget, error) {
	args := m.Called(ctx, userID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Budget), args.Error(1)
}

type MockSummaryCache struct {
	mock.Mock
}

func (m *MockSummaryCache) Get(ctx context.Context, userID int64, startDate, endDate *time.Time) (*models.TransactionSummary, int64, bool, error) {
	args := m.Called(ctx, userID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Bool(2), args.Error(3)
	}
	return args.Get(0).(*models.TransactionSummary), args.Get(1).(int64), args.Bool(2), args.Error(3)
}

func (m *MockSummaryCache) Set(ctx context.Context, userID, version int64, startDate, endDate *time.Time, summary *models.TransactionSummary) error {
	args := m.Called(ctx, userID, version, startDate, endDate, summary)
	return args.Error(0)
}

func (m *MockSummaryCache) Invalidate(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
