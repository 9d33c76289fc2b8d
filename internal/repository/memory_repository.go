package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rongwang/finance-tracker-server/internal/models"
)

// MemoryRepository is an in-process Repository for development runs and tests.
// Rows are stored by value and guarded by a single mutex.
type MemoryRepository struct {
	mu           sync.Mutex
	now          func() time.Time
	nextID       int64
	users        map[int64]models.User
	ledgers      map[int64]models.Ledger
	transactions map[int64]models.Transaction
	budgets      map[int64]models.Budget
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		now:          func() time.Time { return time.Now().UTC() },
		users:        map[int64]models.User{},
		ledgers:      map[int64]models.Ledger{},
		transactions: map[int64]models.Transaction{},
		budgets:      map[int64]models.Budget{},
	}
}

var _ Repository = (*MemoryRepository)(nil)

func (m *MemoryRepository) id() int64 {
	m.nextID++
	return m.nextID
}

// User operations

func (m *MemoryRepository) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username {
			return ErrDuplicateUsername
		}
	}
	now := m.now()
	user.ID = m.id()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.users[user.ID] = *user
	return nil
}

func (m *MemoryRepository) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *MemoryRepository) UpdateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.users[user.ID]
	if !ok {
		return nil
	}
	user.UpdatedAt = m.now()
	stored.AvatarPath = user.AvatarPath
	stored.UpdatedAt = user.UpdatedAt
	m.users[user.ID] = stored
	return nil
}

// Ledger operations

func (m *MemoryRepository) CreateLedger(_ context.Context, ledger *models.Ledger) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	ledger.ID = m.id()
	ledger.CreatedAt = now
	ledger.UpdatedAt = now
	m.ledgers[ledger.ID] = *ledger
	return nil
}

func (m *MemoryRepository) GetLedger(_ context.Context, ledgerID, userID int64) (*models.Ledger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.ledgers[ledgerID]
	if !ok || l.UserID != userID {
		return nil, nil
	}
	return &l, nil
}

func (m *MemoryRepository) GetUserLedgers(_ context.Context, userID int64, page models.Page) ([]models.Ledger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Ledger
	for _, l := range m.ledgers {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, page), nil
}

func (m *MemoryRepository) CountUserLedgers(_ context.Context, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, l := range m.ledgers {
		if l.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *MemoryRepository) UpdateLedger(_ context.Context, ledger *models.Ledger) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.ledgers[ledger.ID]
	if !ok || stored.UserID != ledger.UserID {
		return nil
	}
	ledger.UpdatedAt = m.now()
	m.ledgers[ledger.ID] = *ledger
	return nil
}

func (m *MemoryRepository) DeleteLedger(_ context.Context, ledgerID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if l, ok := m.ledgers[ledgerID]; ok && l.UserID == userID {
		delete(m.ledgers, ledgerID)
	}
	return nil
}

// Transaction operations

func (m *MemoryRepository) CreateTransaction(_ context.Context, txn *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	txn.ID = m.id()
	txn.CreatedAt = now
	txn.UpdatedAt = now
	if txn.Date.IsZero() {
		txn.Date = now
	}
	m.transactions[txn.ID] = *txn
	return nil
}

func (m *MemoryRepository) GetTransaction(_ context.Context, transactionID, userID int64) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.transactions[transactionID]
	if !ok || t.UserID != userID {
		return nil, nil
	}
	return &t, nil
}

func (m *MemoryRepository) GetUserTransactions(
	_ context.Context,
	userID int64,
	filter models.TransactionFilter,
	page models.Page,
) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return paginate(m.matching(userID, filter), page), nil
}

func (m *MemoryRepository) CountUserTransactions(_ context.Context, userID int64, filter models.TransactionFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return int64(len(m.matching(userID, filter))), nil
}

func (m *MemoryRepository) UpdateTransaction(_ context.Context, txn *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.transactions[txn.ID]
	if !ok || stored.UserID != txn.UserID {
		return nil
	}
	txn.UpdatedAt = m.now()
	m.transactions[txn.ID] = *txn
	return nil
}

func (m *MemoryRepository) DeleteTransaction(_ context.Context, transactionID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.transactions[transactionID]; ok && t.UserID == userID {
		delete(m.transactions, transactionID)
	}
	return nil
}

func (m *MemoryRepository) GetUserSummary(_ context.Context, userID int64, startDate, endDate *time.Time) (*models.TransactionSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	summary := models.TransactionSummary{TotalIncome: decimal.Zero, TotalExpense: decimal.Zero}
	for _, t := range m.matching(userID, models.TransactionFilter{StartDate: startDate, EndDate: endDate}) {
		switch t.Type {
		case models.TransactionTypeIncome:
			summary.TotalIncome = summary.TotalIncome.Add(t.Amount)
		case models.TransactionTypeExpense:
			summary.TotalExpense = summary.TotalExpense.Add(t.Amount)
		}
	}
	return &summary, nil
}

// matching returns the user's transactions passing every filter, ordered by id. Caller holds mu.
func (m *MemoryRepository) matching(userID int64, filter models.TransactionFilter) []models.Transaction {
	var out []models.Transaction
	for _, t := range m.transactions {
		if t.UserID != userID {
			continue
		}
		if filter.Type != nil && t.Type != *filter.Type {
			continue
		}
		if filter.Category != nil && t.Category != *filter.Category {
			continue
		}
		if filter.StartDate != nil && t.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && t.Date.After(*filter.EndDate) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Budget operations

func (m *MemoryRepository) UpsertBudget(_ context.Context, budget *models.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, b := range m.budgets {
		if b.UserID == budget.UserID && b.Month == budget.Month && sameCategory(b.Category, budget.Category) {
			b.Amount = budget.Amount
			b.UpdatedAt = now
			m.budgets[id] = b
			*budget = b
			return nil
		}
	}

	budget.ID = m.id()
	budget.CreatedAt = now
	budget.UpdatedAt = now
	m.budgets[budget.ID] = *budget
	return nil
}

func (m *MemoryRepository) GetBudgetsByMonth(_ context.Context, userID int64, month string) ([]models.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []models.Budget{}
	for _, b := range m.budgets {
		if b.UserID == userID && b.Month == month {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func sameCategory(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func paginate[T any](rows []T, page models.Page) []T {
	out := []T{}
	if page.Skip >= len(rows) {
		return out
	}
	end := len(rows)
	if page.Limit > 0 && page.Skip+page.Limit < end {
		end = page.Skip + page.Limit
	}
	return append(out, rows[page.Skip:end]...)
}
