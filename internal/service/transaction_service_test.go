package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rongwang/finance-tracker-server/internal/models"
	"github.com/rongwang/finance-tracker-server/internal/repository"
)

func TestTransactionService_CreateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("valid expense", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockSummaryCache)
		repo.On("CreateTransaction", ctx, mock.MatchedBy(func(txn *models.Transaction) bool {
			return txn.UserID == 1 && txn.Type == "expense" && txn.Date.IsZero()
		})).Return(nil)
		cache.On("Invalidate", ctx, int64(1)).Return(nil)

		svc := NewTransactionService(repo, cache, testLogger())
		_, err := svc.CreateTransaction(ctx, 1, models.CreateTransactionRequest{
			Type:     "expense",
			Amount:   decimal.NewFromInt(300),
			Category: "Food",
		})
		require.NoError(t, err)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("explicit date is kept", func(t *testing.T) {
		date := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
		repo := new(MockRepository)
		repo.On("CreateTransaction", ctx, mock.MatchedBy(func(txn *models.Transaction) bool {
			return txn.Date.Equal(date)
		})).Return(nil)

		svc := NewTransactionService(repo, nil, testLogger())
		_, err := svc.CreateTransaction(ctx, 1, models.CreateTransactionRequest{
			Type:     "income",
			Amount:   decimal.NewFromInt(1000),
			Category: "Salary",
			Date:     &models.DateTime{Time: date},
		})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewTransactionService(repo, nil, testLogger())
		_, err := svc.CreateTransaction(ctx, 1, models.CreateTransactionRequest{
			Type:     "transfer",
			Amount:   decimal.NewFromInt(10),
			Category: "Misc",
		})
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.EqualError(t, err, "Type must be 'income' or 'expense'")
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewTransactionService(repo, nil, testLogger())
		_, err := svc.CreateTransaction(ctx, 1, models.CreateTransactionRequest{
			Type:     "income",
			Amount:   decimal.Zero,
			Category: "Misc",
		})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestTransactionService_UpdateTransaction(t *testing.T) {
	ctx := context.Background()
	stored := func() *models.Transaction {
		return &models.Transaction{ID: 4, UserID: 1, Type: "expense", Amount: decimal.NewFromInt(20), Category: "Food"}
	}

	t.Run("changes only supplied fields", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetTransaction", ctx, int64(4), int64(1)).Return(stored(), nil)
		repo.On("UpdateTransaction", ctx, mock.AnythingOfType("*models.Transaction")).Return(nil)

		amount := decimal.NewFromInt(25)
		txn, err := NewTransactionService(repo, nil, testLogger()).
			UpdateTransaction(ctx, 4, 1, models.TransactionPatch{Amount: &amount})
		require.NoError(t, err)
		assert.True(t, txn.Amount.Equal(amount))
		assert.Equal(t, "expense", txn.Type)
		assert.Equal(t, "Food", txn.Category)
	})

	t.Run("empty category", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetTransaction", ctx, int64(4), int64(1)).Return(stored(), nil)

		_, err := NewTransactionService(repo, nil, testLogger()).
			UpdateTransaction(ctx, 4, 1, models.TransactionPatch{Category: strPtr("")})
		assert.ErrorIs(t, err, ErrInvalidArgument)
		repo.AssertNotCalled(t, "UpdateTransaction", mock.Anything, mock.Anything)
	})

	t.Run("invalid type", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetTransaction", ctx, int64(4), int64(1)).Return(stored(), nil)

		_, err := NewTransactionService(repo, nil, testLogger()).
			UpdateTransaction(ctx, 4, 1, models.TransactionPatch{Type: strPtr("gift")})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("foreign transaction", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetTransaction", ctx, int64(4), int64(2)).Return(nil, nil)

		_, err := NewTransactionService(repo, nil, testLogger()).
			UpdateTransaction(ctx, 4, 2, models.TransactionPatch{Category: strPtr("Rent")})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTransactionService_ListTransactions(t *testing.T) {
	ctx := context.Background()
	filter := models.TransactionFilter{Type: strPtr("expense")}
	page := models.Page{Limit: 10}

	repo := new(MockRepository)
	repo.On("GetUserTransactions", mock.Anything, int64(1), filter, page).
		Return([]models.Transaction{{ID: 2, UserID: 1, Type: "expense"}}, nil)
	repo.On("CountUserTransactions", mock.Anything, int64(1), filter).Return(int64(1), nil)

	resp, err := NewTransactionService(repo, nil, testLogger()).ListTransactions(ctx, 1, filter, page)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
	assert.Len(t, resp.Items, 1)
}

func TestTransactionService_ListTransactions_InvalidTypeFilter(t *testing.T) {
	repo := new(MockRepository)
	_, err := NewTransactionService(repo, nil, testLogger()).
		ListTransactions(context.Background(), 1, models.TransactionFilter{Type: strPtr("bogus")}, models.Page{Limit: 10})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestTransactionService_GetSummary(t *testing.T) {
	ctx := context.Background()
	var noDate *time.Time

	t.Run("balance is income minus expense", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetUserSummary", ctx, int64(1), noDate, noDate).Return(&models.TransactionSummary{
			TotalIncome:  decimal.NewFromInt(1000),
			TotalExpense: decimal.NewFromInt(300),
		}, nil)

		summary, err := NewTransactionService(repo, nil, testLogger()).GetSummary(ctx, 1, nil, nil)
		require.NoError(t, err)
		assert.True(t, summary.Balance.Equal(decimal.NewFromInt(700)), summary.Balance.String())
	})

	t.Run("cache hit skips the repository", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockSummaryCache)
		cached := &models.TransactionSummary{
			TotalIncome:  decimal.NewFromInt(5),
			TotalExpense: decimal.NewFromInt(2),
			Balance:      decimal.NewFromInt(3),
		}
		cache.On("Get", ctx, int64(1), noDate, noDate).Return(cached, int64(0), true, nil)

		summary, err := NewTransactionService(repo, cache, testLogger()).GetSummary(ctx, 1, nil, nil)
		require.NoError(t, err)
		assert.Same(t, cached, summary)
		repo.AssertNotCalled(t, "GetUserSummary", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cache read errors fall through to the repository", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockSummaryCache)
		repo.On("GetUserSummary", ctx, int64(1), noDate, noDate).Return(&models.TransactionSummary{
			TotalIncome:  decimal.NewFromInt(10),
			TotalExpense: decimal.NewFromInt(15),
		}, nil)
		cache.On("Get", ctx, int64(1), noDate, noDate).Return(nil, int64(0), false, errors.New("redis down"))

		summary, err := NewTransactionService(repo, cache, testLogger()).GetSummary(ctx, 1, nil, nil)
		require.NoError(t, err)
		assert.True(t, summary.Balance.Equal(decimal.NewFromInt(-5)))
		cache.AssertExpectations(t)
		cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("miss is stored under the version read", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockSummaryCache)
		repo.On("GetUserSummary", ctx, int64(1), noDate, noDate).Return(&models.TransactionSummary{
			TotalIncome:  decimal.NewFromInt(10),
			TotalExpense: decimal.NewFromInt(4),
		}, nil)
		cache.On("Get", ctx, int64(1), noDate, noDate).Return(nil, int64(7), false, nil)
		cache.On("Set", ctx, int64(1), int64(7), noDate, noDate, mock.Anything).Return(errors.New("redis down"))

		summary, err := NewTransactionService(repo, cache, testLogger()).GetSummary(ctx, 1, nil, nil)
		require.NoError(t, err)
		assert.True(t, summary.Balance.Equal(decimal.NewFromInt(6)))
		cache.AssertExpectations(t)
	})
}

func TestTransactionService_DeleteTransaction_Invalidates(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	cache := new(MockSummaryCache)
	repo.On("DeleteTransaction", ctx, int64(8), int64(1)).Return(nil)
	cache.On("Invalidate", ctx, int64(1)).Return(nil)

	err := NewTransactionService(repo, cache, testLogger()).DeleteTransaction(ctx, 8, 1)
	require.NoError(t, err)
	cache.AssertExpectations(t)
}

// versionedCache keeps summaries keyed by the per-user version, like the Redis cache
type versionedCache struct {
	mu       sync.Mutex
	versions map[int64]int64
	entries  map[string]models.TransactionSummary
}

func newVersionedCache() *versionedCache {
	return &versionedCache{versions: map[int64]int64{}, entries: map[string]models.TransactionSummary{}}
}

func (c *versionedCache) key(userID, version int64, startDate, endDate *time.Time) string {
	return fmt.Sprintf("%d:v%d:%v:%v", userID, version, startDate, endDate)
}

func (c *versionedCache) Get(_ context.Context, userID int64, startDate, endDate *time.Time) (*models.TransactionSummary, int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	version := c.versions[userID]
	summary, ok := c.entries[c.key(userID, version, startDate, endDate)]
	if !ok {
		return nil, version, false, nil
	}
	return &summary, version, true, nil
}

func (c *versionedCache) Set(_ context.Context, userID, version int64, startDate, endDate *time.Time, summary *models.TransactionSummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[c.key(userID, version, startDate, endDate)] = *summary
	return nil
}

func (c *versionedCache) Invalidate(_ context.Context, userID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[userID]++
	return nil
}

// summaryHookRepo runs afterSum once the summary has been computed, standing
// in for a write that commits while a summary request is in flight
type summaryHookRepo struct {
	*repository.MemoryRepository
	afterSum func()
}

func (r *summaryHookRepo) GetUserSummary(ctx context.Context, userID int64, startDate, endDate *time.Time) (*models.TransactionSummary, error) {
	summary, err := r.MemoryRepository.GetUserSummary(ctx, userID, startDate, endDate)
	if hook := r.afterSum; hook != nil {
		r.afterSum = nil
		hook()
	}
	return summary, err
}

func TestTransactionService_GetSummary_WriteDuringComputeNotCached(t *testing.T) {
	ctx := context.Background()
	repo := &summaryHookRepo{MemoryRepository: repository.NewMemoryRepository()}
	svc := NewTransactionService(repo, newVersionedCache(), testLogger())

	repo.afterSum = func() {
		_, err := svc.CreateTransaction(ctx, 1, models.CreateTransactionRequest{
			Type:     "income",
			Amount:   decimal.NewFromInt(1000),
			Category: "salary",
		})
		require.NoError(t, err)
	}

	first, err := svc.GetSummary(ctx, 1, nil, nil)
	require.NoError(t, err)
	assert.True(t, first.TotalIncome.IsZero(), first.TotalIncome.String())

	second, err := svc.GetSummary(ctx, 1, nil, nil)
	require.NoError(t, err)
	assert.True(t, second.TotalIncome.Equal(decimal.NewFromInt(1000)), second.TotalIncome.String())
	assert.True(t, second.Balance.Equal(decimal.NewFromInt(1000)), second.Balance.String())
}

func TestValidateAmount(t *testing.T) {
	for _, tc := range []struct {
		amount string
		ok     bool
	}{
		{"0.0001", true},
		{"12.3456", true},
		{"12.34560", true},
		{"999999999999999.9999", true},
		{"0", false},
		{"-5", false},
		{"0.00001", false},
		{"12.34567", false},
		{"1000000000000000", false},
	} {
		t.Run(tc.amount, func(t *testing.T) {
			err := validateAmount(decimal.RequireFromString(tc.amount))
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidArgument)
			}
		})
	}
}

func TestTransactionService_CreateTransaction_ExcessPrecision(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)

	_, err := NewTransactionService(repo, nil, testLogger()).CreateTransaction(ctx, 1, models.CreateTransactionRequest{
		Type:     "expense",
		Amount:   decimal.RequireFromString("0.00001"),
		Category: "Food",
	})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.EqualError(t, err, "Amount must have at most 4 decimal places")
	repo.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
}
