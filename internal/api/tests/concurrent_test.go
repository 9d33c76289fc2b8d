package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rongwang/finance-tracker-server/internal/api/testutils"
	"github.com/rongwang/finance-tracker-server/internal/models"
)

func TestConcurrentRequests(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	headers := testutils.AuthHeaders(testCtx.TestUserJWT)

	t.Run("TestConcurrentBudgetUpserts", func(t *testing.T) {
		const numGoroutines = 10
		var wg sync.WaitGroup

		for i := 0; i < numGoroutines; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()

				w := testutils.PerformRequest(
					testCtx.Router,
					http.MethodPost,
					"/api/budgets",
					map[string]interface{}{"month": "2024-05", "category": "food", "amount": 100 + i},
					headers,
				)
				assert.Equal(t, http.StatusOK, w.Code)
			}(i)
		}

		wg.Wait()

		budgets := getBudgets(t, testCtx, testCtx.TestUserJWT, "2024-05")
		assert.Len(t, budgets, 1, "Concurrent upserts of one key should leave a single row")
	})

	t.Run("TestConcurrentRegistration", func(t *testing.T) {
		const numGoroutines = 8
		statuses := make(chan int, numGoroutines)
		var wg sync.WaitGroup

		for i := 0; i < numGoroutines; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				w := testutils.PerformRequest(
					testCtx.Router,
					http.MethodPost,
					"/api/auth/register",
					models.RegisterRequest{Username: "racer", Password: "password123"},
					nil,
				)
				statuses <- w.Code
			}()
		}

		wg.Wait()
		close(statuses)

		counts := map[int]int{}
		for status := range statuses {
			counts[status]++
		}
		assert.Equal(t, 1, counts[http.StatusCreated], "Exactly one registration should win")
		assert.Equal(t, numGoroutines-1, counts[http.StatusConflict])
	})

	t.Run("TestConcurrentTransactionCreation", func(t *testing.T) {
		const numGoroutines = 10
		const transactionsPerGoroutine = 5

		ids := make(chan int64, numGoroutines*transactionsPerGoroutine)
		var wg sync.WaitGroup

		for i := 0; i < numGoroutines; i++ {
			wg.Add(1)
			go func(routineID int) {
				defer wg.Done()

				for j := 0; j < transactionsPerGoroutine; j++ {
					w := testutils.PerformRequest(
						testCtx.Router,
						http.MethodPost,
						"/api/transactions",
						map[string]interface{}{
							"type":     "income",
							"amount":   10,
							"category": fmt.Sprintf("worker-%d", routineID),
							"date":     "2024-06-01",
						},
						headers,
					)
					if !assert.Equal(t, http.StatusCreated, w.Code) {
						continue
					}

					var txn models.Transaction
					if assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &txn)) {
						ids <- txn.ID
					}
				}
			}(i)
		}

		wg.Wait()
		close(ids)

		seen := map[int64]bool{}
		for id := range ids {
			assert.False(t, seen[id], "Transaction ids should be unique")
			seen[id] = true
		}
		assert.Len(t, seen, numGoroutines*transactionsPerGoroutine)

		w := testutils.PerformRequest(testCtx.Router, http.MethodGet,
			"/api/transactions/summary/statistics?start_date=2024-06-01&end_date=2024-06-01", nil, headers)
		require.Equal(t, http.StatusOK, w.Code)

		var summary models.TransactionSummary
		testutils.DecodeJSON(t, w, &summary)
		assert.True(t, summary.TotalIncome.Equal(decimal.NewFromInt(10*numGoroutines*transactionsPerGoroutine)),
			summary.TotalIncome.String())
	})
}
