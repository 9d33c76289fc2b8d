package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rongwang/finance-tracker-server/internal/models"
	"github.com/rongwang/finance-tracker-server/internal/repository"
)

// BudgetService sets and reads monthly budgets
type BudgetService struct {
	repo   repository.BudgetRepository
	logger *slog.Logger
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(repo repository.BudgetRepository, logger *slog.Logger) *BudgetService {
	return &BudgetService{
		repo:   repo,
		logger: logger.With("component", "budget"),
	}
}

// SetBudget creates or overwrites the budget for (user, month, category).
// A blank category is the whole-month budget.
func (s *BudgetService) SetBudget(ctx context.Context, userID int64, req models.SetBudgetRequest) (*models.Budget, error) {
	if !ValidMonth(req.Month) {
		return nil, invalidArgument("Month must be in YYYY-MM format")
	}
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}

	budget := &models.Budget{
		UserID:   userID,
		Month:    req.Month,
		Category: normalizeCategory(req.Category),
		Amount:   req.Amount,
	}

	if err := s.repo.UpsertBudget(ctx, budget); err != nil {
		return nil, fmt.Errorf("error setting budget: %w", err)
	}

	s.logger.InfoContext(ctx, "budget set", "operation", "upsert", "user_id", userID, "budget_id", budget.ID, "month", budget.Month)
	return budget, nil
}

// GetBudgets returns every budget of the user for month
func (s *BudgetService) GetBudgets(ctx context.Context, userID int64, month string) ([]models.Budget, error) {
	if !ValidMonth(month) {
		return nil, invalidArgument("Month must be in YYYY-MM format")
	}

	budgets, err := s.repo.GetBudgetsByMonth(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("error getting budgets: %w", err)
	}
	if budgets == nil {
		budgets = []models.Budget{}
	}
	return budgets, nil
}
