package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rongwang/finance-tracker-server/internal/models"
	"github.com/rongwang/finance-tracker-server/internal/repository"
)

// SummaryCache stores computed summaries per user and date range.
// Get reports the user's cache version alongside a miss; Set must write under
// that version so a summary computed before an Invalidate is never served.
type SummaryCache interface {
	Get(ctx context.Context, userID int64, startDate, endDate *time.Time) (*models.TransactionSummary, int64, bool, error)
	Set(ctx context.Context, userID, version int64, startDate, endDate *time.Time, summary *models.TransactionSummary) error
	Invalidate(ctx context.Context, userID int64) error
}

// TransactionService implements transaction CRUD, filtered listing and the
// income/expense summary
type TransactionService struct {
	repo   repository.TransactionRepository
	cache  SummaryCache
	logger *slog.Logger
}

// NewTransactionService creates a new TransactionService. cache may be nil.
func NewTransactionService(repo repository.TransactionRepository, cache SummaryCache, logger *slog.Logger) *TransactionService {
	return &TransactionService{
		repo:   repo,
		cache:  cache,
		logger: logger.With("component", "transaction"),
	}
}

// CreateTransaction validates and stores a transaction. A missing date means now.
func (s *TransactionService) CreateTransaction(ctx context.Context, userID int64, req models.CreateTransactionRequest) (*models.Transaction, error) {
	if err := validateTransactionType(req.Type); err != nil {
		return nil, err
	}
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Category) == "" {
		return nil, invalidArgument("Category is required")
	}

	txn := &models.Transaction{
		UserID:      userID,
		Type:        req.Type,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		ImagePath:   req.ImagePath,
	}
	if date := req.Date.Ptr(); date != nil {
		txn.Date = *date
	}

	if err := s.repo.CreateTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("error creating transaction: %w", err)
	}

	s.invalidate(ctx, userID)
	s.logger.InfoContext(ctx, "transaction created", "operation", "create", "user_id", userID, "transaction_id", txn.ID)
	return txn, nil
}

func (s *TransactionService) GetTransaction(ctx context.Context, transactionID, userID int64) (*models.Transaction, error) {
	txn, err := s.repo.GetTransaction(ctx, transactionID, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting transaction: %w", err)
	}
	if txn == nil {
		return nil, notFound("Transaction")
	}
	return txn, nil
}

// GetTransactions returns one page of the user's transactions matching every supplied filter
func (s *TransactionService) GetTransactions(ctx context.Context, userID int64, filter models.TransactionFilter, page models.Page) ([]models.Transaction, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	txns, err := s.repo.GetUserTransactions(ctx, userID, filter, page)
	if err != nil {
		return nil, fmt.Errorf("error listing transactions: %w", err)
	}
	return txns, nil
}

func (s *TransactionService) CountTransactions(ctx context.Context, userID int64, filter models.TransactionFilter) (int64, error) {
	if err := validateFilter(filter); err != nil {
		return 0, err
	}
	total, err := s.repo.CountUserTransactions(ctx, userID, filter)
	if err != nil {
		return 0, fmt.Errorf("error counting transactions: %w", err)
	}
	return total, nil
}

// ListTransactions fetches one page and the filtered total concurrently
func (s *TransactionService) ListTransactions(ctx context.Context, userID int64, filter models.TransactionFilter, page models.Page) (*models.TransactionListResponse, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	resp := &models.TransactionListResponse{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		resp.Items, err = s.GetTransactions(gctx, userID, filter, page)
		return err
	})
	g.Go(func() (err error) {
		resp.Total, err = s.CountTransactions(gctx, userID, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		resp.Items = []models.Transaction{}
	}
	return resp, nil
}

// UpdateTransaction applies only the supplied fields and re-validates them
func (s *TransactionService) UpdateTransaction(ctx context.Context, transactionID, userID int64, patch models.TransactionPatch) (*models.Transaction, error) {
	txn, err := s.GetTransaction(ctx, transactionID, userID)
	if err != nil {
		return nil, err
	}

	if patch.Type != nil {
		if err := validateTransactionType(*patch.Type); err != nil {
			return nil, err
		}
		txn.Type = *patch.Type
	}
	if patch.Amount != nil {
		if err := validateAmount(*patch.Amount); err != nil {
			return nil, err
		}
		txn.Amount = *patch.Amount
	}
	if patch.Category != nil {
		if strings.TrimSpace(*patch.Category) == "" {
			return nil, invalidArgument("Category cannot be empty")
		}
		txn.Category = *patch.Category
	}
	if patch.Description != nil {
		txn.Description = patch.Description
	}
	if patch.ImagePath != nil {
		txn.ImagePath = patch.ImagePath
	}
	if patch.Date != nil {
		txn.Date = *patch.Date
	}

	if err := s.repo.UpdateTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("error updating transaction: %w", err)
	}

	s.invalidate(ctx, userID)
	s.logger.InfoContext(ctx, "transaction updated", "operation", "update", "user_id", userID, "transaction_id", transactionID)
	return txn, nil
}

// DeleteTransaction removes the transaction if the user owns it; otherwise it is a no-op
func (s *TransactionService) DeleteTransaction(ctx context.Context, transactionID, userID int64) error {
	if err := s.repo.DeleteTransaction(ctx, transactionID, userID); err != nil {
		return fmt.Errorf("error deleting transaction: %w", err)
	}

	s.invalidate(ctx, userID)
	s.logger.InfoContext(ctx, "transaction deleted", "operation", "delete", "user_id", userID, "transaction_id", transactionID)
	return nil
}

// GetSummary totals income and expense over the inclusive range; nil bounds are open.
// Balance is always income minus expense.
func (s *TransactionService) GetSummary(ctx context.Context, userID int64, startDate, endDate *time.Time) (*models.TransactionSummary, error) {
	var version int64
	cacheable := false
	if s.cache != nil {
		summary, v, ok, err := s.cache.Get(ctx, userID, startDate, endDate)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "summary cache read failed", "user_id", userID, "error", err)
		case ok:
			return summary, nil
		default:
			version, cacheable = v, true
		}
	}

	summary, err := s.repo.GetUserSummary(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("error getting summary: %w", err)
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)

	if cacheable {
		if err := s.cache.Set(ctx, userID, version, startDate, endDate, summary); err != nil {
			s.logger.WarnContext(ctx, "summary cache write failed", "user_id", userID, "error", err)
		}
	}
	return summary, nil
}

func (s *TransactionService) invalidate(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "summary cache invalidation failed", "user_id", userID, "error", err)
	}
}

func validateFilter(filter models.TransactionFilter) error {
	if filter.Type != nil {
		return validateTransactionType(*filter.Type)
	}
	return nil
}
