package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/rongwang/finance-tracker-server/internal/models"
	"github.com/rongwang/finance-tracker-server/internal/repository"
)

// LedgerService implements ownership-scoped ledger CRUD
type LedgerService struct {
	repo   repository.LedgerRepository
	logger *slog.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(repo repository.LedgerRepository, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		repo:   repo,
		logger: logger.With("component", "ledger"),
	}
}

func (s *LedgerService) CreateLedger(ctx context.Context, userID int64, req models.CreateLedgerRequest) (*models.Ledger, error) {
	if err := validateLedgerName(req.Name); err != nil {
		return nil, err
	}
	if err := validateLedgerDescription(req.Description); err != nil {
		return nil, err
	}

	ledger := &models.Ledger{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.repo.CreateLedger(ctx, ledger); err != nil {
		return nil, fmt.Errorf("error creating ledger: %w", err)
	}

	s.logger.InfoContext(ctx, "ledger created", "operation", "create", "user_id", userID, "ledger_id", ledger.ID)
	return ledger, nil
}

// GetLedger returns the ledger if the user owns it. Absent and foreign
// ledgers are indistinguishable NotFound errors.
func (s *LedgerService) GetLedger(ctx context.Context, ledgerID, userID int64) (*models.Ledger, error) {
	ledger, err := s.repo.GetLedger(ctx, ledgerID, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting ledger: %w", err)
	}
	if ledger == nil {
		return nil, notFound("Ledger")
	}
	return ledger, nil
}

func (s *LedgerService) GetLedgers(ctx context.Context, userID int64, page models.Page) ([]models.Ledger, error) {
	ledgers, err := s.repo.GetUserLedgers(ctx, userID, page)
	if err != nil {
		return nil, fmt.Errorf("error listing ledgers: %w", err)
	}
	return ledgers, nil
}

func (s *LedgerService) CountLedgers(ctx context.Context, userID int64) (int64, error) {
	total, err := s.repo.CountUserLedgers(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("error counting ledgers: %w", err)
	}
	return total, nil
}

// ListLedgers fetches one page and the overall total concurrently
func (s *LedgerService) ListLedgers(ctx context.Context, userID int64, page models.Page) (*models.LedgerListResponse, error) {
	resp := &models.LedgerListResponse{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		resp.Items, err = s.GetLedgers(gctx, userID, page)
		return err
	})
	g.Go(func() (err error) {
		resp.Total, err = s.CountLedgers(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		resp.Items = []models.Ledger{}
	}
	return resp, nil
}

// UpdateLedger applies only the supplied fields
func (s *LedgerService) UpdateLedger(ctx context.Context, ledgerID, userID int64, patch models.LedgerPatch) (*models.Ledger, error) {
	ledger, err := s.GetLedger(ctx, ledgerID, userID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if err := validateLedgerName(*patch.Name); err != nil {
			return nil, err
		}
		ledger.Name = *patch.Name
	}
	if patch.Description != nil {
		if err := validateLedgerDescription(patch.Description); err != nil {
			return nil, err
		}
		ledger.Description = patch.Description
	}

	if err := s.repo.UpdateLedger(ctx, ledger); err != nil {
		return nil, fmt.Errorf("error updating ledger: %w", err)
	}

	s.logger.InfoContext(ctx, "ledger updated", "operation", "update", "user_id", userID, "ledger_id", ledgerID)
	return ledger, nil
}

// DeleteLedger removes the ledger if the user owns it; otherwise it is a no-op.
// Transactions are untouched: ledgers do not own them.
func (s *LedgerService) DeleteLedger(ctx context.Context, ledgerID, userID int64) error {
	if err := s.repo.DeleteLedger(ctx, ledgerID, userID); err != nil {
		return fmt.Errorf("error deleting ledger: %w", err)
	}

	s.logger.InfoContext(ctx, "ledger deleted", "operation", "delete", "user_id", userID, "ledger_id", ledgerID)
	return nil
}
