package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/rongwang/finance-tracker-server/internal/api"
	"github.com/rongwang/finance-tracker-server/internal/cache"
	"github.com/rongwang/finance-tracker-server/internal/config"
	"github.com/rongwang/finance-tracker-server/internal/repository"
	"github.com/rongwang/finance-tracker-server/internal/service"
	"github.com/rongwang/finance-tracker-server/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default command)",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	repo, closeRepo, err := openRepository()
	if err != nil {
		return err
	}
	defer closeRepo()

	var summaryCache service.SummaryCache
	if rdb := cache.Connect(ctx, cfg.Redis, logger); rdb != nil {
		defer rdb.Close()
		summaryCache = cache.NewSummaryCache(rdb, cfg.Redis.TTL)
	}

	images, err := storage.NewDiskImageStore(cfg.Upload.Dir)
	if err != nil {
		return err
	}

	svc := api.Services{
		Auth:         service.NewAuthService(repo, cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry, logger),
		Ledgers:      service.NewLedgerService(repo, logger),
		Transactions: service.NewTransactionService(repo, summaryCache, logger),
		Budgets:      service.NewBudgetService(repo, logger),
	}
	handler := api.NewHandler(svc, images, cfg.Upload.MaxBytes, logger)

	// Set up Gin router
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(logger))
	handler.SetupRoutes(router)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", server.Addr, "backend", cfg.DataBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// openRepository returns the configured storage backend and its cleanup func
func openRepository() (repository.Repository, func(), error) {
	if cfg.DataBackend == config.BackendMemory {
		logger.Warn("using in-memory storage; data is lost on exit")
		return repository.NewMemoryRepository(), func() {}, nil
	}

	db, err := config.SetupDatabase(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up database: %w", err)
	}
	return repository.NewPostgresRepository(db), func() { db.Close() }, nil
}
