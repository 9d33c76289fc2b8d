package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rongwang/finance-tracker-server/internal/service"
	"github.com/rongwang/finance-tracker-server/internal/storage"
)

// Services bundles the domain services the handlers call
type Services struct {
	Auth         *service.AuthService
	Ledgers      *service.LedgerService
	Transactions *service.TransactionService
	Budgets      *service.BudgetService
}

// Handler serves the REST API
type Handler struct {
	auth           *service.AuthService
	ledgers        *service.LedgerService
	transactions   *service.TransactionService
	budgets        *service.BudgetService
	images         *storage.ImageStore
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewHandler creates a new Handler
func NewHandler(svc Services, images *storage.ImageStore, maxUploadBytes int64, logger *slog.Logger) *Handler {
	registerValidators()

	return &Handler{
		auth:           svc.Auth,
		ledgers:        svc.Ledgers,
		transactions:   svc.Transactions,
		budgets:        svc.Budgets,
		images:         images,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// SetupRoutes registers every route on the router
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)
	uploads := router.Group(storage.URLPrefix, noSniff())
	uploads.StaticFS("/", h.images.FileSystem())

	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}
	api.POST("/upload/image", h.UploadImage)

	// Protected routes
	protected := api.Group("")
	protected.Use(AuthMiddleware(h.auth))
	{
		users := protected.Group("/users")
		users.GET("/me", h.GetProfile)
		users.PUT("/me", h.UpdateProfile)

		ledgers := protected.Group("/ledgers")
		ledgers.POST("", h.CreateLedger)
		ledgers.GET("", h.ListLedgers)
		ledgers.GET("/:id", h.GetLedger)
		ledgers.PUT("/:id", h.UpdateLedger)
		ledgers.DELETE("/:id", h.DeleteLedger)

		transactions := protected.Group("/transactions")
		transactions.POST("", h.CreateTransaction)
		transactions.GET("", h.ListTransactions)
		transactions.GET("/summary/statistics", h.GetSummary)
		transactions.GET("/:id", h.GetTransaction)
		transactions.PUT("/:id", h.UpdateTransaction)
		transactions.DELETE("/:id", h.DeleteTransaction)

		budgets := protected.Group("/budgets")
		budgets.POST("", h.SetBudget)
		budgets.GET("", h.GetBudgets)
	}
}

// Health reports liveness
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
