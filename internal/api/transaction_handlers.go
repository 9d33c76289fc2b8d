package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rongwang/finance-tracker-server/internal/models"
)

// CreateTransaction handles transaction creation
func (h *Handler) CreateTransaction(c *gin.Context) {
	var req models.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	txn, err := h.transactions.CreateTransaction(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, txn)
}

// ListTransactions returns one filtered page of the caller's transactions with the filtered total
func (h *Handler) ListTransactions(c *gin.Context) {
	var query models.ListTransactionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		writeBindError(c, err)
		return
	}

	startDate, endDate, err := parseDateRange(query.StartDate, query.EndDate)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	filter := models.TransactionFilter{
		Type:      optional(query.Type),
		Category:  optional(query.Category),
		StartDate: startDate,
		EndDate:   endDate,
	}

	resp, err := h.transactions.ListTransactions(c.Request.Context(), currentUserID(c), filter, models.Page{Skip: query.Skip, Limit: query.Limit})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetTransaction(c *gin.Context) {
	id, ok := pathID(c, "transaction")
	if !ok {
		return
	}

	txn, err := h.transactions.GetTransaction(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, txn)
}

// UpdateTransaction applies a partial update; omitted or null fields keep their values
func (h *Handler) UpdateTransaction(c *gin.Context) {
	id, ok := pathID(c, "transaction")
	if !ok {
		return
	}

	var req models.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	txn, err := h.transactions.UpdateTransaction(c.Request.Context(), id, currentUserID(c), models.TransactionPatch{
		Type:        req.Type,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		ImagePath:   req.ImagePath,
		Date:        req.Date.Ptr(),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, txn)
}

func (h *Handler) DeleteTransaction(c *gin.Context) {
	id, ok := pathID(c, "transaction")
	if !ok {
		return
	}

	if err := h.transactions.DeleteTransaction(c.Request.Context(), id, currentUserID(c)); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetSummary returns income, expense and balance over an optional date range
func (h *Handler) GetSummary(c *gin.Context) {
	var query models.SummaryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		writeBindError(c, err)
		return
	}

	startDate, endDate, err := parseDateRange(query.StartDate, query.EndDate)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	summary, err := h.transactions.GetSummary(c.Request.Context(), currentUserID(c), startDate, endDate)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
