package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rongwang/finance-tracker-server/internal/models"
)

// CreateLedger handles ledger creation
func (h *Handler) CreateLedger(c *gin.Context) {
	var req models.CreateLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	ledger, err := h.ledgers.CreateLedger(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ledger)
}

// ListLedgers returns one page of the caller's ledgers with the total count
func (h *Handler) ListLedgers(c *gin.Context) {
	var query models.ListLedgersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		writeBindError(c, err)
		return
	}

	resp, err := h.ledgers.ListLedgers(c.Request.Context(), currentUserID(c), models.Page{Skip: query.Skip, Limit: query.Limit})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetLedger(c *gin.Context) {
	id, ok := pathID(c, "ledger")
	if !ok {
		return
	}

	ledger, err := h.ledgers.GetLedger(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ledger)
}

// UpdateLedger applies a partial update; omitted fields keep their values
func (h *Handler) UpdateLedger(c *gin.Context) {
	id, ok := pathID(c, "ledger")
	if !ok {
		return
	}

	var req models.UpdateLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	ledger, err := h.ledgers.UpdateLedger(c.Request.Context(), id, currentUserID(c), models.LedgerPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ledger)
}

func (h *Handler) DeleteLedger(c *gin.Context) {
	id, ok := pathID(c, "ledger")
	if !ok {
		return
	}

	if err := h.ledgers.DeleteLedger(c.Request.Context(), id, currentUserID(c)); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
