package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rongwang/finance-tracker-server/internal/models"
)

// SetBudget creates or overwrites the caller's budget for a month and category
func (h *Handler) SetBudget(c *gin.Context) {
	var req models.SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	budget, err := h.budgets.SetBudget(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, budget)
}

func (h *Handler) GetBudgets(c *gin.Context) {
	var query models.ListBudgetsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		writeBindError(c, err)
		return
	}

	budgets, err := h.budgets.GetBudgets(c.Request.Context(), currentUserID(c), query.Month)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, budgets)
}
