package handlers

import (
	"net/http"

	"payyourfriends/models"
	"payyourfriends/utils"

	"github.com/gin-gonic/gin"
)

type listExpensesQuery struct {
	utils.PaginationQuery
	Order string `form:"order"`
}

// GET /api/expenses
func (h *Handler) ListExpenses(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}

	var q listExpensesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	records, err := h.expenses.List(c.Request.Context(), member.Group, q.Order)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", utils.Paginate(records, q.PaginationQuery))
}

// POST /api/expenses
func (h *Handler) CreateExpense(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}

	var req models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	record, err := h.expenses.Create(c.Request.Context(), member, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusCreated, "Expense added", record)
}

// POST /api/expenses/:id/toggle
func (h *Handler) ToggleExpense(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}

	var req models.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	record, err := h.expenses.Toggle(c.Request.Context(), member, c.Param("id"), req.Person)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Payment status updated", record)
}

// DELETE /api/expenses/:id
func (h *Handler) DeleteExpense(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}

	if err := h.expenses.Delete(c.Request.Context(), member, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Expense deleted", nil)
}
