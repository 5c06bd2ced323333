package handlers

import (
	"net/http"

	"payyourfriends/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/analytics
func (h *Handler) GetAnalytics(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}

	analytics, err := h.expenses.Analytics(c.Request.Context(), member.Group)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", analytics)
}

// GET /api/balances
func (h *Handler) GetBalances(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}

	balances, err := h.expenses.Balances(c.Request.Context(), member.Group)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", balances)
}
