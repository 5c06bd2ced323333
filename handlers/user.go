package handlers

import (
	"net/http"

	"payyourfriends/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/me
func (h *Handler) GetProfile(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", member)
}

// GET /api/members
func (h *Handler) GetMembers(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}

	names, err := h.expenses.Members(c.Request.Context(), member.Group)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"group":   member.Group,
		"members": names,
	})
}
