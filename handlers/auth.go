package handlers

import (
	"net/http"
	"strings"
	"time"

	"payyourfriends/models"
	"payyourfriends/utils"

	"github.com/gin-gonic/gin"
)

const devTokenTTL = 24 * time.Hour

type tokenRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

type tokenResponse struct {
	Token  string        `json:"token"`
	Member models.Member `json:"member"`
}

// POST /auth/token
// Issues a signed token for an existing member. Registered only when local
// JWT auth is enabled outside production.
func (h *Handler) IssueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	member, err := h.members.LookupMember(c.Request.Context(), email)
	if err != nil {
		h.respondError(c, err)
		return
	}

	token, err := utils.GenerateToken(h.tokenSecret, email, req.Name, devTokenTTL)
	if err != nil {
		utils.InternalError(c, "Failed to generate token")
		return
	}
	if member.Name == "" {
		member.Name = models.FirstName(req.Name)
	}
	utils.SuccessResponse(c, http.StatusOK, "Token issued", tokenResponse{Token: token, Member: member})
}
