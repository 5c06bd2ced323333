package utils

import (
	"net/http"

	"payyourfriends/models"

	"github.com/gin-gonic/gin"
)

const memberKey = "member"

// Standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, message)
}

func NotFound(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, message)
}

func InternalError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, message)
}

// SetCurrentMember stores the signed-in member (done by auth middleware).
func SetCurrentMember(c *gin.Context, m models.Member) {
	c.Set(memberKey, m)
}

// Get current member from context (set by auth middleware)
func CurrentMember(c *gin.Context) (models.Member, bool) {
	v, exists := c.Get(memberKey)
	if !exists {
		return models.Member{}, false
	}
	m, ok := v.(models.Member)
	return m, ok
}

// Pagination helpers. A zero limit returns everything.
type PaginationQuery struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=0"`
}

func (p *PaginationQuery) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Paginate returns the window of items selected by p.
func Paginate[T any](items []T, p PaginationQuery) []T {
	if p.Limit <= 0 {
		return items
	}
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
