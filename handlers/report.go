package handlers

import (
	"net/http"

	"payyourfriends/services"

	"github.com/gin-gonic/gin"
)

// GET /
func (h *Handler) Home(c *gin.Context) {
	c.String(http.StatusOK, "Welcome to Pay Your Friends!")
}

// GET /send-test-email
func (h *Handler) SendTestEmail(c *gin.Context) {
	if err := services.SendTestEmail(c.Request.Context(), h.mailer, h.testEmailTo); err != nil {
		h.logger.ErrorContext(c.Request.Context(), "test email failed", "error", err)
		c.String(http.StatusInternalServerError, "Failed to send test email.")
		return
	}
	c.String(http.StatusOK, "Test email sent successfully!")
}

// GET|POST /send-reports, /api/scheduled-report
func (h *Handler) SendReports(c *gin.Context) {
	reports, err := h.reports.Run(c.Request.Context())
	sent, failed, skipped := services.Totals(reports)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "report job failed", "error", err)
		c.String(http.StatusInternalServerError, "Error sending report emails.")
		return
	}
	c.String(http.StatusOK, "Report emails sent successfully! sent=%d failed=%d skipped=%d", sent, failed, skipped)
}
