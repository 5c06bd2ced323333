package handlers

import (
	"log/slog"
	"net/http"

	"payyourfriends/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	AppName            string
	Production         bool
	CORSOrigins        []string
	RateLimitPerMinute int
	CronSecret         string
	Verifier           middleware.Verifier
	// DevTokens enables POST /auth/token. Off unless DEV_TOKENS is set.
	DevTokens bool
	Logger    *slog.Logger
}

func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.SecureHeaders(cfg.Production, cfg.Logger))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middleware.RateLimit(cfg.RateLimitPerMinute))

	r.GET("/", h.Home)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": cfg.AppName,
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/send-test-email", h.SendTestEmail)

	// ==========================================
	// REPORT TRIGGER (bearer CRON_SECRET)
	// ==========================================
	gate := middleware.ReportTokenRequired(cfg.CronSecret)
	for _, path := range []string{"/send-reports", "/api/scheduled-report"} {
		r.GET(path, gate, h.SendReports)
		r.POST(path, gate, h.SendReports)
	}

	if cfg.DevTokens {
		r.POST("/auth/token", h.IssueToken)
	}

	// ==========================================
	// API ROUTES (authenticated)
	// ==========================================
	api := r.Group("/api")
	api.Use(middleware.AuthRequired(cfg.Verifier, h.members, cfg.Logger))
	{
		api.GET("/me", h.GetProfile)
		api.GET("/members", h.GetMembers)

		api.GET("/expenses", h.ListExpenses)
		api.POST("/expenses", h.CreateExpense)
		api.POST("/expenses/:id/toggle", h.ToggleExpense)
		api.DELETE("/expenses/:id", h.DeleteExpense)

		api.GET("/analytics", h.GetAnalytics)
		api.GET("/balances", h.GetBalances)
	}

	return r
}
