package handlers

import (
	"context"
	"errors"
	"log/slog"

	"payyourfriends/database"
	"payyourfriends/middleware"
	"payyourfriends/models"
	"payyourfriends/services"
	"payyourfriends/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ReportRunner runs one pass of the payment report job.
type ReportRunner interface {
	Run(ctx context.Context) ([]models.DispatchReport, error)
}

// Handler holds what the HTTP endpoints need.
type Handler struct {
	expenses    *services.ExpenseService
	reports     ReportRunner
	mailer      services.Mailer
	members     middleware.MemberLookup
	testEmailTo string
	tokenSecret string
	logger      *slog.Logger
}

type Options struct {
	Expenses    *services.ExpenseService
	Reports     ReportRunner
	Mailer      services.Mailer
	Members     middleware.MemberLookup
	TestEmailTo string
	// TokenSecret signs local tokens issued by POST /auth/token.
	TokenSecret string
	Logger      *slog.Logger
}

func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		expenses:    opts.Expenses,
		reports:     opts.Reports,
		mailer:      opts.Mailer,
		members:     opts.Members,
		testEmailTo: opts.TestEmailTo,
		tokenSecret: opts.TokenSecret,
		logger:      logger,
	}
}

// respondError maps service and storage errors onto the API envelope.
func (h *Handler) respondError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, database.ErrNotFound):
		utils.NotFound(c, "Expense not found")
	case errors.Is(err, database.ErrMemberUnknown):
		utils.Forbidden(c, "You are not a member of any group")
	case errors.Is(err, models.ErrNotFronter):
		utils.Forbidden(c, err.Error())
	case errors.Is(err, models.ErrNotInvolved),
		errors.Is(err, models.ErrFronterToggle),
		errors.Is(err, models.ErrOutstandingDebt),
		errors.Is(err, models.ErrNegativeAmount),
		errors.Is(err, models.ErrZeroAmount),
		errors.Is(err, services.ErrUnknownParticipant),
		errors.Is(err, services.ErrInvalidDate):
		utils.BadRequest(c, err.Error())
	case errors.As(err, &verrs):
		utils.BadRequest(c, verrs.Error())
	default:
		h.logger.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		utils.InternalError(c, "Something went wrong")
	}
}

func currentMember(c *gin.Context) (models.Member, bool) {
	m, ok := utils.CurrentMember(c)
	if !ok {
		utils.Unauthorized(c, "Not signed in")
	}
	return m, ok
}
