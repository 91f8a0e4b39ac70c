package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sport-planner-api/internal/dto"
	"github.com/noah-isme/sport-planner-api/internal/models"
	appErrors "github.com/noah-isme/sport-planner-api/pkg/errors"
	"github.com/noah-isme/sport-planner-api/pkg/response"
)

type sessionService interface {
	List(ctx context.Context, filter dto.SessionFilter) ([]models.SessionEvent, error)
	Create(ctx context.Context, req dto.CreateSessionRequest, actorID string) (*models.SessionEvent, error)
}

// SessionHandler manages custom sport sessions.
type SessionHandler struct {
	service sessionService
}

// NewSessionHandler constructs the handler.
func NewSessionHandler(service sessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// List godoc
// @Summary List sport sessions
// @Tags Sessions
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD)"
// @Param groupId query string false "Group ID"
// @Success 200 {object} response.Envelope
// @Router /sessions [get]
func (h *SessionHandler) List(c *gin.Context) {
	filter := dto.SessionFilter{
		Date:    strings.TrimSpace(c.Query("date")),
		GroupID: strings.TrimSpace(c.Query("groupId")),
	}
	if filter.Date == "" && filter.GroupID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date or groupId is required"))
		return
	}
	sessions, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions)
}

// Create godoc
// @Summary Schedule a custom sport session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body dto.CreateSessionRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session payload"))
		return
	}
	session, err := h.service.Create(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}
