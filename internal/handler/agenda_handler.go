package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sport-planner-api/internal/dto"
	"github.com/noah-isme/sport-planner-api/internal/middleware"
	"github.com/noah-isme/sport-planner-api/internal/models"
	appErrors "github.com/noah-isme/sport-planner-api/pkg/errors"
	"github.com/noah-isme/sport-planner-api/pkg/response"
)

type agendaService interface {
	BuildDayAgenda(ctx context.Context, date time.Time, now time.Time) (*models.DayAgenda, error)
	SetItemStatus(ctx context.Context, date time.Time, itemID string, status models.SessionStatus, actorID string) (*models.DayAgendaItem, error)
	Location() *time.Location
}

// AgendaHandler exposes the day agenda and its checklist.
type AgendaHandler struct {
	service agendaService
	clock   Clock
}

// NewAgendaHandler constructs the handler.
func NewAgendaHandler(service agendaService, clock Clock) *AgendaHandler {
	return &AgendaHandler{service: service, clock: clock}
}

// Get godoc
// @Summary Day agenda
// @Description Merges the schedule template, sport sessions and active constraints for one date.
// @Tags Agenda
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD). Defaults to today in the facility time zone"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /agenda [get]
func (h *AgendaHandler) Get(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	now := h.clock.now()
	date, err := h.resolveDate(strings.TrimSpace(c.Query("date")), now)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	agenda, err := h.service.BuildDayAgenda(c.Request.Context(), date, now)
	if err != nil {
		response.Error(c, err)
		return
	}
	if agenda.Incomplete {
		middleware.AddWarning(c, "data possibly incomplete")
	}
	response.JSON(c, http.StatusOK, agenda, withProcessingTime(c, start))
}

// SetStatus godoc
// @Summary Set checklist status of an agenda item
// @Tags Agenda
// @Accept json
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param itemId path string true "Agenda item id, e.g. template:<id> or session:<id>"
// @Param payload body dto.SetItemStatusRequest true "New status"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /agenda/{date}/items/{itemId}/status [put]
func (h *AgendaHandler) SetStatus(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	date, err := models.ParseDate(c.Param("date"), h.service.Location())
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	itemID := strings.TrimSpace(c.Param("itemId"))
	if itemID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "itemId is required"))
		return
	}
	var req dto.SetItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	item, err := h.service.SetItemStatus(c.Request.Context(), date, itemID, models.SessionStatus(strings.TrimSpace(req.Status)), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

func (h *AgendaHandler) resolveDate(raw string, now time.Time) (time.Time, error) {
	loc := h.service.Location()
	if raw == "" {
		local := now.In(loc)
		return models.StartOfDay(local), nil
	}
	date, err := models.ParseDate(raw, loc)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	return date, nil
}
