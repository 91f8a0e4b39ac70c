package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sport-planner-api/internal/dto"
	"github.com/noah-isme/sport-planner-api/internal/models"
	"github.com/noah-isme/sport-planner-api/internal/service"
	appErrors "github.com/noah-isme/sport-planner-api/pkg/errors"
	"github.com/noah-isme/sport-planner-api/pkg/response"
)

type priorityService interface {
	RankGroups(ctx context.Context, window models.RankingWindow, now time.Time) (*models.RankingResult, error)
	RegisterExtraMoment(ctx context.Context, groupID string, date *time.Time, now time.Time, actorID string) (*models.SessionEvent, error)
}

type callOrderExporter interface {
	CallOrder(ctx context.Context, window models.RankingWindow, format dto.ExportFormat, now time.Time) (*service.ExportFile, error)
}

// CallOrderHandler exposes the fair call order for extra sport moments.
type CallOrderHandler struct {
	service  priorityService
	exporter callOrderExporter
	loc      *time.Location
	clock    Clock
}

// NewCallOrderHandler constructs the handler. A nil exporter disables the
// export endpoint.
func NewCallOrderHandler(service priorityService, exporter callOrderExporter, loc *time.Location, clock Clock) *CallOrderHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &CallOrderHandler{service: service, exporter: exporter, loc: loc, clock: clock}
}

// Rank godoc
// @Summary Call order for extra sport moments
// @Tags CallOrder
// @Produce json
// @Param window query string false "ALL, WEEK, MONTH or YEAR" default(ALL)
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /call-order [get]
func (h *CallOrderHandler) Rank(c *gin.Context) {
	start := time.Now()
	result, err := h.service.RankGroups(c.Request.Context(), windowParam(c), h.clock.now())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, withProcessingTime(c, start))
}

// Register godoc
// @Summary Register an extra sport moment for a group
// @Tags CallOrder
// @Accept json
// @Produce json
// @Param payload body dto.RegisterExtraMomentRequest true "Registration"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /call-order/registrations [post]
func (h *CallOrderHandler) Register(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.RegisterExtraMomentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}
	groupID := strings.TrimSpace(req.GroupID)
	if groupID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "groupId is required"))
		return
	}
	var date *time.Time
	if raw := strings.TrimSpace(req.Date); raw != "" {
		parsed, err := models.ParseRecordDate(raw, h.loc)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD or RFC3339"))
			return
		}
		date = &parsed
	}
	session, err := h.service.RegisterExtraMoment(c.Request.Context(), groupID, date, h.clock.now(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// Export godoc
// @Summary Export the call order
// @Tags CallOrder
// @Produce text/csv
// @Produce application/pdf
// @Param window query string false "ALL, WEEK, MONTH or YEAR" default(ALL)
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /call-order/export [get]
func (h *CallOrderHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled"))
		return
	}
	format := dto.ExportFormat(strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", string(dto.ExportFormatCSV)))))
	file, err := h.exporter.CallOrder(c.Request.Context(), windowParam(c), format, h.clock.now())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

func windowParam(c *gin.Context) models.RankingWindow {
	return models.RankingWindow(strings.TrimSpace(c.DefaultQuery("window", string(models.WindowAll))))
}
