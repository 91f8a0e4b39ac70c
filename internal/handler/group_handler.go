package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sport-planner-api/internal/middleware"
	"github.com/noah-isme/sport-planner-api/internal/models"
	appErrors "github.com/noah-isme/sport-planner-api/pkg/errors"
	"github.com/noah-isme/sport-planner-api/pkg/response"
)

type groupService interface {
	CatalogWithCacheInfo(ctx context.Context) ([]models.Group, bool, error)
}

// GroupHandler serves the read-only group catalog.
type GroupHandler struct {
	service groupService
}

// NewGroupHandler constructs the handler.
func NewGroupHandler(service groupService) *GroupHandler {
	return &GroupHandler{service: service}
}

type groupView struct {
	models.Group
	GuidanceLabel string `json:"guidanceLabel"`
}

// List godoc
// @Summary List living groups
// @Tags Groups
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /groups [get]
func (h *GroupHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	groups, cacheHit, err := h.service.CatalogWithCacheInfo(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	views := make([]groupView, 0, len(groups))
	for _, g := range groups {
		views = append(views, groupView{Group: g, GuidanceLabel: g.Color.GuidanceLabel()})
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, views, withProcessingTime(c, start))
}
