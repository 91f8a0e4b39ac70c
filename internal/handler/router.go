package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sport-planner-api/internal/middleware"
	"github.com/noah-isme/sport-planner-api/internal/models"
)

// Routes bundles the API handlers mounted under the API prefix.
type Routes struct {
	Groups    *GroupHandler
	Agenda    *AgendaHandler
	Sessions  *SessionHandler
	CallOrder *CallOrderHandler
	Logger    *zap.Logger
}

// Register mounts the protected API on group. auth must populate the user
// claims; it runs before role checks.
func (r Routes) Register(group *gin.RouterGroup, auth gin.HandlerFunc) {
	anyStaff := middleware.RequireRoles(models.RoleAdmin, models.RoleCoordinator, models.RoleStaff)
	coordinators := middleware.RequireRoles(models.RoleAdmin, models.RoleCoordinator)

	api := group.Group("")
	api.Use(auth, middleware.WithResponseMeta())

	api.GET("/groups", anyStaff, r.Groups.List)

	api.GET("/agenda", anyStaff, r.Agenda.Get)
	api.PUT("/agenda/:date/items/:itemId/status", anyStaff, middleware.Audit(r.Logger, "agenda.status"), r.Agenda.SetStatus)

	api.GET("/sessions", anyStaff, r.Sessions.List)
	api.POST("/sessions", coordinators, middleware.Audit(r.Logger, "session.create"), r.Sessions.Create)

	api.GET("/call-order", anyStaff, r.CallOrder.Rank)
	api.GET("/call-order/export", anyStaff, r.CallOrder.Export)
	api.POST("/call-order/registrations", coordinators, middleware.Audit(r.Logger, "call_order.register"), r.CallOrder.Register)
}
