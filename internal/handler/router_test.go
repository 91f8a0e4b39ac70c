package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sport-planner-api/internal/middleware"
	"github.com/noah-isme/sport-planner-api/internal/models"
	"github.com/noah-isme/sport-planner-api/internal/service"
)

const routerSecret = "router-secret"

func buildTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	routes := Routes{
		Groups:    NewGroupHandler(&fakeGroupSrv{groups: []models.Group{{ID: "g-a", Name: "Alpha", Color: models.GroupColorRed}}}),
		Agenda:    NewAgendaHandler(&fakeAgendaSrv{agenda: &models.DayAgenda{Date: "2024-06-10"}}, fixedClock),
		Sessions:  NewSessionHandler(&fakeSessionSrv{}),
		CallOrder: NewCallOrderHandler(&fakePrioritySrv{}, &fakeExporter{}, time.UTC, fixedClock),
		Logger:    zap.NewNop(),
	}
	routes.Register(router.Group("/api/v1"), middleware.JWT(service.NewTokenVerifier(routerSecret)))
	return router
}

func bearer(t *testing.T, role models.UserRole) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{
		UserID: "user-1",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(routerSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRoutesIntegration(t *testing.T) {
	router := buildTestRouter()

	t.Run("agenda requires token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/agenda", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("agenda with staff token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/agenda?date=2024-06-10", nil)
		req.Header.Set("Authorization", bearer(t, models.RoleStaff))
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), `"processing_time_ms"`)
	})

	t.Run("status change with colon item id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/v1/agenda/2024-06-10/items/template:t1/status", bytes.NewBufferString(`{"status":"COMPLETED"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", bearer(t, models.RoleStaff))
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), `"id":"template:t1"`)
	})

	t.Run("staff cannot register extra moments", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/call-order/registrations", bytes.NewBufferString(`{"groupId":"g-a"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", bearer(t, models.RoleStaff))
		resp := performRequest(router, req)
		require.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("coordinator registers extra moment", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/call-order/registrations", bytes.NewBufferString(`{"groupId":"g-a"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", bearer(t, models.RoleCoordinator))
		resp := performRequest(router, req)
		require.Equal(t, http.StatusCreated, resp.Code)
	})

	t.Run("unknown role is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/groups", nil)
		req.Header.Set("Authorization", bearer(t, models.UserRole("GUEST")))
		resp := performRequest(router, req)
		require.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("export csv", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/call-order/export?format=csv", nil)
		req.Header.Set("Authorization", bearer(t, models.RoleAdmin))
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Header().Get("Content-Disposition"), "attachment")
	})
}
