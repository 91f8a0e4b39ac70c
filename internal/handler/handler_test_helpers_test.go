package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sport-planner-api/internal/middleware"
	"github.com/noah-isme/sport-planner-api/internal/models"
)

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

var fixedNow = time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newTestContext(method, target, body string, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	if body != "" {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, rec
}

func staffClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "user-1", Role: models.RoleStaff}
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	code, _ := envelope.Error["code"].(string)
	return code
}

func performRequest(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func ginParam(key, value string) gin.Param {
	return gin.Param{Key: key, Value: value}
}
