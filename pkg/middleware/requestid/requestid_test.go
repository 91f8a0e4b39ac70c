package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, inbound string) (*httptest.ResponseRecorder, string, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	var fromGin, fromCtx string
	r := gin.New()
	r.Use(Middleware())
	r.GET("/", func(c *gin.Context) {
		fromGin = FromContext(c)
		fromCtx = FromRequestContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if inbound != "" {
		req.Header.Set(Header, inbound)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec, fromGin, fromCtx
}

func TestMiddlewareKeepsInboundID(t *testing.T) {
	rec, fromGin, fromCtx := serve(t, "abc-123")
	assert.Equal(t, "abc-123", rec.Header().Get(Header))
	assert.Equal(t, "abc-123", fromGin)
	assert.Equal(t, "abc-123", fromCtx)
}

func TestMiddlewareGeneratesID(t *testing.T) {
	for _, inbound := range []string{"", strings.Repeat("x", 200)} {
		rec, fromGin, _ := serve(t, inbound)
		_, err := uuid.Parse(fromGin)
		require.NoError(t, err)
		assert.Equal(t, fromGin, rec.Header().Get(Header))
	}
}
