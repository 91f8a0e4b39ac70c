package requestid

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header carries the request id between the dashboard and this service.
const Header = "X-Request-ID"

const contextKey = "request_id"

type ctxKey struct{}

const maxInboundLength = 128

// Middleware reuses a sane inbound request id or assigns a new UUID, and
// makes it available on both the gin context and the request context.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(Header))
		if reqID == "" || len(reqID) > maxInboundLength {
			reqID = uuid.NewString()
		}

		c.Set(contextKey, reqID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), ctxKey{}, reqID))
		c.Writer.Header().Set(Header, reqID)

		c.Next()
	}
}

// FromContext returns the request id stored in the gin context.
func FromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if v, exists := c.Get(contextKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// FromRequestContext returns the request id carried by ctx, if any.
func FromRequestContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
