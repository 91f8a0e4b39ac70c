package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sport-planner-api/internal/models"
	"github.com/noah-isme/sport-planner-api/pkg/middleware/requestid"
)

// Audit logs successful state-changing requests with the acting user so
// checklist edits and extra moment registrations can be traced.
func Audit(logger *zap.Logger, action string) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}

		fields := []zap.Field{
			zap.String("action", action),
			zap.String("path", c.FullPath()),
			zap.String("method", c.Request.Method),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
			zap.String("request_id", requestid.FromContext(c)),
		}
		if value, ok := c.Get(ContextUserKey); ok {
			if claims, ok := value.(*models.JWTClaims); ok {
				fields = append(fields, zap.String("user_id", claims.UserID), zap.String("role", string(claims.Role)))
			}
		}
		for _, p := range c.Params {
			fields = append(fields, zap.String("param_"+p.Key, p.Value))
		}
		logger.Info("audit", fields...)
	}
}
