package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sport-planner-api/internal/middleware"
	"github.com/noah-isme/sport-planner-api/internal/models"
)

// Clock supplies the current time to handlers so services never read the
// wall clock themselves.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func withProcessingTime(c *gin.Context, start time.Time) map[string]interface{} {
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	return meta
}
