package middleware

import "github.com/gin-gonic/gin"

const (
	responseMetaKey = "response_meta"
	cacheHitKey     = "cache_hit"
	warningKey      = "warning"
)

// WithResponseMeta prepares a per-request metadata map that handlers fill in
// and the response envelope carries under "meta".
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(responseMetaKey, map[string]interface{}{})
		c.Next()
	}
}

// SetCacheHit records whether the response was served from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	ensureMeta(c)[cacheHitKey] = hit
}

// AddWarning attaches a human readable warning to the response metadata.
// A later warning replaces an earlier one.
func AddWarning(c *gin.Context, message string) {
	ensureMeta(c)[warningKey] = message
}

// ExtractMeta returns the metadata map stored on the context.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	if meta, exists := c.Get(responseMetaKey); exists {
		if typed, ok := meta.(map[string]interface{}); ok {
			return typed
		}
	}
	return nil
}

func ensureMeta(c *gin.Context) map[string]interface{} {
	if meta := ExtractMeta(c); meta != nil {
		return meta
	}
	meta := make(map[string]interface{})
	if c != nil {
		c.Set(responseMetaKey, meta)
	}
	return meta
}
