package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	// APIKeyHeader header carrying the client key
	APIKeyHeader = "X-API-Key"
	apiKeyQuery  = "apikey"
	// apiKeyContextKey accepted key, set only when keys are configured
	apiKeyContextKey = "api_key"
)

// APIKeyMiddleware rejects requests without a configured key with 403.
// An empty key list accepts every request.
func APIKeyMiddleware(keys []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(keys))
	for _, key := range keys {
		allowed[key] = true
	}

	return func(ctx *gin.Context) {
		if len(allowed) == 0 {
			ctx.Next()
			return
		}

		key := ctx.GetHeader(APIKeyHeader)
		if key == "" {
			key = ctx.Query(apiKeyQuery)
		}
		if !allowed[key] {
			log.Warn().
				Str("request_id", GetRequestID(ctx)).
				Str("client_ip", ctx.ClientIP()).
				Msg("request rejected by api key check")
			ctx.AbortWithStatusJSON(http.StatusForbidden, errorResponse(errors.New("request rejected")))
			return
		}

		ctx.Set(apiKeyContextKey, key)
		ctx.Next()
	}
}

// TimeoutMiddleware 为所有请求设置统一超时时间
func TimeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Gin 的 Context/ResponseWriter 不是并发安全的，不要在 goroutine 里调用 c.Next()。
		// 这里仅通过 request context 注入超时，确保下游计算可被取消。
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{"error": "request timeout"})
		}
	}
}
