package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware 安全响应头中间件
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Header("X-Content-Type-Options", "nosniff")
		ctx.Header("X-Frame-Options", "DENY")
		ctx.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		ctx.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		ctx.Next()
	}
}

// CORSMiddleware 跨域资源共享中间件
// 空列表允许任意来源，tour 接口默认对浏览器开放
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	originsMap := make(map[string]bool)
	for _, origin := range allowedOrigins {
		originsMap[origin] = true
	}

	return func(ctx *gin.Context) {
		origin := ctx.GetHeader("Origin")

		if origin != "" && (len(allowedOrigins) == 0 || originsMap[origin] || originsMap["*"]) {
			ctx.Header("Access-Control-Allow-Origin", origin)
			ctx.Header("Access-Control-Allow-Methods", "GET, PUT, POST, OPTIONS")
			ctx.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-API-Key, X-Request-ID")
			ctx.Header("Access-Control-Expose-Headers", "X-Request-ID")
			ctx.Header("Access-Control-Max-Age", "86400")
			ctx.Header("Vary", "Origin")
		}

		// 处理预检请求
		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}

		ctx.Next()
	}
}
