package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiterConfig 速率限制配置
type RateLimiterConfig struct {
	// 基于 IP 的限流
	IPRateLimit  rate.Limit // 每秒允许的请求数
	IPBurstLimit int        // 突发请求数

	// 基于 API key 的限流
	KeyRateLimit  rate.Limit
	KeyBurstLimit int

	// 清理间隔（清理过期的限流器）
	CleanupInterval time.Duration
}

// DefaultRateLimiterConfig 默认配置
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		IPRateLimit:     5,
		IPBurstLimit:    10,
		KeyRateLimit:    20,
		KeyBurstLimit:   40,
		CleanupInterval: 10 * time.Minute,
	}
}

// visitor 存储每个访问者的限流器和最后访问时间
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter 速率限制器
type RateLimiter struct {
	config   RateLimiterConfig
	visitors map[string]*visitor
	mu       sync.Mutex
	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewRateLimiter 创建新的速率限制器
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:   config,
		visitors: make(map[string]*visitor),
		stopCh:   make(chan struct{}),
	}

	// 启动后台清理协程
	go rl.cleanupVisitors()

	return rl
}

// getVisitor 获取或创建访问者的限流器
func (rl *RateLimiter) getVisitor(key string, rateLimit rate.Limit, burst int) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(rateLimit, burst)
		rl.visitors[key] = &visitor{limiter: limiter, lastSeen: time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// cleanupVisitors 定期清理过期的访问者
func (rl *RateLimiter) cleanupVisitors() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for key, v := range rl.visitors {
				if time.Since(v.lastSeen) > rl.config.CleanupInterval*3 {
					delete(rl.visitors, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

// visitorCount 当前跟踪的访问者数量
func (rl *RateLimiter) visitorCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

// Stop 停止清理协程
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Middleware 返回 Gin 中间件
// 需挂在 APIKeyMiddleware 之后：只有校验通过的 key 才按 key 限流，其余按 IP
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var key string
		var rateLimit rate.Limit
		var burst int

		if apiKey := ctx.GetString(apiKeyContextKey); apiKey != "" {
			// 已校验的 API key 享受更高的限额
			key = "key:" + apiKey
			rateLimit = rl.config.KeyRateLimit
			burst = rl.config.KeyBurstLimit
		} else {
			key = "ip:" + ctx.ClientIP()
			rateLimit = rl.config.IPRateLimit
			burst = rl.config.IPBurstLimit
		}

		limiter := rl.getVisitor(key, rateLimit, burst)

		if !limiter.Allow() {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error: "rate limit exceeded, please slow down",
			})
			return
		}

		ctx.Next()
	}
}
