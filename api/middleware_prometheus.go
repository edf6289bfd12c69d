package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP 请求计数器
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP 请求延迟直方图，tour 计算可能耗时数秒
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "path"},
	)

	// 活跃请求数
	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	routeCacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "route_cache_requests_total",
			Help: "Route cache lookups by result",
		},
		[]string{"result"}, // hit, miss, error
	)

	tourJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tour_jobs_enqueued_total",
			Help: "Asynchronous tour jobs by enqueue outcome",
		},
		[]string{"status"}, // success, failed
	)
)

// PrometheusMiddleware 记录 HTTP 请求指标
func PrometheusMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		// 跳过 /metrics 和 /health 端点
		path := ctx.FullPath()
		if path == "/metrics" || path == "/health" || path == "/ready" {
			ctx.Next()
			return
		}

		// 未匹配的路由使用固定标签，避免基数爆炸
		if path == "" {
			path = "unmatched"
		}

		httpRequestsInFlight.Inc()
		start := time.Now()

		ctx.Next()

		httpRequestsInFlight.Dec()
		duration := time.Since(start).Seconds()
		status := strconv.Itoa(ctx.Writer.Status())

		httpRequestsTotal.WithLabelValues(ctx.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(ctx.Request.Method, path).Observe(duration)
	}
}

// MetricsHandler 返回 Prometheus 指标处理器
func MetricsHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(ctx *gin.Context) {
		h.ServeHTTP(ctx.Writer, ctx.Request)
	}
}

// RecordRouteCache 记录路线缓存查询结果
func RecordRouteCache(result string) {
	routeCacheRequestsTotal.WithLabelValues(result).Inc()
}

// RecordTourJobEnqueued 记录异步任务入队
func RecordTourJobEnqueued(success bool) {
	status := "success"
	if !success {
		status = "failed"
	}
	tourJobsTotal.WithLabelValues(status).Inc()
}
