package api

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/merrydance/logistics/api"

const (
	// RequestIDHeader HTTP 请求头中的 request_id 键
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey Gin Context 中的 request_id 键
	RequestIDKey = "request_id"
)

// RequestTracingMiddleware 请求追踪中间件
// 为每个请求生成唯一的 request_id，注入到日志和响应头
func RequestTracingMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		// 网关可能已注入 request_id
		requestID := ctx.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		// 存储到 Context 中供后续使用
		ctx.Set(RequestIDKey, requestID)

		// 设置响应头
		ctx.Header(RequestIDHeader, requestID)

		// 继续处理请求
		ctx.Next()
	}
}

// RequestLoggingMiddleware 请求日志中间件
// 记录每个请求的详细信息，包含 request_id
func RequestLoggingMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		path := ctx.Request.URL.Path
		query := redactQuery(ctx.Request.URL.RawQuery)

		// 处理请求
		ctx.Next()

		// 计算耗时
		latency := time.Since(start)
		status := ctx.Writer.Status()
		clientIP := ctx.ClientIP()
		method := ctx.Request.Method

		// 根据状态码选择日志级别
		var logEvent *zerolog.Event
		switch {
		case status >= 500:
			logEvent = log.Error()
		case status >= 400:
			logEvent = log.Warn()
		default:
			logEvent = log.Info()
		}

		// 构建日志
		logEvent.
			Str("request_id", GetRequestID(ctx)).
			Str("method", method).
			Str("path", path).
			Str("query", query).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", clientIP).
			Int("body_size", ctx.Writer.Size())

		// 如果有错误，记录错误信息
		if len(ctx.Errors) > 0 {
			logEvent.Str("errors", ctx.Errors.String())
		}

		if instance := ctx.Param("instance"); instance != "" {
			logEvent.Str("instance", instance)
		}

		logEvent.Msg("HTTP request")
	}
}

// redactQuery 隐藏 query 中的 API key，其余参数原样保留
func redactQuery(rawQuery string) string {
	if rawQuery == "" {
		return rawQuery
	}
	pairs := strings.Split(rawQuery, "&")
	for i, pair := range pairs {
		name, _, _ := strings.Cut(pair, "=")
		if unescaped, err := url.QueryUnescape(name); err == nil {
			name = unescaped
		}
		if strings.EqualFold(name, apiKeyQuery) {
			pairs[i] = apiKeyQuery + "=REDACTED"
		}
	}
	return strings.Join(pairs, "&")
}

// GetRequestID 从 Context 获取 request_id
func GetRequestID(ctx *gin.Context) string {
	if requestID, exists := ctx.Get(RequestIDKey); exists {
		return requestID.(string)
	}
	return ""
}

// LogWithRequestID 创建带有 request_id 的日志器
func LogWithRequestID(ctx *gin.Context) *zerolog.Logger {
	requestID := GetRequestID(ctx)
	logger := log.With().Str("request_id", requestID).Logger()
	return &logger
}

// OpenTelemetryMiddleware starts a server span per request, continuing an
// incoming W3C trace context.
func OpenTelemetryMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		parent := otel.GetTextMapPropagator().Extract(ctx.Request.Context(), propagation.HeaderCarrier(ctx.Request.Header))

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		spanCtx, span := otel.Tracer(tracerName).Start(parent, fmt.Sprintf("%s %s", ctx.Request.Method, route),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", ctx.Request.Method),
				attribute.String("http.route", route),
				attribute.String("request_id", GetRequestID(ctx)),
			),
		)
		defer span.End()
		ctx.Request = ctx.Request.WithContext(spanCtx)

		ctx.Next()

		status := ctx.Writer.Status()
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if status >= 500 {
			span.SetStatus(codes.Error, fmt.Sprintf("status %d", status))
		}
	}
}
