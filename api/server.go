package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/merrydance/logistics/cache"
	"github.com/merrydance/logistics/tour"
	"github.com/merrydance/logistics/util"
	"github.com/merrydance/logistics/worker"
	"github.com/rs/zerolog/log"
)

// InstanceRegistry the active tour instances served by name.
type InstanceRegistry interface {
	IsActive(name string) bool
	Get(name string) (tour.Instance, error)
	Names() []string
}

// Server serves HTTP requests for the tour service.
type Server struct {
	config          util.Config
	instances       InstanceRegistry
	routeCache      cache.RouteCache // optional
	jobs            cache.JobStore   // optional, required for async jobs
	taskDistributor worker.TaskDistributor
	rateLimiter     *RateLimiter
	router          *gin.Engine
}

// NewServer creates a new HTTP server and set up routing.
// routeCache, jobs and taskDistributor may be nil.
func NewServer(
	config util.Config,
	instances InstanceRegistry,
	routeCache cache.RouteCache,
	jobs cache.JobStore,
	taskDistributor worker.TaskDistributor,
) (*Server, error) {
	if instances == nil {
		return nil, errors.New("cannot create server without an instance registry")
	}

	server := &Server{
		config:          config,
		instances:       instances,
		routeCache:      routeCache,
		jobs:            jobs,
		taskDistributor: taskDistributor,
		rateLimiter:     NewRateLimiter(DefaultRateLimiterConfig()),
	}

	server.setupRouter()
	return server, nil
}

func (server *Server) setupRouter() {
	if server.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 访问日志由 RequestLoggingMiddleware 负责（query 中的 key 已脱敏），不使用 gin 默认 Logger
	router := gin.New()
	router.Use(gin.Recovery())

	registerCustomValidators()

	router.Use(CORSMiddleware(server.config.AllowedOrigins))
	router.Use(SecurityHeadersMiddleware())
	router.Use(RequestTracingMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(OpenTelemetryMiddleware())
	router.Use(PrometheusMiddleware())

	router.GET("/health", server.healthCheck)
	router.GET("/ready", server.readinessCheck)
	router.GET("/metrics", MetricsHandler())

	router.GET("/instances", server.listInstances)

	tspRoutes := router.Group("/:instance/tsp")
	tspRoutes.Use(APIKeyMiddleware(server.config.APIKeys))
	tspRoutes.Use(server.rateLimiter.Middleware())
	if server.config.RequestTimeout > 0 {
		tspRoutes.Use(TimeoutMiddleware(server.config.RequestTimeout))
	}
	{
		tspRoutes.GET("", server.calculateTour)
		tspRoutes.PUT("", server.calculateTour)
		tspRoutes.POST("/jobs", server.createTourJob)
		tspRoutes.GET("/jobs/:id", server.getTourJob)
	}

	server.router = router
}

// Start runs the HTTP server on a specific address.
func (server *Server) Start(address string) error {
	return server.router.Run(address)
}

// GetRouter returns the gin router for creating http.Server
func (server *Server) GetRouter() *gin.Engine {
	return server.router
}

// Close stops background goroutines of the middleware.
func (server *Server) Close() {
	server.rateLimiter.Stop()
}

// healthCheck 健康检查 - 基础存活检查
// GET /health
func (server *Server) healthCheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "logistics-api",
	})
}

// readinessCheck ready once at least one instance is active
// GET /ready
func (server *Server) readinessCheck(ctx *gin.Context) {
	names := server.instances.Names()
	if len(names) == 0 {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  "no active instance",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"service":   "logistics-api",
		"instances": len(names),
	})
}

type listInstancesResponse struct {
	Instances []string `json:"instances"`
}

// listInstances GET /instances
func (server *Server) listInstances(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, listInstancesResponse{Instances: server.instances.Names()})
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// errorResponse creates an error response.
// For 4xx client errors: returns the actual error message
// For 5xx server errors: use internalError() instead to avoid leaking details
func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}

// internalError logs the actual error and returns a safe generic message.
func internalError(ctx *gin.Context, err error) gin.H {
	// Attach to gin context so RequestLoggingMiddleware can include it
	_ = ctx.Error(err)

	log.Error().
		Err(err).
		Str("request_id", GetRequestID(ctx)).
		Str("path", ctx.Request.URL.Path).
		Str("method", ctx.Request.Method).
		Msg("internal error")

	return gin.H{"error": "internal server error"}
}
