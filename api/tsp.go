package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/merrydance/logistics/cache"
	"github.com/merrydance/logistics/profile"
	"github.com/merrydance/logistics/result"
	"github.com/merrydance/logistics/route"
	"github.com/merrydance/logistics/tour"
	"github.com/merrydance/logistics/worker"
	"github.com/rs/zerolog/log"
)

// resolveInstance checks the instance, binds the request and resolves the
// profile. On failure the response is written and ok is false.
func (server *Server) resolveInstance(ctx *gin.Context) (tour.Instance, *profile.Profile, *tourRequest, bool) {
	name := ctx.Param("instance")
	if !server.instances.IsActive(name) {
		ctx.JSON(http.StatusNotFound, errorResponse(fmt.Errorf("instance %s not found", name)))
		return nil, nil, nil, false
	}
	instance, err := server.instances.Get(name)
	if err != nil {
		// deactivated between the two calls
		ctx.JSON(http.StatusNotFound, errorResponse(err))
		return nil, nil, nil, false
	}

	req, err := bindTourRequest(ctx)
	if err != nil {
		ctx.JSON(http.StatusNotAcceptable, errorResponse(err))
		return nil, nil, nil, false
	}

	prof, ok := profile.TryGet(req.Profile)
	if !ok {
		ctx.JSON(http.StatusNotAcceptable, errorResponse(rejectRequest("Profile with name '%s' not found.", req.Profile)))
		return nil, nil, nil, false
	}
	if !instance.Supports(prof) {
		ctx.JSON(http.StatusNotAcceptable, errorResponse(rejectRequest("Profile with name '%s' is unsupported by this instance.", prof.Name)))
		return nil, nil, nil, false
	}
	return instance, prof, req, true
}

// calculateTour GET|PUT /:instance/tsp
func (server *Server) calculateTour(ctx *gin.Context) {
	instance, prof, req, ok := server.resolveInstance(ctx)
	if !ok {
		return
	}

	key := ""
	if server.routeCache != nil && req.Parameters == nil {
		key = cache.Key(cacheRequest(instance.Name(), prof, req))
		cached, err := server.routeCache.Get(ctx, key)
		switch {
		case err != nil:
			RecordRouteCache("error")
			LogWithRequestID(ctx).Warn().Err(err).Msg("route cache lookup failed")
		case cached != nil:
			RecordRouteCache("hit")
			ctx.JSON(http.StatusOK, cached)
			return
		default:
			RecordRouteCache("miss")
		}
	}

	res := calculate(ctx.Request.Context(), instance, prof, req)
	if !res.IsError() {
		res = tour.Present(res.Value(), req.Format)
	}
	if res.IsError() {
		server.writeTourError(ctx, res.Err())
		return
	}

	if key != "" {
		if err := server.routeCache.Set(ctx, key, res.Value()); err != nil {
			LogWithRequestID(ctx).Warn().Err(err).Msg("route cache store failed")
		}
	}
	ctx.JSON(http.StatusOK, res.Value())
}

// calculate runs the orchestration, turning a panic into an unexpected fault.
func calculate(ctx context.Context, instance tour.Instance, prof *profile.Profile, req *tourRequest) (res result.Result[*route.Route]) {
	defer func() {
		if r := recover(); r != nil {
			res = result.Fail[*route.Route](fmt.Errorf("tour calculation panicked: %v", r))
		}
	}()
	return instance.Calculate(ctx, prof, req.Locations, req.Attributes, req.Closed, req.Parameters)
}

// writeTourError maps a failure kind to its status. Unexpected failures are
// logged and hidden behind a generic message.
func (server *Server) writeTourError(ctx *gin.Context, err error) {
	switch tour.KindOf(err) {
	case tour.KindValidation:
		ctx.JSON(http.StatusNotAcceptable, errorResponse(err))
	case tour.KindConfiguration:
		ctx.JSON(http.StatusNotFound, errorResponse(err))
	case tour.KindMatch, tour.KindSolverNonConvergence, tour.KindAssembly:
		var tourErr *tour.Error
		if errors.As(err, &tourErr) {
			LogWithRequestID(ctx).Warn().Str("kind", tourErr.Kind.String()).Str("detail", tourErr.Detail()).Msg(tourErr.Message)
		}
		_ = ctx.Error(err)
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
	default:
		ctx.JSON(http.StatusInternalServerError, internalError(ctx, err))
	}
}

func cacheRequest(instance string, prof *profile.Profile, req *tourRequest) cache.Request {
	return cache.Request{
		Instance:   instance,
		Profile:    prof.Name,
		Locations:  req.Locations,
		Attributes: req.Attributes,
		Closed:     req.Closed,
		Format:     req.Format,
	}
}

// createTourJob POST /:instance/tsp/jobs
func (server *Server) createTourJob(ctx *gin.Context) {
	if server.jobs == nil || server.taskDistributor == nil {
		ctx.JSON(http.StatusServiceUnavailable, errorResponse(errors.New("asynchronous jobs are not enabled")))
		return
	}

	instance, prof, req, ok := server.resolveInstance(ctx)
	if !ok {
		return
	}

	job := &cache.Job{
		ID:       uuid.New().String(),
		Instance: instance.Name(),
		Status:   cache.JobPending,
	}
	if err := server.jobs.SaveJob(ctx, job); err != nil {
		ctx.JSON(http.StatusInternalServerError, internalError(ctx, err))
		return
	}

	payload := &worker.PayloadCalculateTour{
		JobID:      job.ID,
		Instance:   instance.Name(),
		Profile:    prof.Name,
		Locations:  req.Locations,
		Attributes: req.Attributes,
		Closed:     req.Closed,
		Format:     req.Format,
		Parameters: req.Parameters,
	}
	opts := []asynq.Option{
		asynq.MaxRetry(3),
		asynq.Queue(worker.QueueDefault),
		asynq.Timeout(server.jobTimeout()),
	}
	if err := server.taskDistributor.DistributeTaskCalculateTour(ctx, payload, opts...); err != nil {
		RecordTourJobEnqueued(false)
		ctx.JSON(http.StatusInternalServerError, internalError(ctx, err))
		return
	}
	RecordTourJobEnqueued(true)

	log.Info().
		Str("request_id", GetRequestID(ctx)).
		Str("job_id", job.ID).
		Str("instance", job.Instance).
		Msg("tour job created")
	ctx.JSON(http.StatusAccepted, job)
}

func (server *Server) jobTimeout() time.Duration {
	if server.config.RequestTimeout > 0 {
		// leave room for matching and storing the result
		return 2 * server.config.RequestTimeout
	}
	return 5 * time.Minute
}

type getTourJobRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// getTourJob GET /:instance/tsp/jobs/:id
func (server *Server) getTourJob(ctx *gin.Context) {
	if server.jobs == nil {
		ctx.JSON(http.StatusServiceUnavailable, errorResponse(errors.New("asynchronous jobs are not enabled")))
		return
	}

	var req getTourJobRequest
	if err := ctx.ShouldBindUri(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	job, err := server.jobs.GetJob(ctx, req.ID)
	if err != nil {
		if errors.Is(err, cache.ErrJobNotFound) {
			ctx.JSON(http.StatusNotFound, errorResponse(err))
			return
		}
		ctx.JSON(http.StatusInternalServerError, internalError(ctx, err))
		return
	}
	if job.Instance != ctx.Param("instance") {
		ctx.JSON(http.StatusNotFound, errorResponse(cache.ErrJobNotFound))
		return
	}

	ctx.JSON(http.StatusOK, job)
}
