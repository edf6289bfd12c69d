package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/merrydance/logistics/cache"
	"github.com/merrydance/logistics/geo"
	"github.com/merrydance/logistics/profile"
	"github.com/merrydance/logistics/tour"
	"github.com/rs/zerolog/log"
)

const (
	TaskCalculateTour = "tour:calculate"
)

// PayloadCalculateTour tour calculation task payload
type PayloadCalculateTour struct {
	JobID      string           `json:"job_id"`
	Instance   string           `json:"instance"`
	Profile    string           `json:"profile"`
	Locations  []geo.Coordinate `json:"locations"`
	Attributes []geo.Attributes `json:"attributes,omitempty"`
	Closed     *bool            `json:"closed,omitempty"`
	Format     string           `json:"format,omitempty"`
	Parameters tour.Parameters  `json:"parameters,omitempty"`
}

// DistributeTaskCalculateTour enqueues a tour calculation
func (d *RedisTaskDistributor) DistributeTaskCalculateTour(
	ctx context.Context,
	payload *PayloadCalculateTour,
	opts ...asynq.Option,
) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	task := asynq.NewTask(TaskCalculateTour, jsonPayload, opts...)
	info, err := d.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue task: %w", err)
	}

	log.Info().
		Str("type", task.Type()).
		Str("queue", info.Queue).
		Int("max_retry", info.MaxRetry).
		Str("job_id", payload.JobID).
		Str("instance", payload.Instance).
		Msg("enqueued tour calculation task")

	return nil
}

// ProcessTaskCalculateTour runs the calculation and stores the outcome on
// the job. Domain failures complete the job as failed and are not retried.
func (p *RedisTaskProcessor) ProcessTaskCalculateTour(ctx context.Context, task *asynq.Task) error {
	var payload PayloadCalculateTour
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", asynq.SkipRetry)
	}

	log.Info().
		Str("type", task.Type()).
		Str("job_id", payload.JobID).
		Str("instance", payload.Instance).
		Int("locations", len(payload.Locations)).
		Msg("processing tour calculation task")

	job, err := p.jobs.GetJob(ctx, payload.JobID)
	if err != nil {
		if !errors.Is(err, cache.ErrJobNotFound) {
			return fmt.Errorf("get job: %w", err)
		}
		job = &cache.Job{ID: payload.JobID, Instance: payload.Instance}
	}
	job.Status = cache.JobRunning
	if err := p.jobs.SaveJob(ctx, job); err != nil {
		return fmt.Errorf("save job: %w", err)
	}

	instance, err := p.instances.Get(payload.Instance)
	if err != nil {
		return p.fail(ctx, job, fmt.Sprintf("Instance %s not found.", payload.Instance), err)
	}
	prof, ok := profile.TryGet(payload.Profile)
	if !ok || !instance.Supports(prof) {
		return p.fail(ctx, job, fmt.Sprintf("Profile %s not supported.", payload.Profile), nil)
	}

	calcCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		calcCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	res := instance.Calculate(calcCtx, prof, payload.Locations, payload.Attributes, payload.Closed, payload.Parameters)
	if !res.IsError() {
		res = tour.Present(res.Value(), payload.Format)
	}
	if res.IsError() {
		message := res.ErrorMessage()
		if tour.KindOf(res.Err()) == tour.KindUnexpected {
			message = "internal server error"
		}
		return p.fail(ctx, job, message, res.Err())
	}

	job.Status = cache.JobSucceeded
	job.Route = res.Value()
	if err := p.jobs.SaveJob(ctx, job); err != nil {
		return fmt.Errorf("save job: %w", err)
	}

	log.Info().
		Str("job_id", job.ID).
		Float64("distance", job.Route.TotalDistance).
		Float64("time", job.Route.TotalTime).
		Msg("tour calculation completed")
	return nil
}

func (p *RedisTaskProcessor) fail(ctx context.Context, job *cache.Job, message string, cause error) error {
	job.Status = cache.JobFailed
	job.Error = message
	log.Warn().Err(cause).Str("job_id", job.ID).Str("instance", job.Instance).Msg(message)
	if err := p.jobs.SaveJob(ctx, job); err != nil {
		return fmt.Errorf("save job: %w", err)
	}
	return nil
}
