package worker

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/merrydance/logistics/cache"
	"github.com/merrydance/logistics/tour"
	"github.com/rs/zerolog/log"
)

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
)

// InstanceProvider resolves an active instance by name.
type InstanceProvider interface {
	Get(name string) (tour.Instance, error)
}

// TaskProcessor 任务处理接口
type TaskProcessor interface {
	Start() error
	Shutdown()
	// ProcessTaskCalculateTour runs a queued tour calculation
	ProcessTaskCalculateTour(ctx context.Context, task *asynq.Task) error
}

type RedisTaskProcessor struct {
	server    *asynq.Server
	instances InstanceProvider
	jobs      cache.JobStore
	timeout   time.Duration
}

func NewRedisTaskProcessor(
	redisOpt asynq.RedisClientOpt,
	instances InstanceProvider,
	jobs cache.JobStore,
	timeout time.Duration,
) TaskProcessor {
	logger := NewLogger()
	redis.SetLogger(logger)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Queues: map[string]int{
				QueueCritical: 10,
				QueueDefault:  5,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error().Err(err).Str("type", task.Type()).
					Bytes("payload", task.Payload()).Msg("process task failed")
			}),
			Logger:          logger,
			ShutdownTimeout: 10 * time.Second,
		},
	)

	return &RedisTaskProcessor{
		server:    server,
		instances: instances,
		jobs:      jobs,
		timeout:   timeout,
	}
}

// NewTestTaskProcessor creates a processor without a Redis connection.
func NewTestTaskProcessor(instances InstanceProvider, jobs cache.JobStore, timeout time.Duration) *RedisTaskProcessor {
	return &RedisTaskProcessor{
		instances: instances,
		jobs:      jobs,
		timeout:   timeout,
	}
}

func (processor *RedisTaskProcessor) Start() error {
	mux := asynq.NewServeMux()

	mux.HandleFunc(TaskCalculateTour, processor.ProcessTaskCalculateTour)

	return processor.server.Start(mux)
}

func (processor *RedisTaskProcessor) Shutdown() {
	processor.server.Shutdown()
}
