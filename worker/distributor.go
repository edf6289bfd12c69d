package worker

import (
	"context"

	"github.com/hibiken/asynq"
)

// TaskDistributor 任务分发接口
type TaskDistributor interface {
	// DistributeTaskCalculateTour enqueues an asynchronous tour calculation
	DistributeTaskCalculateTour(
		ctx context.Context,
		payload *PayloadCalculateTour,
		opts ...asynq.Option,
	) error
}

type RedisTaskDistributor struct {
	client *asynq.Client
}

func NewRedisTaskDistributor(redisOpt asynq.RedisClientOpt) TaskDistributor {
	client := asynq.NewClient(redisOpt)
	return &RedisTaskDistributor{
		client: client,
	}
}
