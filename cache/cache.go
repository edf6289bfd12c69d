// Package cache stores computed routes and asynchronous tour jobs in Redis.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/merrydance/logistics/geo"
	"github.com/merrydance/logistics/route"
)

const (
	// RouteKeyPrefix Redis key prefix of cached routes
	RouteKeyPrefix = "tour:route:"
	// JobKeyPrefix Redis key prefix of tour jobs
	JobKeyPrefix = "tour:job:"
	// JobTTL how long finished jobs can be fetched
	JobTTL = 24 * time.Hour
)

// ErrJobNotFound unknown or expired job id.
var ErrJobNotFound = errors.New("job not found")

// RouteCache cached tour responses keyed by request.
type RouteCache interface {
	// Get returns nil without error on a miss.
	Get(ctx context.Context, key string) (*route.Route, error)
	Set(ctx context.Context, key string, r *route.Route) error
}

// JobStore state of asynchronous tour jobs.
type JobStore interface {
	GetJob(ctx context.Context, id string) (*Job, error)
	SaveJob(ctx context.Context, job *Job) error
}

// JobStatus lifecycle state of a job.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// Job an asynchronous tour calculation.
type Job struct {
	ID        string       `json:"id"`
	Instance  string       `json:"instance"`
	Status    JobStatus    `json:"status"`
	Route     *route.Route `json:"route,omitempty"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// RedisCache Redis implementation of RouteCache and JobStore.
type RedisCache struct {
	client   *redis.Client
	routeTTL time.Duration
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(redisAddr string, redisPassword string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return client, nil
}

// NewRedisCache creates the cache; routes expire after routeTTL.
func NewRedisCache(client *redis.Client, routeTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, routeTTL: routeTTL}
}

// Get returns a cached route.
func (c *RedisCache) Get(ctx context.Context, key string) (*route.Route, error) {
	data, err := c.client.Get(ctx, RouteKeyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var r route.Route
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal cached route failed: %w", err)
	}
	return &r, nil
}

// Set caches a route.
func (c *RedisCache) Set(ctx context.Context, key string, r *route.Route) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal route failed: %w", err)
	}
	if err := c.client.Set(ctx, RouteKeyPrefix+key, data, c.routeTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// GetJob loads a job.
func (c *RedisCache) GetJob(ctx context.Context, id string) (*Job, error) {
	data, err := c.client.Get(ctx, JobKeyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("unmarshal job failed: %w", err)
	}
	return &job, nil
}

// SaveJob stores a job and refreshes its expiry.
func (c *RedisCache) SaveJob(ctx context.Context, job *Job) error {
	job.UpdatedAt = time.Now()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = job.UpdatedAt
	}
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job failed: %w", err)
	}
	if err := c.client.Set(ctx, JobKeyPrefix+job.ID, data, JobTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Request the inputs identifying a tour response.
type Request struct {
	Instance   string           `json:"instance"`
	Profile    string           `json:"profile"`
	Locations  []geo.Coordinate `json:"locations"`
	Attributes []geo.Attributes `json:"attributes,omitempty"`
	Closed     *bool            `json:"closed,omitempty"`
	Format     string           `json:"format,omitempty"`
}

// Key hashes the request into a cache key.
func Key(req Request) string {
	data, err := json.Marshal(req)
	if err != nil {
		// only reachable with NaN coordinates, which are rejected earlier
		data = []byte(fmt.Sprintf("%+v", req))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
