package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultRedisKey = "medbook:notifications"

	redisPushTimeout = 2 * time.Second
	redisPopTimeout  = 5 * time.Second
)

// ErrMalformedTask marks a queue entry that cannot be decoded into a Task.
var ErrMalformedTask = errors.New("malformed notification task")

// ListClient is the part of *redis.Client the queue uses.
type ListClient interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
}

// RedisQueue stores tasks in a Redis list (LPUSH / BRPOP) so queued emails
// survive a server restart.
type RedisQueue struct {
	client      ListClient
	key         string
	pushTimeout time.Duration
	popTimeout  time.Duration
}

// NewRedisClient parses a redis:// URL and verifies connectivity.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func NewRedisQueue(client ListClient, key string) *RedisQueue {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisQueue{client: client, key: key, pushTimeout: redisPushTimeout, popTimeout: redisPopTimeout}
}

// Push runs on the request path, so it is bounded by pushTimeout.
func (q *RedisQueue) Push(ctx context.Context, t Task) error {
	payload, err := encodeTask(t)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, q.pushTimeout)
	defer cancel()
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("lpush %s: %w", q.key, err)
	}
	return nil
}

func (q *RedisQueue) Pop(ctx context.Context) (Task, error) {
	for {
		res, err := q.client.BRPop(ctx, q.popTimeout, q.key).Result()
		if ctx.Err() != nil {
			return Task{}, ctx.Err()
		}
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return Task{}, fmt.Errorf("brpop %s: %w", q.key, err)
		}
		// res is [key, value]
		return decodeTask([]byte(res[1]))
	}
}

func encodeTask(t Task) ([]byte, error) {
	b, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encode task %s: %w", t.ID, err)
	}
	return b, nil
}

func decodeTask(b []byte) (Task, error) {
	var t Task
	if err := json.Unmarshal(b, &t); err != nil {
		return Task{}, fmt.Errorf("%w: %v", ErrMalformedTask, err)
	}
	if !t.Kind.Valid() || t.Recipient == "" {
		return Task{}, fmt.Errorf("%w: %s has no valid kind or recipient", ErrMalformedTask, t.ID)
	}
	return t, nil
}
