package notification

import (
	"context"
	"errors"
)

var ErrQueueFull = errors.New("notification queue full")

// Queue carries tasks from request handlers to the dispatcher workers.
// Push must not block on delivery; Pop blocks until a task arrives or ctx ends.
type Queue interface {
	Push(ctx context.Context, t Task) error
	Pop(ctx context.Context) (Task, error)
}

// ChannelQueue is a bounded in-process queue. Tasks still buffered when the
// process exits are lost.
type ChannelQueue struct {
	ch chan Task
}

func NewChannelQueue(size int) *ChannelQueue {
	if size < 1 {
		size = 1
	}
	return &ChannelQueue{ch: make(chan Task, size)}
}

func (q *ChannelQueue) Push(_ context.Context, t Task) error {
	select {
	case q.ch <- t:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *ChannelQueue) Pop(ctx context.Context) (Task, error) {
	select {
	case t := <-q.ch:
		return t, nil
	case <-ctx.Done():
		return Task{}, ctx.Err()
	}
}

// Len reports how many tasks are buffered.
func (q *ChannelQueue) Len() int {
	return len(q.ch)
}
