package notification

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// fakeList is an in-memory stand-in for a Redis list.
type fakeList struct {
	mu           sync.Mutex
	items        []string
	emptyPolls   int
	brpopCalls   int
	pushErr      error
	pushDeadline bool
}

func (f *fakeList) LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, f.pushDeadline = ctx.Deadline()
	if f.pushErr != nil {
		return redis.NewIntResult(0, f.pushErr)
	}
	for _, v := range values {
		f.items = append([]string{string(v.([]byte))}, f.items...)
	}
	return redis.NewIntResult(int64(len(f.items)), nil)
}

func (f *fakeList) BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd {
	f.mu.Lock()
	f.brpopCalls++
	if f.emptyPolls > 0 {
		f.emptyPolls--
		f.mu.Unlock()
		return redis.NewStringSliceResult(nil, redis.Nil)
	}
	if n := len(f.items); n > 0 {
		v := f.items[n-1]
		f.items = f.items[:n-1]
		f.mu.Unlock()
		return redis.NewStringSliceResult([]string{keys[0], v}, nil)
	}
	f.mu.Unlock()

	select {
	case <-ctx.Done():
	case <-time.After(timeout):
	}
	return redis.NewStringSliceResult(nil, redis.Nil)
}

func newTestRedisQueue(f *fakeList) *RedisQueue {
	q := NewRedisQueue(f, "")
	q.popTimeout = 10 * time.Millisecond
	return q
}

func TestRedisQueue_PushPopInOrder(t *testing.T) {
	f := &fakeList{}
	q := newTestRedisQueue(f)
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		if err := q.Push(ctx, Task{ID: id, Kind: KindConfirmation, Recipient: "jane@example.com"}); err != nil {
			t.Fatalf("push %s: %v", id, err)
		}
	}
	if !f.pushDeadline {
		t.Error("push must run with a deadline")
	}

	for _, want := range []string{"a", "b"} {
		got, err := q.Pop(ctx)
		if err != nil {
			t.Fatalf("pop: %v", err)
		}
		if got.ID != want {
			t.Errorf("expected %s, got %s", want, got.ID)
		}
	}
}

func TestRedisQueue_PopSkipsEmptyPolls(t *testing.T) {
	f := &fakeList{emptyPolls: 2}
	q := newTestRedisQueue(f)
	if err := q.Push(context.Background(), Task{ID: "a", Kind: KindReminder, Recipient: "jane@example.com"}); err != nil {
		t.Fatal(err)
	}

	got, err := q.Pop(context.Background())
	if err != nil || got.ID != "a" {
		t.Fatalf("expected task a, got %+v %v", got, err)
	}
	if f.brpopCalls != 3 {
		t.Errorf("expected 3 BRPOP calls, got %d", f.brpopCalls)
	}
}

func TestRedisQueue_PopMalformed(t *testing.T) {
	q := newTestRedisQueue(&fakeList{items: []string{"not json"}})
	if _, err := q.Pop(context.Background()); !errors.Is(err, ErrMalformedTask) {
		t.Errorf("expected ErrMalformedTask, got %v", err)
	}
}

func TestRedisQueue_PopStopsOnCancel(t *testing.T) {
	q := newTestRedisQueue(&fakeList{})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := q.Pop(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestRedisQueue_PushError(t *testing.T) {
	q := newTestRedisQueue(&fakeList{pushErr: errors.New("connection refused")})
	err := q.Push(context.Background(), Task{ID: "a", Kind: KindConfirmation, Recipient: "jane@example.com"})
	if err == nil {
		t.Fatal("expected push error")
	}
}

// scriptedQueue replays fixed Pop results, then blocks until ctx ends.
type scriptedQueue struct {
	pops []func() (Task, error)
}

func (q *scriptedQueue) Push(context.Context, Task) error { return nil }

func (q *scriptedQueue) Pop(ctx context.Context) (Task, error) {
	if len(q.pops) > 0 {
		next := q.pops[0]
		q.pops = q.pops[1:]
		return next()
	}
	<-ctx.Done()
	return Task{}, ctx.Err()
}

func TestDispatcher_DeliversTaskPoppedDuringShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	q := &scriptedQueue{pops: []func() (Task, error){
		func() (Task, error) {
			cancel()
			return Task{ID: "late", Kind: KindConfirmation, Recipient: "jane@example.com", Data: sampleData()}, nil
		},
	}}
	email := &MockEmailSender{}
	d := NewDispatcher(email, newTestRenderer(t), q, zerolog.New(io.Discard))

	d.Run(ctx)

	if len(email.Calls()) != 1 {
		t.Fatalf("expected the popped task to be sent, got %d emails", len(email.Calls()))
	}
	if s := d.Stats(); s.Sent != 1 {
		t.Errorf("unexpected stats %+v", s)
	}
}

func TestDispatcher_CountsMalformedTaskAsDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q := &scriptedQueue{pops: []func() (Task, error){
		func() (Task, error) { return Task{}, ErrMalformedTask },
		func() (Task, error) {
			cancel()
			return Task{}, context.Canceled
		},
	}}
	d := NewDispatcher(&MockEmailSender{}, newTestRenderer(t), q, zerolog.New(io.Discard))

	d.Run(ctx)

	if s := d.Stats(); s.Dropped != 1 || s.Failed != 0 {
		t.Errorf("expected one dropped task, got %+v", s)
	}
}
