package notification

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const sendTimeout = 30 * time.Second

// Stats counts task outcomes since process start.
type Stats struct {
	Queued  int64 `json:"queued"`
	Sent    int64 `json:"sent"`
	Failed  int64 `json:"failed"`
	Dropped int64 `json:"dropped"`
	Pending int   `json:"pending"`
}

// Dispatcher renders and sends appointment notifications. Handlers call
// Enqueue; Run drains the queue with a fixed number of workers. A failed send
// is logged and counted, never retried.
type Dispatcher struct {
	email    EmailSender
	sms      SMSSender
	renderer *Renderer
	queue    Queue
	workers  int
	logger   zerolog.Logger

	queued  atomic.Int64
	sent    atomic.Int64
	failed  atomic.Int64
	dropped atomic.Int64
}

type Option func(*Dispatcher)

// WithSMS also texts the patient phone, when one is known.
func WithSMS(s SMSSender) Option {
	return func(d *Dispatcher) { d.sms = s }
}

func WithWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

func NewDispatcher(email EmailSender, renderer *Renderer, queue Queue, logger zerolog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		email:    email,
		renderer: renderer,
		queue:    queue,
		workers:  1,
		logger:   logger.With().Str("component", "notification").Logger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Enqueue hands the task to the queue and returns immediately. A full queue
// drops the task.
func (d *Dispatcher) Enqueue(ctx context.Context, t Task) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.EnqueuedAt.IsZero() {
		t.EnqueuedAt = time.Now().UTC()
	}

	if err := d.queue.Push(ctx, t); err != nil {
		d.dropped.Add(1)
		d.taskLog(d.logger.Warn().Err(err), t).Msg("notification dropped")
		return err
	}
	d.queued.Add(1)
	return nil
}

// Send renders and delivers one notification synchronously.
func (d *Dispatcher) Send(ctx context.Context, kind Kind, recipient string, data AppointmentData) Result {
	return d.deliver(ctx, Task{ID: uuid.NewString(), Kind: kind, Recipient: recipient, Data: data})
}

func (d *Dispatcher) deliver(ctx context.Context, t Task) Result {
	subject, html, err := d.renderer.Render(t.Kind, t.Data)
	if err != nil {
		return d.fail(t, err)
	}
	if t.Recipient == "" {
		return d.fail(t, errors.New("empty recipient"))
	}

	if err := d.email.SendEmail(ctx, Email{ID: t.ID, To: t.Recipient, Subject: subject, HTML: html}); err != nil {
		return d.fail(t, err)
	}
	d.sent.Add(1)
	d.taskLog(d.logger.Info(), t).Msg("notification sent")

	if d.sms != nil && t.Phone != "" {
		if err := d.sms.SendSMS(ctx, t.Phone, smsText(t.Kind, t.Data)); err != nil {
			d.taskLog(d.logger.Warn().Err(err), t).Msg("sms failed")
		}
	}
	return Result{Success: true, MessageID: t.ID}
}

func (d *Dispatcher) fail(t Task, err error) Result {
	d.failed.Add(1)
	d.taskLog(d.logger.Error().Err(err), t).Msg("notification failed")
	return Result{Success: false, Error: err.Error()}
}

func (d *Dispatcher) taskLog(evt *zerolog.Event, t Task) *zerolog.Event {
	return evt.
		Str("task_id", t.ID).
		Str("kind", string(t.Kind)).
		Str("recipient", t.Recipient).
		Int64("appointment_id", t.Data.AppointmentID)
}

// Run starts the workers and blocks until ctx is cancelled and every worker
// has finished its current send.
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info().Int("workers", d.workers).Msg("notification dispatcher started")

	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.work(ctx)
		}()
	}
	wg.Wait()

	if n := d.pending(); n > 0 {
		d.logger.Warn().Int("pending", n).Msg("dispatcher stopped with undelivered notifications")
	}
	d.logger.Info().Msg("notification dispatcher stopped")
}

func (d *Dispatcher) work(ctx context.Context) {
	for {
		t, err := d.queue.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, ErrMalformedTask) {
				d.dropped.Add(1)
				d.logger.Error().Err(err).Msg("notification dropped")
				continue
			}
			d.logger.Error().Err(err).Msg("notification queue read failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		// a popped task is delivered even when shutdown has started
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
		d.deliver(sendCtx, t)
		cancel()
		if ctx.Err() != nil {
			return
		}
	}
}

func (d *Dispatcher) pending() int {
	if l, ok := d.queue.(interface{ Len() int }); ok {
		return l.Len()
	}
	return 0
}

func (d *Dispatcher) Stats() Stats {
	return Stats{
		Queued:  d.queued.Load(),
		Sent:    d.sent.Load(),
		Failed:  d.failed.Load(),
		Dropped: d.dropped.Load(),
		Pending: d.pending(),
	}
}
