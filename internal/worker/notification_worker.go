// Package worker runs background consumers of domain events.
package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/wellness-service/internal/events"
	"github.com/spec-kit/wellness-service/internal/service"
)

const (
	defaultQueueSize   = 256
	defaultWorkers     = 2
	notificationBudget = 5 * time.Second
	drainBudget        = 3 * time.Second
)

type job struct {
	event   events.Event
	handler events.EventHandler
}

// NotificationWorker delivers notifications off the request path.
type NotificationWorker struct {
	jobs    chan job
	workers int
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// StartNotificationWorker subscribes the notification handlers to dispatcher
// and starts draining them in the background until ctx is cancelled.
func StartNotificationWorker(ctx context.Context, dispatcher events.Dispatcher, notificationService *service.NotificationService, logger *zap.Logger) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &NotificationWorker{
		jobs:    make(chan job, defaultQueueSize),
		workers: defaultWorkers,
		logger:  logger,
	}
	if dispatcher == nil || notificationService == nil {
		return w
	}

	for eventType, handler := range notificationService.Handlers() {
		dispatcher.Subscribe(eventType, w.enqueue(handler))
	}

	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.run(ctx)
	}
	return w
}

// Wait blocks until every worker goroutine has exited.
func (w *NotificationWorker) Wait() {
	w.wg.Wait()
}

func (w *NotificationWorker) enqueue(handler events.EventHandler) events.EventHandler {
	return func(_ context.Context, event events.Event) error {
		select {
		case w.jobs <- job{event: event, handler: handler}:
		default:
			w.logger.Warn("notification queue full, dropping event",
				zap.String("event_type", string(event.Type)),
				zap.String("event_id", event.ID))
		}
		return nil
	}
}

func (w *NotificationWorker) run(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case j := <-w.jobs:
			w.deliver(ctx, j)
		}
	}
}

// drain delivers what is still queued once the worker is stopping. Jobs left
// after drainBudget are logged and abandoned.
func (w *NotificationWorker) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainBudget)
	defer cancel()
	for {
		select {
		case j := <-w.jobs:
			if ctx.Err() != nil {
				w.logger.Warn("notification drain deadline reached, abandoning queued events",
					zap.Int("abandoned", len(w.jobs)+1))
				return
			}
			w.deliver(ctx, j)
		default:
			return
		}
	}
}

func (w *NotificationWorker) deliver(ctx context.Context, j job) {
	ctx, cancel := context.WithTimeout(ctx, notificationBudget)
	defer cancel()
	if err := j.handler(ctx, j.event); err != nil {
		w.logger.Warn("notification failed",
			zap.String("event_type", string(j.event.Type)),
			zap.String("event_id", j.event.ID),
			zap.Error(err))
	}
}
