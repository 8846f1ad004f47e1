package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/wellness-service/internal/config"
	"github.com/spec-kit/wellness-service/internal/events"
	"github.com/spec-kit/wellness-service/internal/service"
)

func TestNotificationWorkerDeliversAsync(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	ctx, cancel := context.WithCancel(context.Background())
	dispatcher := events.NewInMemoryDispatcher(logger)
	w := StartNotificationWorker(ctx, dispatcher, service.NewNotificationService(logger, config.NotificationConfig{}), logger)

	event := events.New(events.EventConsultationBooked, "c-1", "u-1", events.ConsultationBookedPayload{UserID: "u-1"})
	require.NoError(t, dispatcher.Publish(context.Background(), event))

	require.Eventually(t, func() bool {
		return logs.FilterMessage("ConsultationBooked").Len() == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	w.Wait()
}

func TestNotificationWorkerDropsWhenFull(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	w := &NotificationWorker{jobs: make(chan job), logger: zap.New(core)}

	handler := w.enqueue(func(context.Context, events.Event) error { return nil })
	assert.NoError(t, handler(context.Background(), events.Event{Type: events.EventGoalCompleted, ID: "e-1"}))
	assert.Equal(t, 1, logs.FilterMessage("notification queue full, dropping event").Len())
}

func TestStartWithoutDispatcher(t *testing.T) {
	w := StartNotificationWorker(context.Background(), nil, nil, nil)
	w.Wait()
}

func TestNotificationWorkerDrainsOnShutdown(t *testing.T) {
	const queued = 100
	w := &NotificationWorker{jobs: make(chan job, queued), workers: 1, logger: zap.NewNop()}

	var delivered atomic.Int32
	handler := w.enqueue(func(context.Context, events.Event) error {
		delivered.Add(1)
		return nil
	})
	for i := 0; i < queued; i++ {
		require.NoError(t, handler(context.Background(), events.Event{Type: events.EventGoalProgressRecorded}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.wg.Add(1)
	go w.run(ctx)
	w.Wait()

	assert.EqualValues(t, queued, delivered.Load())
	assert.Empty(t, w.jobs)
}

func TestNotificationWorkerDrainStopsAtDeadline(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	w := &NotificationWorker{jobs: make(chan job, 4), logger: zap.New(core)}

	slow := func(ctx context.Context, _ events.Event) error {
		<-ctx.Done()
		return ctx.Err()
	}
	for i := 0; i < 3; i++ {
		w.jobs <- job{event: events.Event{Type: events.EventGoalCompleted}, handler: slow}
	}

	start := time.Now()
	w.drain()
	assert.Less(t, time.Since(start), drainBudget+time.Second)
	assert.Equal(t, 1, logs.FilterMessage("notification drain deadline reached, abandoning queued events").Len())
}
