package queue

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/actowiz/text-submission-api/internal/api/metrics"
	"github.com/actowiz/text-submission-api/internal/core/domain"
	"github.com/actowiz/text-submission-api/internal/core/ports"
)

const (
	defaultWorkers = 2
	defaultBuffer  = 256
	publishTimeout = 5 * time.Second
)

// Dispatcher decouples request handling from real-time delivery. Notify never
// blocks: when the buffer is full the event is dropped. A fixed set of workers
// drains the buffer into the publisher.
type Dispatcher struct {
	events    chan domain.SubmissionEvent
	workers   int
	publisher ports.EventPublisher
	log       zerolog.Logger
	wg        sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. Non-positive sizes fall back to defaults.
func NewDispatcher(workers, buffer int, publisher ports.EventPublisher, log zerolog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Dispatcher{
		events:    make(chan domain.SubmissionEvent, buffer),
		workers:   workers,
		publisher: publisher,
		log:       log,
	}
}

// Start launches the worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.runWorker(ctx, i)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Notify satisfies ports.SubmissionNotifier.
func (d *Dispatcher) Notify(event domain.SubmissionEvent) {
	select {
	case d.events <- event:
		metrics.NotificationQueueDepth.Set(float64(len(d.events)))
	default:
		metrics.NotificationsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().Str("username", event.Username).Msg("notification queue full, event dropped")
	}
}

func (d *Dispatcher) runWorker(ctx context.Context, id int) {
	defer d.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-d.events:
			metrics.NotificationQueueDepth.Set(float64(len(d.events)))
			d.publish(ctx, id, event)
		}
	}
}

func (d *Dispatcher) publish(ctx context.Context, id int, event domain.SubmissionEvent) {
	pctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := d.publisher.Publish(pctx, event); err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).
			Str("username", event.Username).
			Int("worker_id", id).
			Msg("notification publish failed")
		return
	}
	metrics.NotificationsTotal.WithLabelValues("published").Inc()
}
