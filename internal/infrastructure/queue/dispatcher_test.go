package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actowiz/text-submission-api/internal/core/domain"
)

type stubPublisher struct {
	mu     sync.Mutex
	events []domain.SubmissionEvent
	err    error
	block  chan struct{}
}

func (p *stubPublisher) Publish(ctx context.Context, e domain.SubmissionEvent) error {
	if p.block != nil {
		select {
		case <-p.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *stubPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func TestDispatcher_DeliversEveryEvent(t *testing.T) {
	pub := &stubPublisher{}
	d := NewDispatcher(3, 16, pub, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	for i := 0; i < 10; i++ {
		d.Notify(domain.SubmissionEvent{SubmittedText: "x"})
	}

	require.Eventually(t, func() bool { return pub.count() == 10 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	d.Wait()
}

func TestDispatcher_NotifyNeverBlocks(t *testing.T) {
	pub := &stubPublisher{block: make(chan struct{})}
	d := NewDispatcher(1, 1, pub, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	done := make(chan struct{})
	go func() {
		// One in flight, one buffered, the rest dropped.
		for i := 0; i < 50; i++ {
			d.Notify(domain.SubmissionEvent{SubmittedText: "x"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked with a full queue")
	}

	close(pub.block)
	require.Eventually(t, func() bool { return pub.count() >= 1 }, 2*time.Second, 10*time.Millisecond)
	assert.LessOrEqual(t, pub.count(), 2)

	cancel()
	d.Wait()
}

func TestDispatcher_PublishErrorIsSwallowed(t *testing.T) {
	pub := &stubPublisher{err: errors.New("redis down")}
	d := NewDispatcher(1, 4, pub, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Notify(domain.SubmissionEvent{SubmittedText: "a"})
	d.Notify(domain.SubmissionEvent{SubmittedText: "b"})

	require.Eventually(t, func() bool { return pub.count() == 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	d.Wait()
}

func TestNewDispatcher_Defaults(t *testing.T) {
	d := NewDispatcher(0, -1, &stubPublisher{}, zerolog.Nop())
	assert.Equal(t, defaultWorkers, d.workers)
	assert.Equal(t, defaultBuffer, cap(d.events))
}
