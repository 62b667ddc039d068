package event

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/GameDevClicker_Go/internal/logger"
)

// retryItem is one event waiting for another publish attempt.
type retryItem struct {
	event   Event
	attempt int
	lastErr error
}

// ResilientPublisher wraps a Bus with bounded retries and a dead-letter file.
// PublishWithRetry never blocks the caller on a failing bus: failed events
// move to a buffered retry queue serviced by a background worker, and events
// that exhaust their attempts are appended to the dead-letter log for
// offline inspection and replay.
type ResilientPublisher struct {
	inner      Bus
	maxRetries int
	baseDelay  time.Duration
	deadLetter *DeadLetterWriter

	// onDeadLetter, when set, is called once per dead-lettered event.
	// Set before the publisher is shared across goroutines.
	onDeadLetter func(eventType Type)

	queue     chan retryItem
	closing   chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// SetDeadLetterHook installs a callback invoked for every event that ends
// up in the dead-letter file. Used to keep a metrics counter without this
// package depending on the metrics registry.
func (p *ResilientPublisher) SetDeadLetterHook(fn func(eventType Type)) {
	p.onDeadLetter = fn
}

// NewResilientPublisher creates a publisher with the given retry budget and
// starts its background retry worker.
func NewResilientPublisher(inner Bus, maxRetries int, baseDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dlw, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	p := &ResilientPublisher{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		deadLetter: dlw,
		queue:      make(chan retryItem, RetryQueueBufferSize),
		closing:    make(chan struct{}),
	}

	p.wg.Add(1)
	go p.retryWorker()

	return p, nil
}

// Publish delegates to the wrapped bus with no retry.
func (p *ResilientPublisher) Publish(ctx context.Context, evt Event) error {
	return p.inner.Publish(ctx, evt)
}

// Subscribe delegates to the wrapped bus.
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.inner.Subscribe(eventType, handler)
}

// PublishWithRetry publishes an event, queueing it for retry on failure.
// The caller never blocks and never sees an error; delivery is best-effort
// with the dead-letter file as the final stop.
func (p *ResilientPublisher) PublishWithRetry(ctx context.Context, evt Event) {
	err := p.inner.Publish(ctx, evt)
	if err == nil {
		return
	}

	logger.Warn(LogMsgEventPublishFailed, "event_type", evt.Type, "error", err)
	p.enqueue(retryItem{event: evt, attempt: 1, lastErr: err})
}

func (p *ResilientPublisher) enqueue(item retryItem) {
	select {
	case <-p.closing:
		logger.Warn(LogMsgEventDroppedShutdown, "event_type", item.event.Type)
		p.writeDeadLetter(item)
		return
	default:
	}

	select {
	case p.queue <- item:
	default:
		logger.Warn(LogMsgRetryQueueFull, "event_type", item.event.Type)
		p.writeDeadLetter(item)
	}
}

func (p *ResilientPublisher) retryWorker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.closing:
			p.drainQueue()
			return
		case item := <-p.queue:
			p.processItem(item)
		}
	}
}

func (p *ResilientPublisher) processItem(item retryItem) {
	select {
	case <-time.After(CalculateRetryDelay(p.baseDelay, item.attempt)):
	case <-p.closing:
		p.writeDeadLetter(item)
		return
	}

	// The originating request context is long gone by now.
	err := p.inner.Publish(context.Background(), item.event)
	if err == nil {
		logger.Info(LogMsgEventRetrySucceeded, "event_type", item.event.Type, "attempt", item.attempt)
		return
	}

	item.lastErr = err
	if item.attempt >= p.maxRetries {
		logger.Error(LogMsgEventRetryExhausted, "event_type", item.event.Type, "attempts", item.attempt)
		p.writeDeadLetter(item)
		return
	}

	logger.Warn(LogMsgEventRetryFailed, "event_type", item.event.Type, "attempt", item.attempt, "error", err)
	item.attempt++
	p.enqueue(item)
}

func (p *ResilientPublisher) drainQueue() {
	drained := 0
	for {
		select {
		case item := <-p.queue:
			p.writeDeadLetter(item)
			drained++
		default:
			if drained > 0 {
				logger.Info(LogMsgQueueDrainedShutdown, "count", drained)
			}
			return
		}
	}
}

func (p *ResilientPublisher) writeDeadLetter(item retryItem) {
	if p.onDeadLetter != nil {
		p.onDeadLetter(item.event.Type)
	}
	if err := p.deadLetter.Write(item.event, item.attempt, item.lastErr); err != nil {
		logger.Error(LogMsgDeadLetterWriteFailed, "event_type", item.event.Type, "error", err)
	}
}

// Shutdown stops the retry worker, dead-lettering anything still queued.
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	p.closeOnce.Do(func() {
		close(p.closing)
	})

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}

	return p.deadLetter.Close()
}
