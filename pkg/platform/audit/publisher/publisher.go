// Package publisher provides a buffered, non-blocking audit publisher.
//
// Domain services call Emit on their hot path; the event is handed to a
// bounded channel and flushed to the store by a background goroutine. When
// the buffer is full the event is dropped and counted rather than blocking
// the business operation.
package publisher

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	audit "campustrust/pkg/platform/audit"
)

type Publisher struct {
	store  audit.Store
	logger *slog.Logger

	inbox   chan audit.Event
	dropped atomic.Int64

	closeOnce sync.Once
	done      chan struct{}
	drained   chan struct{}
}

// Option configures the Publisher.
type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

func WithBufferSize(n int) Option {
	return func(p *Publisher) { p.inbox = make(chan audit.Event, n) }
}

// New creates a publisher and starts its flush goroutine.
func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:   store,
		inbox:   make(chan audit.Event, 256),
		done:    make(chan struct{}),
		drained: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	go p.run()
	return p
}

// Emit queues an event for persistence. Never blocks: when the buffer is
// full the event is dropped and the drop counter incremented.
func (p *Publisher) Emit(_ context.Context, event audit.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}
	select {
	case p.inbox <- event:
	default:
		p.dropped.Add(1)
		if p.logger != nil {
			p.logger.Warn("audit buffer full, event dropped", "action", event.Action)
		}
	}
}

// Dropped returns how many events were discarded because the buffer was full.
func (p *Publisher) Dropped() int64 {
	return p.dropped.Load()
}

// Close stops the flush goroutine after draining buffered events.
func (p *Publisher) Close() error {
	p.closeOnce.Do(func() {
		close(p.done)
		<-p.drained
	})
	return nil
}

func (p *Publisher) run() {
	defer close(p.drained)
	for {
		select {
		case event := <-p.inbox:
			p.append(event)
		case <-p.done:
			for {
				select {
				case event := <-p.inbox:
					p.append(event)
				default:
					return
				}
			}
		}
	}
}

func (p *Publisher) append(event audit.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.store.Append(ctx, event); err != nil && p.logger != nil {
		p.logger.Error("audit append failed", "action", event.Action, "error", err)
	}
}
