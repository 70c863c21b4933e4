// Package publisher decouples event emission from storage. Synchronous by
// default; an async buffer absorbs bursts on the registration hot path at the
// cost of dropping events when the buffer is full.
package publisher

import (
	"context"
	"errors"
	"sync"
	"time"

	audit "rezo/pkg/platform/audit"
)

// ErrBufferFull is returned when an async publisher cannot accept more events.
var ErrBufferFull = errors.New("audit buffer full")

// Publisher forwards events to a store, optionally through an async buffer.
type Publisher struct {
	store audit.Store

	inbox     chan audit.Event
	done      chan struct{}
	closeOnce sync.Once
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithAsyncBuffer switches the publisher to asynchronous mode with the given
// buffer capacity. Events are appended by a background goroutine; Emit never
// blocks on storage.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.inbox = make(chan audit.Event, size)
	}
}

// NewPublisher constructs a publisher over the store.
func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, done: make(chan struct{})}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.inbox != nil {
		go p.drain()
	}
	return p
}

// Emit publishes an event, stamping the time when the caller left it zero.
// In async mode a full buffer drops the event and reports ErrBufferFull.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.inbox <- event:
		return nil
	default:
		return ErrBufferFull
	}
}

// Close stops the async goroutine after draining buffered events. Safe to call
// in sync mode and more than once.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		if p.inbox == nil {
			return
		}
		close(p.inbox)
		<-p.done
	})
}

func (p *Publisher) drain() {
	defer close(p.done)
	for event := range p.inbox {
		// Best effort: a failed append must not stall the drain loop.
		_ = p.store.Append(context.Background(), event)
	}
}
